package server

import (
	"encoding/json"
	"net/http"

	"github.com/amplify-dev/amplify/board"
	"github.com/amplify-dev/amplify/model"
	"github.com/amplify-dev/amplify/server/middlewares"
	Logger "github.com/amplify-dev/amplify/utils/log"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// APIHandler exposes the post interaction engine over HTTP. The handlers are
// thin: parse, call the engine, map errors to status codes. All invariants
// live in the board package.
type APIHandler struct {
	engine *board.Engine
}

func NewAPIHandler(engine *board.Engine) *APIHandler {
	return &APIHandler{engine: engine}
}

func (h *APIHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.GET("/posts/:postId", h.GetPost)
	api.POST("/posts", h.CreatePost)
	api.POST("/posts/:postId/comments", h.CreateComment)
	api.POST("/votes", h.CastVote)
	api.GET("/r/:name", h.GetCommunity)
	api.POST("/r", h.CreateCommunity)
}

// GetPost renders a single post page: the post itself (cache first), its
// tally, its comment thread and its view count.
func (h *APIHandler) GetPost(c *gin.Context) {
	viewer := middlewares.GetViewer(c)
	postId := c.Param("postId")

	page, err := h.engine.ReadPost(c.Request.Context(), postId, viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if page.Provenance == board.ProvenanceCached {
		// Votes and views are mutable and never part of the snapshot; resolve
		// them from the durable store. Views degrade to zero silently rather
		// than failing a page the cache already answered.
		tally, err := h.engine.PostTally(c.Request.Context(), postId, viewer.Id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		page.Tally = tally
		views, err := h.engine.PostViews(c.Request.Context(), postId)
		if err != nil {
			Logger.Log.Warn("view count unavailable for cached post ", postId, ": ", err)
		}
		page.Views = views
	}

	thread, err := h.engine.BuildThread(c.Request.Context(), page.Id, viewer.Id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":       renderPost(page),
		"comments":   renderThread(thread),
		"provenance": page.Provenance,
	})
}

type createPostRequest struct {
	CommunityId string          `json:"communityId" binding:"required"`
	Title       string          `json:"title" binding:"required"`
	Content     json.RawMessage `json:"content" binding:"required"`
}

func (h *APIHandler) CreatePost(c *gin.Context) {
	viewer := middlewares.GetViewer(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	content, err := model.ParsePostContent([]byte(req.Content))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.engine.CreatePost(c.Request.Context(), viewer.Id, req.CommunityId, req.Title, content)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.Id})
}

type createCommentRequest struct {
	ReplyToId *string `json:"replyToId"`
	Body      string  `json:"body" binding:"required"`
}

func (h *APIHandler) CreateComment(c *gin.Context) {
	viewer := middlewares.GetViewer(c)

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.engine.CreateComment(c.Request.Context(), viewer.Id, c.Param("postId"), req.ReplyToId, req.Body)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": comment.Id})
}

type castVoteRequest struct {
	TargetId   string `json:"targetId" binding:"required"`
	TargetKind string `json:"targetKind" binding:"required"`
	Direction  string `json:"direction" binding:"required"`
}

func (h *APIHandler) CastVote(c *gin.Context) {
	viewer := middlewares.GetViewer(c)

	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.engine.CastVote(c.Request.Context(), viewer.Id, req.TargetId,
		model.VoteTargetKind(req.TargetKind), model.VoteDirection(req.Direction))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetCommunity renders a community page. Visiting an open community while
// authenticated enrolls the viewer as a side effect.
func (h *APIHandler) GetCommunity(c *gin.Context) {
	viewer := middlewares.GetViewer(c)

	page, err := h.engine.ReadCommunity(c.Request.Context(), c.Param("name"), viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}

	posts := make([]gin.H, 0, len(page.Posts))
	for _, summary := range page.Posts {
		posts = append(posts, gin.H{
			"id":             summary.Post.Id,
			"title":          summary.Post.Title,
			"authorUsername": summary.Post.Author.Username,
			"createdAt":      summary.Post.CreatedAt,
			"views":          summary.Post.Views,
			"score":          summary.Tally.Score,
			"viewerVote":     string(summary.Tally.ViewerVote),
			"commentCount":   summary.CommentCount,
			"thumbnailUrl":   summary.ThumbnailUrl,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"community": gin.H{
			"id":      page.Community.Id,
			"name":    page.Community.Name,
			"iconUrl": page.Community.IconUrl,
			"open":    page.Community.Open,
		},
		"members":    page.Members,
		"subscribed": page.Subscribed,
		"posts":      posts,
	})
}

type createCommunityRequest struct {
	Name    string `json:"name" binding:"required"`
	IconUrl string `json:"iconUrl"`
	Open    bool   `json:"open"`
}

func (h *APIHandler) CreateCommunity(c *gin.Context) {
	viewer := middlewares.GetViewer(c)

	var req createCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	community, err := h.engine.CreateCommunity(c.Request.Context(), viewer.Id, req.Name, req.IconUrl, req.Open)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": community.Id, "name": community.Name})
}

func renderPost(page *board.PostPage) gin.H {
	return gin.H{
		"id":             page.Id,
		"title":          page.Title,
		"content":        page.Content,
		"authorUsername": page.AuthorUsername,
		"communityName":  page.CommunityName,
		"createdAt":      page.CreatedAt,
		"views":          page.Views,
		"score":          page.Tally.Score,
		"viewerVote":     string(page.Tally.ViewerVote),
	}
}

func renderThread(thread []board.CommentNode) []gin.H {
	nodes := make([]gin.H, 0, len(thread))
	for _, node := range thread {
		rendered := gin.H{
			"id":             node.Comment.Id,
			"body":           node.Comment.Body,
			"authorUsername": node.Comment.Author.Username,
			"createdAt":      node.Comment.CreatedAt,
			"score":          node.Tally.Score,
			"viewerVote":     string(node.Tally.ViewerVote),
		}
		if node.Replies != nil {
			rendered["replies"] = renderThread(node.Replies)
		}
		nodes = append(nodes, rendered)
	}
	return nodes
}

// abortWithError maps engine errors onto HTTP statuses. Anything that is not
// an expected branch is a degraded-backend signal, never a silent empty page.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, board.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, board.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case board.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		Logger.Log.Error("request failed: ", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable"})
	}
}
