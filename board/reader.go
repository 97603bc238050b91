package board

import (
	"context"
	"time"

	"github.com/amplify-dev/amplify/model"
	Logger "github.com/amplify-dev/amplify/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Provenance string

const (
	ProvenanceCached  Provenance = "cached"
	ProvenanceDurable Provenance = "durable"
)

// Viewer identifies the requesting caller. Id is the authenticated user id,
// empty for anonymous viewers. Token is the opaque idempotency token used for
// view counting; for anonymous viewers it is session scoped.
type Viewer struct {
	Id    string
	Token string
}

func (v Viewer) Anonymous() bool {
	return v.Id == ""
}

// PostPage is the renderable representation of a single post. Tally is only
// populated on the durable path, where votes come preloaded; a cache hit
// resolves its tally through PostTally instead.
type PostPage struct {
	Provenance     Provenance
	Id             string
	Title          string
	Content        *model.PostContent
	AuthorUsername string
	CommunityName  string
	CreatedAt      time.Time
	Views          int64
	Tally          Tally
}

// ReadPost resolves a post by id, preferring the snapshot cache and falling
// back to the durable store. Cache trouble of any kind (timeout, connection
// refused, corrupted entry) is downgraded to a miss: the cache is an
// optimization and must never fail a read on its own.
//
// The view gate runs only on the durable path. A post served hot from the
// cache does not accrue views; see PostViews for how the counter is still
// rendered in that case.
func (e *Engine) ReadPost(ctx context.Context, postId string, viewer Viewer) (*PostPage, error) {
	if postId == "" {
		return nil, &ValidationError{Reason: "empty post id"}
	}

	if page := e.readFromCache(ctx, postId); page != nil {
		return page, nil
	}

	var post model.Post
	queryResult := e.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes", "target_kind = ?", model.VoteTargetPost).
		Preload("Community").
		Where("id = ?", postId).
		First(&post)
	if queryResult.Error != nil {
		if errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "post "+postId)
		}
		return nil, errors.Wrap(queryResult.Error, "post read unavailable")
	}

	content, err := model.ParsePostContent(post.Content)
	if err != nil {
		return nil, errors.Wrap(err, "stored content for post "+postId+" is malformed")
	}

	views := e.countView(ctx, postId, viewer.Token, post.Views)

	tally, err := TallyVotes(post.Votes, viewer.Id)
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Provenance:     ProvenanceDurable,
		Id:             post.Id,
		Title:          post.Title,
		Content:        content,
		AuthorUsername: post.Author.Username,
		CommunityName:  post.Community.Name,
		CreatedAt:      post.CreatedAt,
		Views:          views,
		Tally:          tally,
	}, nil
}

// readFromCache returns a page built from the snapshot tier, or nil when the
// post is not cached, the entry is structurally invalid, or the cache is
// unreachable.
func (e *Engine) readFromCache(ctx context.Context, postId string) *PostPage {
	snapshot, err := e.snapshots.GetPost(ctx, postId)
	if err != nil {
		Logger.Log.Warn("snapshot lookup failed, falling back to durable store: ", err)
		return nil
	}
	if snapshot == nil || snapshot.Content == "" {
		return nil
	}

	content, err := model.ParsePostContent([]byte(snapshot.Content))
	if err != nil {
		Logger.Log.Warn("cached snapshot for post ", postId, " is malformed, falling back: ", err)
		return nil
	}

	return &PostPage{
		Provenance:     ProvenanceCached,
		Id:             snapshot.Id,
		Title:          snapshot.Title,
		Content:        content,
		AuthorUsername: snapshot.AuthorUsername,
		CreatedAt:      snapshot.CreatedAt,
	}
}

// PostTally fetches a post's votes and tallies them for the viewer. The vote
// column is the one mutable field a cached page still needs fresh, so this is
// a separate durable read rather than part of the snapshot.
func (e *Engine) PostTally(ctx context.Context, postId string, viewerId string) (Tally, error) {
	var votes []model.Vote
	queryResult := e.db.WithContext(ctx).
		Where("target_id = ? AND target_kind = ?", postId, model.VoteTargetPost).
		Order("created_at").
		Find(&votes)
	if queryResult.Error != nil {
		return Tally{}, errors.Wrap(queryResult.Error, "vote read unavailable")
	}
	return TallyVotes(votes, viewerId)
}
