package board

import (
	"context"

	"github.com/amplify-dev/amplify/model"
	Logger "github.com/amplify-dev/amplify/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const communityFeedLimit = 20

// PostSummary is one feed entry on a community page. ThumbnailUrl is set when
// the post's trailing content block is an image, which open product-style
// communities render as a card thumbnail.
type PostSummary struct {
	Post         *model.Post
	Tally        Tally
	CommentCount int
	ThumbnailUrl string
}

// CommunityPage is everything needed to render a community: the community
// itself, its most recent posts with tallies, the member count, and whether
// the viewer is subscribed.
type CommunityPage struct {
	Community  *model.Community
	Posts      []PostSummary
	Members    int64
	Subscribed bool
}

// ReadCommunity loads a community page by name and, for authenticated viewers
// of open communities, runs auto-enrollment as a side effect of the visit.
func (e *Engine) ReadCommunity(ctx context.Context, name string, viewer Viewer) (*CommunityPage, error) {
	if name == "" {
		return nil, &ValidationError{Reason: "empty community name"}
	}

	var community model.Community
	queryResult := e.db.WithContext(ctx).Where("name = ?", name).First(&community)
	if queryResult.Error != nil {
		if errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "community "+name)
		}
		return nil, errors.Wrap(queryResult.Error, "community read unavailable")
	}

	if err := e.EnsureEnrolled(ctx, viewer.Id, &community); err != nil {
		return nil, err
	}

	var posts []model.Post
	queryResult = e.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes", "target_kind = ?", model.VoteTargetPost).
		Preload("Comments").
		Where("community_id = ?", community.Id).
		Order("created_at desc").
		Limit(communityFeedLimit).
		Find(&posts)
	if queryResult.Error != nil {
		return nil, errors.Wrap(queryResult.Error, "community posts unavailable")
	}

	summaries := make([]PostSummary, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		tally, err := TallyVotes(post.Votes, viewer.Id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, PostSummary{
			Post:         post,
			Tally:        tally,
			CommentCount: len(post.Comments),
			ThumbnailUrl: trailingImageUrl(post),
		})
	}

	var members int64
	if err := e.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("community_id = ?", community.Id).
		Count(&members).Error; err != nil {
		return nil, errors.Wrap(err, "member count unavailable")
	}

	subscribed := false
	if !viewer.Anonymous() {
		var count int64
		if err := e.db.WithContext(ctx).Model(&model.Subscription{}).
			Where("user_id = ? AND community_id = ?", viewer.Id, community.Id).
			Count(&count).Error; err != nil {
			return nil, errors.Wrap(err, "subscription lookup failed")
		}
		subscribed = count > 0
	}

	return &CommunityPage{
		Community:  &community,
		Posts:      summaries,
		Members:    members,
		Subscribed: subscribed,
	}, nil
}

// trailingImageUrl returns the url of the post's last content block iff that
// block is an image, otherwise "". Malformed stored content only costs the
// thumbnail, not the feed.
func trailingImageUrl(post *model.Post) string {
	content, err := model.ParsePostContent(post.Content)
	if err != nil {
		Logger.Log.Warn("unparseable content on post ", post.Id, ": ", err)
		return ""
	}
	if !content.LastBlockIsImage() {
		return ""
	}
	image := content.Blocks[len(content.Blocks)-1].(*model.ImageBlock)
	return image.File.Url
}
