package board

import (
	"context"
	"time"

	"github.com/amplify-dev/amplify/cache"
	"github.com/amplify-dev/amplify/model"
	"github.com/amplify-dev/amplify/utils"
	Logger "github.com/amplify-dev/amplify/utils/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	communityNameMinLength = 3
	communityNameMaxLength = 21
)

// CreateCommunity creates a community with a globally unique name and
// subscribes its creator. Open communities are declared at creation time.
func (e *Engine) CreateCommunity(ctx context.Context, creatorId string, name string, iconUrl string, open bool) (*model.Community, error) {
	if creatorId == "" {
		return nil, ErrUnauthenticated
	}
	if len(name) < communityNameMinLength || len(name) > communityNameMaxLength {
		return nil, &ValidationError{Reason: "community name must be 3 to 21 characters"}
	}

	community := model.Community{
		Id:        uuid.New().String(),
		CreatedAt: time.Now(),
		Name:      name,
		IconUrl:   iconUrl,
		CreatorID: creatorId,
		Open:      open,
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&community).Error; err != nil {
			return err
		}
		// creator also has to be subscribed
		return tx.Create(&model.Subscription{
			UserID:      creatorId,
			CommunityID: community.Id,
		}).Error
	})
	if err != nil {
		if utils.IsDuplicateKeyError(err) {
			return nil, errors.Wrap(ErrAlreadyExists, "community "+name)
		}
		return nil, errors.Wrap(err, "community create failed")
	}
	return &community, nil
}

// CreatePost creates a post in a community and writes its snapshot through to
// the hot cache. Posting into an open community also enrolls the author, with
// the same idempotent semantics as a page visit.
func (e *Engine) CreatePost(ctx context.Context, authorId string, communityId string, title string, content *model.PostContent) (*model.Post, error) {
	if authorId == "" {
		return nil, ErrUnauthenticated
	}
	if title == "" {
		return nil, &ValidationError{Reason: "empty title"}
	}
	if content == nil || len(content.Blocks) == 0 {
		return nil, &ValidationError{Reason: "empty content"}
	}

	var community model.Community
	queryResult := e.db.WithContext(ctx).Where("id = ?", communityId).First(&community)
	if queryResult.Error != nil {
		if errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "community "+communityId)
		}
		return nil, errors.Wrap(queryResult.Error, "community read unavailable")
	}

	if err := e.EnsureEnrolled(ctx, authorId, &community); err != nil {
		return nil, err
	}

	encoded, err := content.Encode()
	if err != nil {
		return nil, &ValidationError{Reason: "unencodable content: " + err.Error()}
	}

	var author model.User
	queryResult = e.db.WithContext(ctx).Where("id = ?", authorId).First(&author)
	if queryResult.Error != nil {
		return nil, errors.Wrap(queryResult.Error, "author lookup failed")
	}

	post := model.Post{
		Id:          uuid.New().String(),
		CreatedAt:   time.Now(),
		Title:       title,
		Content:     encoded,
		AuthorID:    author.Id,
		Author:      author,
		CommunityID: community.Id,
	}
	if err := e.db.WithContext(ctx).Omit("Author", "Community").Create(&post).Error; err != nil {
		return nil, errors.Wrap(err, "post create failed")
	}

	// Write-through to the snapshot cache so the first readers never touch the
	// durable store. Best effort: the post exists either way.
	if err := e.snapshots.SetPost(ctx, cache.SnapshotFromPost(&post)); err != nil {
		Logger.Log.Warn("snapshot write failed for post ", post.Id, ": ", err)
	}
	return &post, nil
}

// CreateComment adds a comment to a post. Replying to a reply re-attaches the
// comment to the reply's top-level parent, keeping the thread two levels deep.
func (e *Engine) CreateComment(ctx context.Context, authorId string, postId string, replyToId *string, body string) (*model.Comment, error) {
	if authorId == "" {
		return nil, ErrUnauthenticated
	}
	if body == "" {
		return nil, &ValidationError{Reason: "empty comment body"}
	}

	var post model.Post
	queryResult := e.db.WithContext(ctx).Where("id = ?", postId).First(&post)
	if queryResult.Error != nil {
		if errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrNotFound, "post "+postId)
		}
		return nil, errors.Wrap(queryResult.Error, "post read unavailable")
	}

	if replyToId != nil {
		var parent model.Comment
		queryResult := e.db.WithContext(ctx).Where("id = ?", *replyToId).First(&parent)
		if queryResult.Error != nil {
			if errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
				return nil, errors.Wrap(ErrNotFound, "comment "+*replyToId)
			}
			return nil, errors.Wrap(queryResult.Error, "comment read unavailable")
		}
		if parent.ReplyToID != nil {
			replyToId = parent.ReplyToID
		}
	}

	comment := model.Comment{
		Id:        uuid.New().String(),
		CreatedAt: time.Now(),
		Body:      body,
		AuthorID:  authorId,
		PostID:    postId,
		ReplyToID: replyToId,
	}
	if err := e.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, errors.Wrap(err, "comment create failed")
	}
	return &comment, nil
}

// CastVote records the viewer's vote on a post or comment. Voting again on the
// same target updates the direction of the existing row; the unique index on
// (user, target, kind) guarantees a single row per pair.
func (e *Engine) CastVote(ctx context.Context, userId string, targetId string, kind model.VoteTargetKind, direction model.VoteDirection) error {
	if userId == "" {
		return ErrUnauthenticated
	}
	if kind != model.VoteTargetPost && kind != model.VoteTargetComment {
		return &ValidationError{Reason: "missing or unknown vote target kind"}
	}
	if direction != model.VoteUp && direction != model.VoteDown {
		return &ValidationError{Reason: "missing or unknown vote direction"}
	}

	vote := model.Vote{
		Id:         uuid.New().String(),
		CreatedAt:  time.Now(),
		Direction:  direction,
		UserID:     userId,
		TargetID:   targetId,
		TargetKind: kind,
	}
	queryResult := e.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_id"}, {Name: "target_kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"direction"}),
	}).Create(&vote)
	if queryResult.Error != nil {
		return errors.Wrap(queryResult.Error, "vote write failed")
	}
	return nil
}
