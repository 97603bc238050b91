package board

import (
	"context"
	"sort"

	"github.com/amplify-dev/amplify/model"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CommentNode is one rendered comment: the record itself, its tally for the
// requesting viewer, and (for top-level comments) its direct replies. The
// thread is two levels deep; replies never carry replies of their own.
type CommentNode struct {
	Comment *model.Comment
	Tally   Tally
	Replies []CommentNode
}

// BuildThread assembles the comment section of a post: top-level comments in
// creation order, each with its replies.
//
// Everything is fetched in one query with authors, votes and replies eagerly
// attached. A comment section of n comments must not cost n round trips.
//
// Replies are ordered by raw vote count descending, not by net score, ties
// broken by creation order. A heavily downvoted reply therefore outranks a
// quietly upvoted one; this matches the established placement behavior and is
// kept as is.
func (e *Engine) BuildThread(ctx context.Context, postId string, viewerId string) ([]CommentNode, error) {
	if postId == "" {
		return nil, &ValidationError{Reason: "empty post id"}
	}

	var comments []model.Comment
	queryResult := e.db.WithContext(ctx).
		Preload("Author").
		Preload("Votes", "target_kind = ?", model.VoteTargetComment).
		Preload("Replies", func(db *gorm.DB) *gorm.DB { return db.Order("created_at") }).
		Preload("Replies.Author").
		Preload("Replies.Votes", "target_kind = ?", model.VoteTargetComment).
		Where("post_id = ? AND reply_to_id IS NULL", postId).
		Order("created_at").
		Find(&comments)
	if queryResult.Error != nil {
		return nil, errors.Wrap(queryResult.Error, "comment read unavailable")
	}

	thread := make([]CommentNode, 0, len(comments))
	for i := range comments {
		comment := &comments[i]
		tally, err := TallyVotes(comment.Votes, viewerId)
		if err != nil {
			return nil, err
		}

		replies := make([]CommentNode, 0, len(comment.Replies))
		for j := range comment.Replies {
			reply := &comment.Replies[j]
			replyTally, err := TallyVotes(reply.Votes, viewerId)
			if err != nil {
				return nil, err
			}
			replies = append(replies, CommentNode{Comment: reply, Tally: replyTally})
		}
		sortReplies(replies)

		thread = append(thread, CommentNode{Comment: comment, Tally: tally, Replies: replies})
	}
	return thread, nil
}

// sortReplies orders replies by number of votes cast, most voted first. The
// sort is stable so replies with equal vote counts keep their creation order.
func sortReplies(replies []CommentNode) {
	sort.SliceStable(replies, func(i, j int) bool {
		return len(replies[i].Comment.Votes) > len(replies[j].Comment.Votes)
	})
}
