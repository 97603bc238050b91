package board

import (
	"github.com/amplify-dev/amplify/model"
	Logger "github.com/amplify-dev/amplify/utils/log"
)

// Tally is the aggregate voting state of one target as seen by one viewer.
// ViewerVote is empty for anonymous viewers and for viewers who have not
// voted.
type Tally struct {
	Score      int
	ViewerVote model.VoteDirection
}

// TallyVotes folds a target's vote records into a net score and resolves the
// requesting viewer's own vote. Pure: no I/O, and the result does not depend
// on the order of the input slice.
//
// At most one vote per (voter, target) exists by the uniqueness constraint on
// votes. If the input still carries several votes by the viewer the constraint
// was broken upstream; the earliest vote wins and the condition is logged as a
// warning rather than failing the page.
func TallyVotes(votes []model.Vote, viewerId string) (Tally, error) {
	var tally Tally
	viewerVotes := 0
	var viewerVote *model.Vote

	for i := range votes {
		vote := &votes[i]
		switch vote.Direction {
		case model.VoteUp:
			tally.Score++
		case model.VoteDown:
			tally.Score--
		default:
			return Tally{}, &ValidationError{Reason: "vote " + vote.Id + " has no direction"}
		}

		if viewerId == "" || vote.UserID != viewerId {
			continue
		}
		viewerVotes++
		if viewerVote == nil || earlierVote(vote, viewerVote) {
			viewerVote = vote
		}
	}

	if viewerVotes > 1 {
		Logger.Log.Warnf("found %d votes by user %s on one target, expected at most 1", viewerVotes, viewerId)
	}
	if viewerVote != nil {
		tally.ViewerVote = viewerVote.Direction
	}
	return tally, nil
}

// earlierVote orders votes by creation time, falling back to id so the choice
// stays deterministic for identical timestamps.
func earlierVote(a, b *model.Vote) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.Id < b.Id
}
