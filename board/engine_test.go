package board

import (
	"context"
	"testing"
	"time"

	"github.com/amplify-dev/amplify/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostPageScenario walks the whole read path the way a post page does:
// tally, thread, view dedup, all against one seeded post.
func TestPostPageScenario(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	author := createTestUser(t, db, "author")
	u := createTestUser(t, db, "u")
	voters := []*model.User{
		createTestUser(t, db, "v1"),
		createTestUser(t, db, "v2"),
		createTestUser(t, db, "v3"),
	}
	community := createTestCommunity(t, db, "general", false, author)
	post := createTestPost(t, db, author, community, "scenario", 5)

	for _, voter := range voters {
		castTestVote(t, db, voter, post.Id, model.VoteTargetPost, model.VoteUp)
	}
	castTestVote(t, db, u, post.Id, model.VoteTargetPost, model.VoteDown)

	base := time.Now().Add(-time.Hour)
	c1 := createTestComment(t, db, u, post.Id, nil, base, "first comment")
	c2 := createTestComment(t, db, author, post.Id, nil, base.Add(time.Minute), "second comment")
	createTestComment(t, db, u, post.Id, &c2.Id, base.Add(2*time.Minute), "a reply")

	// 3 up, 1 down, and the down vote belongs to the viewer.
	page, err := engine.ReadPost(context.Background(), post.Id, Viewer{Id: u.Id, Token: "anon-123"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Tally.Score)
	assert.Equal(t, model.VoteDown, page.Tally.ViewerVote)

	// First view with this token: 5 becomes 6.
	assert.Equal(t, int64(6), page.Views)

	thread, err := engine.BuildThread(context.Background(), post.Id, u.Id)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, c1.Id, thread[0].Comment.Id)
	assert.Equal(t, c2.Id, thread[1].Comment.Id)
	assert.Empty(t, thread[0].Replies)
	assert.Len(t, thread[1].Replies, 1)

	// Same token again: the count stays at 6.
	page, err = engine.ReadPost(context.Background(), post.Id, Viewer{Id: u.Id, Token: "anon-123"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), page.Views)
}

func TestCreatePostWritesSnapshotThrough(t *testing.T) {
	db := requireTestDB(t)
	snapshots := newFakeSnapshotStore()
	engine := NewEngine(db, snapshots, newFakeMarkerStore())

	author := createTestUser(t, db, "author")
	community := createTestCommunity(t, db, "product", true, author)

	content, err := model.ParsePostContent([]byte(testContentJSON))
	require.NoError(t, err)

	post, err := engine.CreatePost(context.Background(), author.Id, community.Id, "fresh post", content)
	require.NoError(t, err)

	// The snapshot is immediately servable: the next read never reaches the
	// durable store.
	page, readErr := NewEngine(nil, snapshots, newFakeMarkerStore()).
		ReadPost(context.Background(), post.Id, Viewer{})
	require.NoError(t, readErr)
	assert.Equal(t, ProvenanceCached, page.Provenance)
	assert.Equal(t, "fresh post", page.Title)
	assert.Equal(t, "author", page.AuthorUsername)

	// Posting into an open community enrolled the author.
	assert.Equal(t, int64(1), subscriptionCount(t, engine, author.Id, community.Id))
}

func TestCreatePostRequiresAuth(t *testing.T) {
	engine := NewEngine(nil, newFakeSnapshotStore(), newFakeMarkerStore())
	content, err := model.ParsePostContent([]byte(testContentJSON))
	require.NoError(t, err)

	_, err = engine.CreatePost(context.Background(), "", "some-community", "title", content)
	assert.True(t, errors.Is(err, ErrUnauthenticated))
}

func TestCreateCommunityUniqueName(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	creator := createTestUser(t, db, "creator")

	community, err := engine.CreateCommunity(context.Background(), creator.Id, "makers", "", false)
	require.NoError(t, err)
	// creator also has to be subscribed
	assert.Equal(t, int64(1), subscriptionCount(t, engine, creator.Id, community.Id))

	other := createTestUser(t, db, "other")
	_, err = engine.CreateCommunity(context.Background(), other.Id, "makers", "", false)
	assert.True(t, errors.Is(err, ErrAlreadyExists))
}

func TestCreateCommunityValidatesName(t *testing.T) {
	engine := NewEngine(nil, newFakeSnapshotStore(), newFakeMarkerStore())

	_, err := engine.CreateCommunity(context.Background(), "u1", "ab", "", false)
	assert.True(t, IsValidationError(err))
}

func TestCastVoteUpsertsDirection(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	author := createTestUser(t, db, "author")
	voter := createTestUser(t, db, "voter")
	community := createTestCommunity(t, db, "general", false, author)
	post := createTestPost(t, db, author, community, "a post", 0)

	require.NoError(t, engine.CastVote(context.Background(), voter.Id, post.Id, model.VoteTargetPost, model.VoteUp))
	// Changing one's mind updates the existing row instead of adding another.
	require.NoError(t, engine.CastVote(context.Background(), voter.Id, post.Id, model.VoteTargetPost, model.VoteDown))

	var votes []model.Vote
	require.NoError(t, db.Where("target_id = ?", post.Id).Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.Equal(t, model.VoteDown, votes[0].Direction)
}

func TestCastVoteValidation(t *testing.T) {
	engine := NewEngine(nil, newFakeSnapshotStore(), newFakeMarkerStore())

	err := engine.CastVote(context.Background(), "u1", "t1", "", model.VoteUp)
	assert.True(t, IsValidationError(err))

	err = engine.CastVote(context.Background(), "u1", "t1", model.VoteTargetPost, "SIDEWAYS")
	assert.True(t, IsValidationError(err))
}
