package board

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postViews(t *testing.T, engine *Engine, postId string) int64 {
	t.Helper()
	views, err := engine.PostViews(context.Background(), postId)
	require.NoError(t, err)
	return views
}

func TestCountViewOncePerViewer(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	author := createTestUser(t, db, "author")
	community := createTestCommunity(t, db, "general", false, author)
	post := createTestPost(t, db, author, community, "a post", 5)

	got := engine.countView(context.Background(), post.Id, "anon-123", 5)
	assert.Equal(t, int64(6), got)
	assert.Equal(t, int64(6), postViews(t, engine, post.Id))

	// Same token again: no-op, count unchanged.
	got = engine.countView(context.Background(), post.Id, "anon-123", 6)
	assert.Equal(t, int64(6), got)
	assert.Equal(t, int64(6), postViews(t, engine, post.Id))
}

func TestCountViewDistinctViewers(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	author := createTestUser(t, db, "author")
	community := createTestCommunity(t, db, "general", false, author)
	post := createTestPost(t, db, author, community, "a post", 0)

	for i := 0; i < 4; i++ {
		current := postViews(t, engine, post.Id)
		engine.countView(context.Background(), post.Id, fmt.Sprintf("viewer-%d", i), current)
	}
	assert.Equal(t, int64(4), postViews(t, engine, post.Id))
}

func TestCountViewAnonymousTokenlessViewer(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	author := createTestUser(t, db, "author")
	community := createTestCommunity(t, db, "general", false, author)
	post := createTestPost(t, db, author, community, "a post", 2)

	got := engine.countView(context.Background(), post.Id, "", 2)
	assert.Equal(t, int64(2), got)
	assert.Equal(t, int64(2), postViews(t, engine, post.Id))
}

func TestCountViewMarkerFailureDegrades(t *testing.T) {
	db := requireTestDB(t)
	markers := newFakeMarkerStore()
	markers.hasErr = errors.New("redis down")
	engine := NewEngine(db, newFakeSnapshotStore(), markers)

	author := createTestUser(t, db, "author")
	community := createTestCommunity(t, db, "general", false, author)
	post := createTestPost(t, db, author, community, "a post", 7)

	// Marker store unreachable: the read still answers with the current
	// count, and nothing is incremented.
	got := engine.countView(context.Background(), post.Id, "anon-123", 7)
	assert.Equal(t, int64(7), got)
	assert.Equal(t, int64(7), postViews(t, engine, post.Id))
}

func TestCountViewIncrementFailureDegrades(t *testing.T) {
	db := requireTestDB(t)
	markers := newFakeMarkerStore()
	engine := NewEngine(db, newFakeSnapshotStore(), markers)

	// Unknown post id: the durable increment affects no rows, the caller
	// keeps the pre-increment count, and no marker is recorded.
	got := engine.countView(context.Background(), "no-such-post", "anon-123", 3)
	assert.Equal(t, int64(3), got)
	assert.Empty(t, markers.markers)
}
