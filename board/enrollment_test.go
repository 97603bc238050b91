package board

import (
	"context"
	"sync"
	"testing"

	"github.com/amplify-dev/amplify/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscriptionCount(t *testing.T, engine *Engine, userId, communityId string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, engine.db.Model(&model.Subscription{}).
		Where("user_id = ? AND community_id = ?", userId, communityId).
		Count(&count).Error)
	return count
}

func TestEnsureEnrolledOpenCommunity(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	creator := createTestUser(t, db, "creator")
	visitor := createTestUser(t, db, "visitor")
	open := createTestCommunity(t, db, "product", true, creator)

	require.NoError(t, engine.EnsureEnrolled(context.Background(), visitor.Id, open))
	assert.Equal(t, int64(1), subscriptionCount(t, engine, visitor.Id, open.Id))

	// Second visit is a no-op.
	require.NoError(t, engine.EnsureEnrolled(context.Background(), visitor.Id, open))
	assert.Equal(t, int64(1), subscriptionCount(t, engine, visitor.Id, open.Id))
}

func TestEnsureEnrolledSkipsClosedCommunityAndAnonymous(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	creator := createTestUser(t, db, "creator")
	visitor := createTestUser(t, db, "visitor")
	closed := createTestCommunity(t, db, "private-club", false, creator)
	open := createTestCommunity(t, db, "product", true, creator)

	require.NoError(t, engine.EnsureEnrolled(context.Background(), visitor.Id, closed))
	assert.Equal(t, int64(0), subscriptionCount(t, engine, visitor.Id, closed.Id))

	require.NoError(t, engine.EnsureEnrolled(context.Background(), "", open))
	var total int64
	require.NoError(t, db.Model(&model.Subscription{}).Count(&total).Error)
	assert.Equal(t, int64(0), total)
}

func TestEnsureEnrolledConcurrentDuplicates(t *testing.T) {
	db := requireTestDB(t)
	engine := NewEngine(db, newFakeSnapshotStore(), newFakeMarkerStore())

	creator := createTestUser(t, db, "creator")
	visitor := createTestUser(t, db, "visitor")
	open := createTestCommunity(t, db, "product", true, creator)

	// Two simultaneous page loads: both must succeed, exactly one row must
	// exist afterwards. The database constraint, not a lock, decides the race.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = engine.EnsureEnrolled(context.Background(), visitor.Id, open)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, int64(1), subscriptionCount(t, engine, visitor.Id, open.Id))
}
