package board

import (
	"context"
	"sync"

	"github.com/amplify-dev/amplify/model"
)

// In-memory stand-ins for the Redis tiers, so the read path and the view gate
// can be exercised without a cache server.

type fakeSnapshotStore struct {
	mu     sync.Mutex
	posts  map[string]*model.CachedPost
	getErr error
	gets   int
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{posts: map[string]*model.CachedPost{}}
}

func (s *fakeSnapshotStore) GetPost(ctx context.Context, postId string) (*model.CachedPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.posts[postId], nil
}

func (s *fakeSnapshotStore) SetPost(ctx context.Context, snapshot *model.CachedPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[snapshot.Id] = snapshot
	return nil
}

type fakeMarkerStore struct {
	mu      sync.Mutex
	markers map[string]bool
	hasErr  error
	setErr  error
}

func newFakeMarkerStore() *fakeMarkerStore {
	return &fakeMarkerStore{markers: map[string]bool{}}
}

func (s *fakeMarkerStore) key(viewerToken, postId string) string {
	return viewerToken + "__" + postId
}

func (s *fakeMarkerStore) HasMarker(ctx context.Context, viewerToken string, postId string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasErr != nil {
		return false, s.hasErr
	}
	return s.markers[s.key(viewerToken, postId)], nil
}

func (s *fakeMarkerStore) SetMarker(ctx context.Context, viewerToken string, postId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.markers[s.key(viewerToken, postId)] = true
	return nil
}
