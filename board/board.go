// Package board implements the post interaction engine: the cache-backed post
// read path, once-per-viewer view counting, vote tallying, comment threading
// and open-community auto-enrollment. Everything else (routing, auth, uploads,
// rendering) lives outside this package and talks to it through the Engine.
package board

import (
	"context"

	"github.com/amplify-dev/amplify/model"
	"gorm.io/gorm"
)

// SnapshotStore is the hot-cache tier holding denormalized post snapshots.
// Implemented by cache.RedisPostStore. Absence is (nil, nil), not an error.
type SnapshotStore interface {
	GetPost(ctx context.Context, postId string) (*model.CachedPost, error)
	SetPost(ctx context.Context, snapshot *model.CachedPost) error
}

// MarkerStore is the idempotency record for view counting, keyed by
// (viewer token, post id). Implemented by cache.RedisMarkerStore.
type MarkerStore interface {
	HasMarker(ctx context.Context, viewerToken string, postId string) (bool, error)
	SetMarker(ctx context.Context, viewerToken string, postId string) error
}

// Engine wires the durable store and the cache tiers together. It owns no
// locks: the uniqueness constraints in the database are the only arbiter for
// the races it participates in (duplicate enrollment, duplicate view marker).
type Engine struct {
	db        *gorm.DB
	snapshots SnapshotStore
	markers   MarkerStore
}

func NewEngine(db *gorm.DB, snapshots SnapshotStore, markers MarkerStore) *Engine {
	return &Engine{db: db, snapshots: snapshots, markers: markers}
}
