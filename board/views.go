package board

import (
	"context"

	"github.com/amplify-dev/amplify/model"
	Logger "github.com/amplify-dev/amplify/utils/log"
	"gorm.io/gorm"
)

// countView increments the post's durable view counter at most once for the
// given viewer token and returns the count the caller should render.
//
// The increment is best effort: any failure along the way is logged and the
// pre-increment count is returned, never an error. A read must not break
// because view accounting is degraded.
func (e *Engine) countView(ctx context.Context, postId string, viewerToken string, current int64) int64 {
	if viewerToken == "" {
		return current
	}

	seen, err := e.markers.HasMarker(ctx, viewerToken, postId)
	if err != nil {
		// Without a readable marker we cannot tell a first view from a repeat,
		// so skip the increment rather than risk double counting.
		Logger.Log.Warn("view marker lookup failed, skipping view count: ", err)
		return current
	}
	if seen {
		return current
	}

	result := e.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postId).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if result.Error != nil {
		Logger.Log.Warn("view count increment failed for post ", postId, ": ", result.Error)
		return current
	}
	if result.RowsAffected == 0 {
		return current
	}

	if err := e.markers.SetMarker(ctx, viewerToken, postId); err != nil {
		// The increment landed but the marker did not; this viewer may be
		// counted once more on a future visit. Logged, not retried.
		Logger.Log.Warn("view marker write failed for post ", postId, ": ", err)
	}
	return current + 1
}

// PostViews reads the current durable view counter of a post. Used when a page
// is served from the snapshot cache, which intentionally carries no counter.
func (e *Engine) PostViews(ctx context.Context, postId string) (int64, error) {
	var views int64
	result := e.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", postId).
		Select("views").
		Scan(&views)
	if result.Error != nil {
		return 0, result.Error
	}
	return views, nil
}
