package board

import (
	"context"

	"github.com/amplify-dev/amplify/model"
	"github.com/amplify-dev/amplify/utils"
	Logger "github.com/amplify-dev/amplify/utils/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// EnsureEnrolled guarantees the membership invariant of open communities: an
// authenticated user who touches an open community ends up with exactly one
// subscription row. Fires on community page access and on post creation.
//
// The check-then-create is racy against a concurrent call for the same pair
// (two simultaneous page loads). No lock is taken; the composite primary key
// on subscriptions is the arbiter, and losing that race is success.
func (e *Engine) EnsureEnrolled(ctx context.Context, userId string, community *model.Community) error {
	if community == nil {
		return &ValidationError{Reason: "nil community"}
	}
	if !community.Open || userId == "" {
		return nil
	}

	var existing model.Subscription
	queryResult := e.db.WithContext(ctx).
		Where("user_id = ? AND community_id = ?", userId, community.Id).
		First(&existing)
	if queryResult.Error == nil {
		return nil
	}
	if !errors.Is(queryResult.Error, gorm.ErrRecordNotFound) {
		return errors.Wrap(queryResult.Error, "subscription lookup failed")
	}

	subscription := model.Subscription{UserID: userId, CommunityID: community.Id}
	if err := e.db.WithContext(ctx).Create(&subscription).Error; err != nil {
		if utils.IsDuplicateKeyError(err) {
			// A concurrent enrollment won the race; the invariant holds.
			Logger.Log.Info("user ", userId, " already enrolled in ", community.Name)
			return nil
		}
		return errors.Wrap(err, "subscription create failed")
	}
	return nil
}
