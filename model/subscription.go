package model

import "time"

/*

Subscription is a "many-to-many" relation of user's membership in a community

UserID: user id
CommunityID: community id
CreatedAt: time when relation is created

The composite primary key doubles as the uniqueness constraint the enrollment logic
relies on: a duplicate create is rejected by the database, not by in-process locking.

*/
type Subscription struct {
	UserID      string `gorm:"primaryKey"`
	CommunityID string `gorm:"primaryKey"`
	CreatedAt   time.Time
}
