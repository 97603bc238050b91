package model

import "time"

type VoteDirection string

const (
	VoteUp   VoteDirection = "UP"
	VoteDown VoteDirection = "DOWN"
)

type VoteTargetKind string

const (
	VoteTargetPost    VoteTargetKind = "POST"
	VoteTargetComment VoteTargetKind = "COMMENT"
)

/*

Vote is a single up or down vote cast by a user on a post or a comment

Id: primary key
CreatedAt: time when entity is created
Direction: UP or DOWN
UserID: voter
TargetID: post or comment id
TargetKind: POST or COMMENT, disambiguates TargetID

The composite unique index enforces at most one vote per (voter, target) pair. Vote
mutation is an update of Direction on the existing row, never a second row.

*/
type Vote struct {
	Id         string `gorm:"primaryKey"`
	CreatedAt  time.Time
	Direction  VoteDirection
	UserID     string         `gorm:"uniqueIndex:idx_vote_user_target"`
	TargetID   string         `gorm:"uniqueIndex:idx_vote_user_target"`
	TargetKind VoteTargetKind `gorm:"uniqueIndex:idx_vote_user_target"`
}
