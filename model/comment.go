package model

import "time"

/*

Comment is a reply to a post or to another comment

Id: primary key
CreatedAt: time when entity is created
Body: comment text in plain text
AuthorID:
Author: user who wrote the comment, "belongs-to" relation
PostID: post this comment belongs to
ReplyToID: parent comment id, nil for a top-level comment. The thread is two levels
deep: top-level comments and their direct replies.

Replies: direct children of this comment
Votes: all votes cast on this comment

*/
type Comment struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Body      string
	AuthorID  string `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Author    User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	PostID    string `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ReplyToID *string
	Replies   []Comment `gorm:"foreignKey:ReplyToID"`
	Votes     []Vote    `gorm:"foreignKey:TargetID;references:Id"`
}
