package model

import (
	"time"

	"gorm.io/datatypes"
)

/*

Post is a single submission inside a community

Id: primary key
CreatedAt: time when entity is created

Title: post's title in plain text
Content: rich content serialized as a JSON block list, see content.go for the block schema
AuthorID:
Author: user who created the post, "belongs-to" relation
CommunityID:
Community: community the post was submitted to, "belongs-to" relation

Views: number of distinct viewers that opened the post page, incremented at most once
per viewer by the view gate. Monotonic, never reset by this service.

Votes: all votes cast on this post, eagerly loaded where a tally is needed
Comments: all comments on this post

*/
type Post struct {
	Id          string `gorm:"primaryKey"`
	CreatedAt   time.Time
	Title       string
	Content     datatypes.JSON
	AuthorID    string    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Author      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CommunityID string    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Community   Community `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Views       int64
	Votes       []Vote    `gorm:"foreignKey:TargetID;references:Id"`
	Comments    []Comment `gorm:"foreignKey:PostID"`
}
