package model

import "time"

/*

Community is a named board that owns posts

Id: primary key
CreatedAt: time when entity is created
Name: globally unique display name, also used as the URL slug
IconUrl: optional icon image reference
CreatorID:
Creator: user who created the community, "belongs-to" relation

Open: when true every authenticated user who touches the community is auto-enrolled
as a subscriber. Set at creation time and never flipped by this service.

*/
type Community struct {
	Id        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string `gorm:"uniqueIndex"`
	IconUrl   string
	CreatorID string `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Creator   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Open      bool
}
