package model

import "time"

/*

CachedPost is the denormalized snapshot of a post served from the hot cache

It carries exactly what is needed to render a post page without a database round
trip: id, title, serialized content, author username and creation time. Mutable
fields (views, votes, comments) are deliberately absent; the database stays the
source of truth for those, and the snapshot is never written back.

Written once at post creation, read many times, evicted by the cache tier's TTL.

*/
type CachedPost struct {
	Id             string
	Title          string
	Content        string
	AuthorUsername string
	CreatedAt      time.Time
}
