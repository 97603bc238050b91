package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/amplify-dev/amplify/model"
	"github.com/go-redis/redis/v8"
	"github.com/jinzhu/copier"
)

const (
	// Per-call budget for cache operations. The cache is an optimization, not a
	// dependency: a lookup that cannot finish inside this window is treated as
	// a miss by callers.
	opTimeout = 200 * time.Millisecond
)

func postKey(postId string) string {
	return fmt.Sprintf("post:%s", postId)
}

// RedisPostStore holds denormalized post snapshots in Redis hashes, keyed
// "post:<id>". A snapshot is written once when the post is created and read on
// every post page load until the cache tier evicts it. Mutable post state
// (views, votes, comments) never lives here.
type RedisPostStore struct {
	inner *redis.Client
}

func GetRedisPostStore() (*RedisPostStore, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return &RedisPostStore{inner: redisClient}, nil
}

// GetPost returns the cached snapshot for the post, or (nil, nil) when the key
// is absent. Errors are returned as-is; the read path downgrades them to a
// miss.
func (s *RedisPostStore) GetPost(ctx context.Context, postId string) (*model.CachedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	fields, err := s.inner.HGetAll(ctx, postKey(postId)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}

	createdAt, _ := time.Parse(time.RFC3339, fields["createdAt"])
	return &model.CachedPost{
		Id:             fields["id"],
		Title:          fields["title"],
		Content:        fields["content"],
		AuthorUsername: fields["authorUsername"],
		CreatedAt:      createdAt,
	}, nil
}

// SetPost writes the snapshot hash for a post.
func (s *RedisPostStore) SetPost(ctx context.Context, snapshot *model.CachedPost) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.inner.HSet(ctx, postKey(snapshot.Id), map[string]interface{}{
		"id":             snapshot.Id,
		"title":          snapshot.Title,
		"content":        snapshot.Content,
		"authorUsername": snapshot.AuthorUsername,
		"createdAt":      snapshot.CreatedAt.Format(time.RFC3339),
	}).Err()
}

// SnapshotFromPost denormalizes a post (with its author preloaded) into the
// cacheable form.
func SnapshotFromPost(post *model.Post) *model.CachedPost {
	var snapshot model.CachedPost
	copier.Copy(&snapshot, post)
	snapshot.Content = string(post.Content)
	snapshot.AuthorUsername = post.Author.Username
	return &snapshot
}
