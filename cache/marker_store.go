package cache

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
)

const (
	// Redis only has string type, there is no boolean or int, so we use "1" to
	// represent true
	redisTrue = "1"
)

// RedisMarkerStore records which (viewer, post) pairs have already been
// counted by the view gate. A marker, once set, is never removed by this
// service; its lifetime is bounded only by the Redis tier itself.
type RedisMarkerStore struct {
	inner     *redis.Client
	keyParser RedisKeyParser
}

func GetRedisMarkerStore() (*RedisMarkerStore, error) {
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
	return &RedisMarkerStore{
		inner:     redisClient,
		keyParser: RedisKeyParser{delimiter: "__"},
	}, nil
}

type RedisKeyParser struct {
	delimiter string
}

func (r RedisKeyParser) DecodeViewKey(key string) (string, string, error) {
	splits := strings.Split(key, r.delimiter)
	if len(splits) != 3 || splits[0] != "viewed" {
		return "", "", fmt.Errorf("invalid key: %s", key)
	}
	return splits[1], splits[2], nil
}

func (r RedisKeyParser) ValidateId(id string) bool {
	return id != "" && !strings.Contains(id, r.delimiter)
}

func (r RedisKeyParser) EncodeViewKey(viewerToken string, postId string) (string, error) {
	if !r.ValidateId(viewerToken) || !r.ValidateId(postId) {
		return "", fmt.Errorf("invalid viewerToken or postId")
	}
	return fmt.Sprintf("viewed%s%s%s%s", r.delimiter, viewerToken, r.delimiter, postId), nil
}

// HasMarker returns whether the viewer has already been counted for the post.
func (s *RedisMarkerStore) HasMarker(ctx context.Context, viewerToken string, postId string) (bool, error) {
	key, err := s.keyParser.EncodeViewKey(viewerToken, postId)
	if err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	count, err := s.inner.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetMarker records that the viewer has been counted for the post. SetNX keeps
// concurrent first views from the same viewer from racing each other on the
// marker itself.
func (s *RedisMarkerStore) SetMarker(ctx context.Context, viewerToken string, postId string) error {
	key, err := s.keyParser.EncodeViewKey(viewerToken, postId)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.inner.SetNX(ctx, key, redisTrue, 0).Err()
}
