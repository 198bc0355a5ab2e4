package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/cre8hub/persona-pipeline/internal/errors"
)

// redisStore implements Store backed by a Redis server
type redisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to Redis using a redis:// URL and verifies
// the connection before returning
func NewRedisStore(ctx context.Context, redisURL string) (Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidArg, "invalid redis URL")
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheUnavailable, "redis unreachable")
	}

	return &redisStore{rdb: rdb}, nil
}

// NewRedisStoreWithClient creates a Store from an existing client (for testing)
func NewRedisStoreWithClient(rdb *redis.Client) Store {
	return &redisStore{rdb: rdb}
}

// Get retrieves a transcript by key
func (s *redisStore) Get(ctx context.Context, key Key) (string, bool, error) {
	text, err := s.rdb.Get(ctx, key.String()).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, apperrors.Wrap(err, apperrors.CodeCacheUnavailable, "cache get failed")
	}
	return text, true, nil
}

// Exists reports whether a transcript is cached for the key
func (s *redisStore) Exists(ctx context.Context, key Key) (bool, error) {
	n, err := s.rdb.Exists(ctx, key.String()).Result()
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.CodeCacheUnavailable, "cache exists check failed")
	}
	return n > 0, nil
}

// Set stores a transcript with a TTL
func (s *redisStore) Set(ctx context.Context, key Key, text string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key.String(), text, ttl).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.CodeCacheUnavailable, "cache set failed")
	}
	return nil
}

// ListForUser scans the user's key namespace and fetches each transcript
func (s *redisStore) ListForUser(ctx context.Context, userID string) ([]Entry, error) {
	keys, err := s.scanUserKeys(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(keys))
	for _, k := range keys {
		text, err := s.rdb.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// Expired between scan and read
			continue
		}
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeCacheUnavailable, "cache read failed during listing")
		}
		entries = append(entries, Entry{VideoID: videoIDFromKey(k), Text: text})
	}
	return entries, nil
}

// DeleteForUser removes all cached transcripts for the user
func (s *redisStore) DeleteForUser(ctx context.Context, userID string) (int, error) {
	keys, err := s.scanUserKeys(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.CodeCacheUnavailable, "cache delete failed")
	}
	return int(deleted), nil
}

// scanUserKeys iterates the keyspace with SCAN instead of KEYS to
// avoid blocking the server on large keyspaces
func (s *redisStore) scanUserKeys(ctx context.Context, userID string) ([]string, error) {
	var keys []string
	iter := s.rdb.Scan(ctx, 0, userPattern(userID), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeCacheUnavailable, "cache scan failed")
	}
	return keys, nil
}

// videoIDFromKey recovers the video ID from a scanned key. Only used
// for keys produced by Key.String, where the video ID is the final
// segment and may not contain ":".
func videoIDFromKey(key string) string {
	idx := strings.LastIndex(key, ":")
	if idx < 0 {
		return key
	}
	return key[idx+1:]
}
