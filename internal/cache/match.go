// Package cache stores match results in Redis keyed by the two skill sets.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonathan/skillmatch/internal/observability"
	"github.com/jonathan/skillmatch/internal/types"
)

// ErrKeyNotExist is returned by Get on a cache miss
var ErrKeyNotExist = redis.Nil

// KeyPrefix namespaces every key written by this package
const KeyPrefix = "skillmatch:match:"

// MatchCache caches MatchResults for a resume/job skill set pair.
type MatchCache interface {
	Get(ctx context.Context, resume, job types.SkillSet) (types.MatchResult, error)
	Set(ctx context.Context, resume, job types.SkillSet, result types.MatchResult) error
}

// RedisMatchCache is the Redis implementation of MatchCache.
type RedisMatchCache struct {
	client     redis.Cmdable
	expiration time.Duration
}

// NewRedisMatchCache wraps a Redis client. A non-positive expiration keeps entries forever.
func NewRedisMatchCache(client redis.Cmdable, expiration time.Duration) *RedisMatchCache {
	return &RedisMatchCache{client: client, expiration: expiration}
}

// Connect parses a redis:// URL, pings the server and returns a client.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Get returns the cached result, or ErrKeyNotExist on a miss.
func (c *RedisMatchCache) Get(ctx context.Context, resume, job types.SkillSet) (types.MatchResult, error) {
	var result types.MatchResult
	data, err := c.client.Get(ctx, Key(resume, job)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			observability.MatchCacheLookups.WithLabelValues("miss").Inc()
			return result, ErrKeyNotExist
		}
		observability.MatchCacheLookups.WithLabelValues("error").Inc()
		return result, fmt.Errorf("failed to read match cache: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		observability.MatchCacheLookups.WithLabelValues("error").Inc()
		return result, fmt.Errorf("failed to decode cached match: %w", err)
	}
	observability.MatchCacheLookups.WithLabelValues("hit").Inc()
	return result, nil
}

// Set stores a result.
func (c *RedisMatchCache) Set(ctx context.Context, resume, job types.SkillSet, result types.MatchResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, Key(resume, job), data, c.expiration).Err()
}

// Key derives the cache key from the case-folded labels of both sets.
// Sets that are equal ignoring case share a key.
func Key(resume, job types.SkillSet) string {
	h := sha256.New()
	h.Write([]byte(canonical(resume)))
	h.Write([]byte{0})
	h.Write([]byte(canonical(job)))
	return KeyPrefix + hex.EncodeToString(h.Sum(nil))
}

func canonical(s types.SkillSet) string {
	labels := s.Labels()
	for i, l := range labels {
		labels[i] = types.LabelKey(l)
	}
	sort.Strings(labels)
	return strings.Join(labels, "\x1f")
}
