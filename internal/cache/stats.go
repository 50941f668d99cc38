package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"nycarrests/internal/model"
)

const (
	// RankingKeyPrefix is the key prefix for cached crime rankings, one key
	// per requested limit.
	RankingKeyPrefix = "stats:ranking:"

	// DemographicsKey holds the cached demographic summary.
	DemographicsKey = "stats:demographics"
)

// StatsCache caches aggregation results so the dashboard does not rescan the
// arrests collection on every request. All methods are best-effort: callers
// fall through to the store when the cache misses or errors.
type StatsCache interface {
	GetRanking(ctx context.Context, limit int) ([]model.CrimeRankingEntry, bool, error)
	SetRanking(ctx context.Context, limit int, entries []model.CrimeRankingEntry) error
	GetDemographics(ctx context.Context) (*model.DemographicSummary, bool, error)
	SetDemographics(ctx context.Context, summary *model.DemographicSummary) error
	// Invalidate drops every cached stat. Called when an arrest is created
	// or deleted.
	Invalidate(ctx context.Context) error
}

// RedisStatsCache implements StatsCache on Redis with JSON values and a TTL.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache creates a StatsCache backed by Redis.
func NewStatsCache(client *redis.Client, ttl time.Duration) StatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func rankingKey(limit int) string {
	return fmt.Sprintf("%s%d", RankingKeyPrefix, limit)
}

func (c *RedisStatsCache) GetRanking(ctx context.Context, limit int) ([]model.CrimeRankingEntry, bool, error) {
	data, err := c.client.Get(ctx, rankingKey(limit)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get ranking cache: %w", err)
	}

	var entries []model.CrimeRankingEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("decode ranking cache: %w", err)
	}
	return entries, true, nil
}

func (c *RedisStatsCache) SetRanking(ctx context.Context, limit int, entries []model.CrimeRankingEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode ranking cache: %w", err)
	}
	if err := c.client.Set(ctx, rankingKey(limit), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set ranking cache: %w", err)
	}
	return nil
}

func (c *RedisStatsCache) GetDemographics(ctx context.Context) (*model.DemographicSummary, bool, error) {
	data, err := c.client.Get(ctx, DemographicsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get demographics cache: %w", err)
	}

	var summary model.DemographicSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false, fmt.Errorf("decode demographics cache: %w", err)
	}
	return &summary, true, nil
}

func (c *RedisStatsCache) SetDemographics(ctx context.Context, summary *model.DemographicSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode demographics cache: %w", err)
	}
	if err := c.client.Set(ctx, DemographicsKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set demographics cache: %w", err)
	}
	return nil
}

// Invalidate scans for ranking keys and drops them along with the
// demographics key.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, RankingKeyPrefix+"*", 100).Iterator()
	keys := []string{DemographicsKey}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan stats keys: %w", err)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate stats cache: %w", err)
	}
	return nil
}
