package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/actuallystonmai/product-search-service/internal/domain"
	"github.com/actuallystonmai/product-search-service/internal/logging"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	defaultTTL  = 10 * time.Minute
	keyPrefix   = "search:q:"
	scanBatch   = 100
	breakerTrip = 5
)

// Cache stores search results in Redis keyed by the normalized query.
// Calls go through a circuit breaker so an unavailable Redis costs one
// failed call per breaker interval instead of one per request.
type Cache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}

	logger := logging.WithComponent("cache")
	settings := gobreaker.Settings{
		Name:        "redis-search-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("cache circuit breaker state changed")
		},
		IsSuccessful: isSuccessful,
	}

	return &Cache{
		client:  client,
		ttl:     ttl,
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// A cache miss is not a failure.
func isSuccessful(err error) bool {
	return err == nil || errors.Is(err, redis.Nil)
}

func buildKey(query string) string {
	return keyPrefix + query
}

// Get a cached search result. found is false on a miss.
func (c *Cache) Get(ctx context.Context, query string) (*domain.SearchResult, bool, error) {
	key := buildKey(query)
	val, err := c.breaker.Execute(func() ([]byte, error) {
		return c.client.Get(ctx, key).Bytes()
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get search result from cache: %w", err)
	}

	var res domain.SearchResult
	if err := json.Unmarshal(val, &res); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal search result %s: %w", key, err)
	}
	return &res, true, nil
}

// Set stores a search result with the configured TTL.
func (c *Cache) Set(ctx context.Context, query string, res *domain.SearchResult) error {
	key := buildKey(query)
	val, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to marshal search result: %w", err)
	}

	_, err = c.breaker.Execute(func() ([]byte, error) {
		return nil, c.client.Set(ctx, key, val, c.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to set search result in cache: %w", err)
	}
	return nil
}

// Clear removes every cached search result. Run at startup because results
// cached by a previous process may describe a different catalog.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	removed := 0
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return removed, fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
		removed++
	}
	return removed, iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
