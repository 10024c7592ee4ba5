package advice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EnvAdviceCache names a Redis address used to cache advice responses
const EnvAdviceCache = "FINPLAN_ADVICE_CACHE_REDIS"

// DefaultCacheTTL is how long a cached summary is reused
const DefaultCacheTTL = 24 * time.Hour

// Cache stores encoded summaries by key
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// MemoryCache is an in-process Cache. Expired entries are dropped on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value   string
	expires time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return "", false
	}
	if !e.expires.IsZero() && m.now().After(e.expires) {
		delete(m.entries, key)
		return "", false
	}
	return e.value, true
}

func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := memoryEntry{value: value}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.entries[key] = e
	return nil
}

// RedisCache stores summaries in Redis
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a cache backed by the Redis server at addr
func NewRedisCache(addr string) *RedisCache {
	return NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: addr}))
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, prefix: "finplan:advice:"}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Close releases the underlying connection pool
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// CachingAdvisor reuses summaries for identical figures. Cache failures never fail a request.
type CachingAdvisor struct {
	Next   Advisor
	Cache  Cache
	TTL    time.Duration
	Logger *zap.Logger
}

// NewCachingAdvisor wraps next with cache using DefaultCacheTTL
func NewCachingAdvisor(next Advisor, cache Cache, logger *zap.Logger) *CachingAdvisor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingAdvisor{Next: next, Cache: cache, TTL: DefaultCacheTTL, Logger: logger}
}

// Advise implements Advisor
func (c *CachingAdvisor) Advise(ctx context.Context, req Request) (Summary, error) {
	key, err := CacheKey(req)
	if err != nil {
		return nil, err
	}
	if cached, ok := c.Cache.Get(ctx, key); ok {
		var env Envelope
		if err := json.Unmarshal([]byte(cached), &env); err == nil {
			if s, err := FromEnvelope(env); err == nil {
				c.Logger.Debug("advice cache hit", zap.String("tool", req.Tool), zap.String("key", key))
				return s, nil
			}
		}
		c.Logger.Warn("discarding unreadable cached advice", zap.String("key", key))
	}

	s, err := c.Next.Advise(ctx, req)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(ToEnvelope(s)); err == nil {
		if err := c.Cache.Set(ctx, key, string(data), c.TTL); err != nil {
			c.Logger.Warn("failed to cache advice", zap.Error(err))
		}
	}
	return s, nil
}

// CacheKey derives a stable key from the tool and figures; the request id is ignored
func CacheKey(req Request) (string, error) {
	data, err := json.Marshal(struct {
		Tool    string `json:"tool"`
		Figures any    `json:"figures"`
	}{req.Tool, req.Figures})
	if err != nil {
		return "", fmt.Errorf("failed to encode advice figures: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// FromEnvelope rebuilds a Summary from its wire form
func FromEnvelope(env Envelope) (Summary, error) {
	switch env.Kind {
	case KindText:
		return TextSummary{Text: env.Text}, nil
	case KindStructured:
		return StructuredSummary{Outcomes: env.Outcomes}, nil
	case KindRaw:
		return RawJSON{Data: env.Data}, nil
	default:
		return nil, errors.New("unknown summary kind " + string(env.Kind))
	}
}
