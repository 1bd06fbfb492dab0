package rediscacherepo

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/sounak286/RAKSHA-SATHI/cache"
	"github.com/sounak286/RAKSHA-SATHI/internal/config"
)

var _ cache.Repo = (*RedisCacheRepo)(nil)

const (
	keyPrefix = "cctns_cache:"

	// DefaultHistory is how many entries are retained per endpoint.
	DefaultHistory = 10
)

// storedEntry keeps the body as a string so it round-trips byte for byte.
type storedEntry struct {
	Payload  string    `json:"payload"`
	CachedAt time.Time `json:"cachedAt"`
}

// RedisCacheRepo keeps a short, newest-first list of responses per endpoint.
type RedisCacheRepo struct {
	client  redis.UniversalClient
	history int64
}

type Option func(*RedisCacheRepo)

// WithHistory sets how many entries are kept per endpoint.
func WithHistory(n int64) Option {
	return func(r *RedisCacheRepo) {
		if n > 0 {
			r.history = n
		}
	}
}

func New(client redis.UniversalClient, options ...Option) *RedisCacheRepo {
	r := &RedisCacheRepo{client: client, history: DefaultHistory}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Open connects to the configured Redis server and checks it responds.
func Open(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "[redis Open] ping %s", cfg.Addr())
	}
	return client, nil
}

func (r *RedisCacheRepo) Write(ctx context.Context, key string, payload []byte, at time.Time) error {
	value, err := encodeEntry(payload, at)
	if err != nil {
		return errors.Wrapf(err, "[Write] %s", key)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, keyPrefix+key, value)
	pipe.LTrim(ctx, keyPrefix+key, 0, r.history-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "[Write] %s", key)
	}
	return nil
}

func (r *RedisCacheRepo) Latest(ctx context.Context, key string) (*cache.Entry, error) {
	value, err := r.client.LIndex(ctx, keyPrefix+key, 0).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrEntryNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "[Latest] %s", key)
	}
	return decodeEntry(key, value)
}

func encodeEntry(payload []byte, at time.Time) ([]byte, error) {
	return json.Marshal(storedEntry{Payload: string(payload), CachedAt: at.UTC()})
}

func decodeEntry(key string, value []byte) (*cache.Entry, error) {
	var stored storedEntry
	if err := json.Unmarshal(value, &stored); err != nil {
		return nil, errors.Wrapf(err, "[Latest] decode %s", key)
	}
	return &cache.Entry{Key: key, Payload: []byte(stored.Payload), CachedAt: stored.CachedAt}, nil
}
