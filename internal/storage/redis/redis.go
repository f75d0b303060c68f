// Package redis provides a Redis-backed implementation of the storage.Store
// interface. Each user's record is one JSON value under a prefixed key.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/gea/studyabroad/internal/models"
	"github.com/gea/studyabroad/internal/storage"
)

// Ensure RedisStore implements storage.Store
var _ storage.Store = (*RedisStore)(nil)

// DefaultKeyPrefix is prepended to user IDs when no prefix is configured.
const DefaultKeyPrefix = "progress:"

// Config holds Redis connection settings.
type Config struct {
	Address   string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore implements storage.Store using Redis.
type RedisStore struct {
	client *goredis.Client
	prefix string
	now    func() time.Time
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*RedisStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewWithClient(client, cfg.KeyPrefix), nil
}

// NewWithClient wraps an existing client. An empty prefix selects
// DefaultKeyPrefix.
func NewWithClient(client *goredis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

// CreateProgress stores a new record unless the user already has one.
func (s *RedisStore) CreateProgress(ctx context.Context, p *models.ProgressTracking) error {
	now := s.now().UTC()
	rec := *p
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now

	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.key(p.UserID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", storage.ErrAlreadyExists, p.UserID)
	}

	*p = rec
	return nil
}

// GetProgress loads the record for a user.
func (s *RedisStore) GetProgress(ctx context.Context, userID string) (*models.ProgressTracking, error) {
	return load(ctx, s.client, s.key(userID), userID)
}

// SaveProgress replaces a record inside an optimistic WATCH transaction.
func (s *RedisStore) SaveProgress(ctx context.Context, p *models.ProgressTracking) error {
	key := s.key(p.UserID)
	var saved models.ProgressTracking

	err := s.client.Watch(ctx, func(tx *goredis.Tx) error {
		current, err := load(ctx, tx, key, p.UserID)
		if err != nil {
			return err
		}
		if current.Version != p.Version {
			return fmt.Errorf("%w: %s has version %d, got %d",
				storage.ErrConflict, p.UserID, current.Version, p.Version)
		}

		saved = *p
		saved.ID = current.ID
		saved.CreatedAt = current.CreatedAt
		saved.Version = current.Version + 1
		saved.UpdatedAt = s.now().UTC()

		data, err := json.Marshal(&saved)
		if err != nil {
			return fmt.Errorf("failed to encode progress: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, goredis.TxFailedErr) {
		return fmt.Errorf("%w: %s", storage.ErrConflict, p.UserID)
	}
	if err != nil {
		return err
	}

	*p = saved
	return nil
}

// getter is satisfied by both *goredis.Client and *goredis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func load(ctx context.Context, c getter, key, userID string) (*models.ProgressTracking, error) {
	data, err := c.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	var p models.ProgressTracking
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}
	return &p, nil
}
