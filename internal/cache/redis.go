package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string // optional
	DB       int    // optional
}

// NewClient connects and pings Redis. An empty address returns nil, nil:
// callers treat a nil client as "feature disabled".
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// TokenBlacklist keeps logged-out session tokens until they would have expired.
type TokenBlacklist struct {
	Client *redis.Client
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

func (b TokenBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if b.Client == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return b.Client.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

func (b TokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	if b.Client == nil {
		return false, nil
	}
	n, err := b.Client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const (
	idempotencyProcessing = "PROCESSING"

	DefaultLockTTL = 10 * time.Second
	DefaultDoneTTL = 24 * time.Hour
)

// ErrInFlight means another request with the same key has not finished yet.
var ErrInFlight = errors.New("request with this idempotency key is still in progress")

// IdempotencyStore remembers the response of a state-changing request per key.
type IdempotencyStore struct {
	Client  *redis.Client
	LockTTL time.Duration
	DoneTTL time.Duration
}

func idempotencyKey(key string) string {
	return "idempotency:" + key
}

func (s IdempotencyStore) lockTTL() time.Duration {
	if s.LockTTL <= 0 {
		return DefaultLockTTL
	}
	return s.LockTTL
}

func (s IdempotencyStore) doneTTL() time.Duration {
	if s.DoneTTL <= 0 {
		return DefaultDoneTTL
	}
	return s.DoneTTL
}

// Begin claims key. It returns the stored response when the key already
// completed, ErrInFlight while another holder is processing it, and
// (nil, nil) when the caller now owns the key.
func (s IdempotencyStore) Begin(ctx context.Context, key string) ([]byte, error) {
	k := idempotencyKey(key)
	val, err := s.Client.Get(ctx, k).Bytes()
	switch {
	case err == nil:
		if string(val) == idempotencyProcessing {
			return nil, ErrInFlight
		}
		return val, nil
	case !errors.Is(err, redis.Nil):
		return nil, err
	}

	acquired, err := s.Client.SetNX(ctx, k, idempotencyProcessing, s.lockTTL()).Result()
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrInFlight
	}
	return nil, nil
}

// Complete stores the final response for key.
func (s IdempotencyStore) Complete(ctx context.Context, key string, response []byte) error {
	return s.Client.Set(ctx, idempotencyKey(key), response, s.doneTTL()).Err()
}

// Release drops the claim so the request may be retried.
func (s IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.Client.Del(ctx, idempotencyKey(key)).Err()
}
