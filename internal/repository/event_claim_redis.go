package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventClaimer hands out short-lived exclusive claims on webhook event ids so
// that concurrent redeliveries of one event are not handled twice at once.
type EventClaimer interface {
	Claim(ctx context.Context, eventID string) (bool, error)
	Release(ctx context.Context, eventID string) error
}

type RedisEventClaimer struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisEventClaimer(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisEventClaimer {
	if prefix == "" {
		prefix = "stripe_event"
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisEventClaimer{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisEventClaimer) key(eventID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, eventID)
}

func (c *RedisEventClaimer) Claim(ctx context.Context, eventID string) (bool, error) {
	if c.client == nil {
		return false, errors.New("redis event claimer: nil client")
	}
	ok, err := c.client.SetNX(ctx, c.key(eventID), time.Now().UTC().Format(time.RFC3339Nano), c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim event %s: %w", eventID, err)
	}
	return ok, nil
}

func (c *RedisEventClaimer) Release(ctx context.Context, eventID string) error {
	if c.client == nil {
		return errors.New("redis event claimer: nil client")
	}
	if err := c.client.Del(ctx, c.key(eventID)).Err(); err != nil {
		return fmt.Errorf("release event %s: %w", eventID, err)
	}
	return nil
}

// NoopEventClaimer always grants the claim. Used when Redis is not configured;
// the purchase store's conditional create still guards duplicates.
type NoopEventClaimer struct{}

func (NoopEventClaimer) Claim(context.Context, string) (bool, error) { return true, nil }

func (NoopEventClaimer) Release(context.Context, string) error { return nil }
