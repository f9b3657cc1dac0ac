package client

import (
	"context"
	"testing"

	"creator-commerce/internal/config"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewRedisClientDisabledWithoutAddr(t *testing.T) {
	rdb, err := NewRedisClient(context.Background(), &config.Redis{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rdb != nil {
		t.Fatal("expected nil client when redis is not configured")
	}
}

func TestNewRedisClientPings(t *testing.T) {
	m := miniredis.RunT(t)
	addr := m.Addr()

	rdb, err := NewRedisClient(context.Background(), &config.Redis{Addr: addr})
	if err != nil {
		t.Fatalf("new redis client: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })

	m.Close()
	if _, err := NewRedisClient(context.Background(), &config.Redis{Addr: addr}); err == nil {
		t.Fatal("expected ping failure against closed server")
	}
}
