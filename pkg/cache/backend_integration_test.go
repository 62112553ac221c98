//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Run with: DOTLAYOUT_REDIS_ADDR=localhost:6379 DOTLAYOUT_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/cache

func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := "integration:" + t.Name()
	_ = c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get before Set: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get after Set = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("entry survived Delete")
	}
}

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("DOTLAYOUT_REDIS_ADDR")
	if addr == "" {
		t.Skip("DOTLAYOUT_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr, Prefix: "dotlayout-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestMongoCache_Integration(t *testing.T) {
	uri := os.Getenv("DOTLAYOUT_MONGO_URI")
	if uri == "" {
		t.Skip("DOTLAYOUT_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), MongoConfig{URI: uri, Database: "dotlayout_test"})
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}
