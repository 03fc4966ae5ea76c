package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Remote backends are exercised only when a server is configured:
//
//	WAYPOINT_TEST_REDIS_ADDR=localhost:6379
//	WAYPOINT_TEST_MONGO_URI=mongodb://localhost:27017

func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "waypoint-test:" + time.Now().Format(time.RFC3339Nano)
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("fresh key: hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("route"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "route" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key should miss")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("WAYPOINT_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("WAYPOINT_TEST_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("WAYPOINT_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("WAYPOINT_TEST_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), MongoConfig{URI: uri, Database: "waypoint_test"})
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}
