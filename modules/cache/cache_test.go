package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const testPrefix = "taskboard-test:"

// setupTestCache connects to a local Redis. Tests are skipped when no
// server is reachable, so the suite stays runnable without one.
func setupTestCache(t *testing.T) *Cache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not available: %v", err)
	}

	c := New(client, testPrefix, time.Minute)

	t.Cleanup(func() {
		cleanupKeys(t, client)
		client.Close()
	})
	cleanupKeys(t, client)

	return c
}

func cleanupKeys(t *testing.T, client *redis.Client) {
	t.Helper()

	ctx := context.Background()
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, testPrefix+"*", 100).Result()
		if err != nil {
			t.Fatalf("scan error: %v", err)
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				t.Fatalf("del error: %v", err)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
}

type payload struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestCacheSetGet(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	want := payload{ID: "abc", Count: 7}
	if err := c.Set(ctx, "task:abc", want); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	found, err := c.Get(ctx, "task:abc", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get() = miss, want hit")
	}
	if got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestCacheMiss(t *testing.T) {
	c := setupTestCache(t)

	var got payload
	found, err := c.Get(context.Background(), "absent", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Get() = hit for an absent key")
	}

	stats := c.GetStats()
	if stats.Misses != 1 {
		t.Errorf("misses = %d, want 1", stats.Misses)
	}
}

func TestCacheDelete(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "list", payload{ID: "x"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete(ctx, "list"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var got payload
	found, err := c.Get(ctx, "list", &got)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("key survived Delete()")
	}
}

func TestCacheDeletePattern(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"task:1", "task:2", "list"} {
		if err := c.Set(ctx, key, payload{ID: key}); err != nil {
			t.Fatalf("Set(%s) error = %v", key, err)
		}
	}

	if err := c.DeletePattern(ctx, "task:*"); err != nil {
		t.Fatalf("DeletePattern() error = %v", err)
	}

	var got payload
	for _, key := range []string{"task:1", "task:2"} {
		if found, _ := c.Get(ctx, key, &got); found {
			t.Errorf("key %s survived DeletePattern()", key)
		}
	}
	if found, _ := c.Get(ctx, "list", &got); !found {
		t.Error("unrelated key was removed by DeletePattern()")
	}
}

func TestCacheStats(t *testing.T) {
	c := setupTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "s", payload{ID: "s"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	var got payload
	c.Get(ctx, "s", &got)      // hit
	c.Get(ctx, "absent", &got) // miss

	stats := c.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.Sets != 1 {
		t.Errorf("sets = %d, want 1", stats.Sets)
	}
	if stats.TotalGets != 2 {
		t.Errorf("total gets = %d, want 2", stats.TotalGets)
	}
	if stats.HitRate != 50 {
		t.Errorf("hit rate = %v, want 50", stats.HitRate)
	}

	c.ResetStats()
	if s := c.GetStats(); s.Hits != 0 || s.TotalGets != 0 {
		t.Errorf("stats not reset: %+v", s)
	}
}
