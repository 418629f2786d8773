package redis

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/splitorder/internal/models"
	"github.com/mmynk/splitorder/internal/session"
)

func getRedisClient(t *testing.T) *goredis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestSessionStore_Record(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	sessions := NewSessions(client, time.Minute)

	// Setup
	client.Del(ctx, sessionKeyPrefix+"test-session")
	store := sessions.Store("test-session")

	split := &models.Cart{ID: "split-2"}
	order := &models.Order{ID: "order-2", IncrementID: "000000002", Status: models.OrderStatusPending}

	// Test
	if err := session.NewRecorder().Record(ctx, sessions.ForSession("test-session"), split, order, []string{"order-1", "order-2"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Verify
	got, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := session.Snapshot{
		LastQuoteID:        "split-2",
		LastSuccessQuoteID: "split-2",
		LastOrderID:        "order-2",
		LastRealOrderID:    "000000002",
		LastOrderStatus:    models.OrderStatusPending,
		OrderIDs:           []string{"order-1", "order-2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	ttl, err := client.TTL(ctx, sessionKeyPrefix+"test-session").Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("expected ttl within a minute, got %v", ttl)
	}
}

func TestSessionStore_EmptySession(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	client.Del(ctx, sessionKeyPrefix+"missing-session")

	got, err := NewSessions(client, 0).Store("missing-session").Snapshot(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, session.Snapshot{}) {
		t.Errorf("expected empty snapshot, got %+v", got)
	}
}
