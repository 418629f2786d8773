// Package redis stores checkout sessions in Redis hashes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/splitorder/internal/models"
	"github.com/mmynk/splitorder/internal/session"
)

const (
	sessionKeyPrefix = "checkout:session:"

	fieldLastQuoteID        = "last_quote_id"
	fieldLastSuccessQuoteID = "last_success_quote_id"
	fieldLastOrderID        = "last_order_id"
	fieldLastRealOrderID    = "last_real_order_id"
	fieldLastOrderStatus    = "last_order_status"
	fieldOrderIDs           = "order_ids"
)

var (
	_ session.Provider = (*Sessions)(nil)
	_ session.Store    = (*SessionStore)(nil)
)

// Sessions hands out Redis-backed session stores.
type Sessions struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewSessions creates a provider whose sessions expire ttl after their last write.
// A zero ttl keeps sessions forever.
func NewSessions(client *goredis.Client, ttl time.Duration) *Sessions {
	return &Sessions{client: client, ttl: ttl}
}

// ForSession returns the store for sessionID.
func (s *Sessions) ForSession(sessionID string) session.Store {
	return s.Store(sessionID)
}

// Store returns the concrete store for sessionID.
func (s *Sessions) Store(sessionID string) *SessionStore {
	return &SessionStore{client: s.client, key: sessionKeyPrefix + sessionID, ttl: s.ttl}
}

// SessionStore is one checkout session kept in a Redis hash.
type SessionStore struct {
	client *goredis.Client
	key    string
	ttl    time.Duration
}

func (s *SessionStore) set(ctx context.Context, field string, value interface{}) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, s.key, field, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set session %s: %w", field, err)
	}
	return nil
}

func (s *SessionStore) SetLastQuoteID(ctx context.Context, cartID string) error {
	return s.set(ctx, fieldLastQuoteID, cartID)
}

func (s *SessionStore) SetLastSuccessQuoteID(ctx context.Context, cartID string) error {
	return s.set(ctx, fieldLastSuccessQuoteID, cartID)
}

func (s *SessionStore) SetLastOrderID(ctx context.Context, orderID string) error {
	return s.set(ctx, fieldLastOrderID, orderID)
}

func (s *SessionStore) SetLastRealOrderID(ctx context.Context, incrementID string) error {
	return s.set(ctx, fieldLastRealOrderID, incrementID)
}

func (s *SessionStore) SetLastOrderStatus(ctx context.Context, status models.OrderStatus) error {
	return s.set(ctx, fieldLastOrderStatus, string(status))
}

func (s *SessionStore) SetOrderIDs(ctx context.Context, orderIDs []string) error {
	b, err := json.Marshal(orderIDs)
	if err != nil {
		return fmt.Errorf("encode order ids: %w", err)
	}
	return s.set(ctx, fieldOrderIDs, string(b))
}

// Snapshot reads the whole session back.
func (s *SessionStore) Snapshot(ctx context.Context) (session.Snapshot, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return session.Snapshot{}, fmt.Errorf("read session: %w", err)
	}

	snap := session.Snapshot{
		LastQuoteID:        fields[fieldLastQuoteID],
		LastSuccessQuoteID: fields[fieldLastSuccessQuoteID],
		LastOrderID:        fields[fieldLastOrderID],
		LastRealOrderID:    fields[fieldLastRealOrderID],
		LastOrderStatus:    models.OrderStatus(fields[fieldLastOrderStatus]),
	}
	if raw, ok := fields[fieldOrderIDs]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.OrderIDs); err != nil {
			return session.Snapshot{}, fmt.Errorf("decode order ids: %w", err)
		}
	}
	return snap, nil
}
