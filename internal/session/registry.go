// Package session holds the advisory redis-backed pieces: the session
// registry and the rate limiter. Neither is a security control — the
// registry is a correlation convenience and the limiter fails open.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Mint issues a fresh opaque session identifier for callers that did
// not present one.
func Mint() string {
	return uuid.NewString()
}

type Entry struct {
	RoomCode string    `json:"room_code"`
	Role     string    `json:"role"`
	SeenAt   time.Time `json:"seen_at"`
}

// Registry stores session metadata under a sliding TTL. It is advisory
// only: vote integrity rests on the vote table's unique index, not on
// anything recorded here.
type Registry struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRegistry(rdb *redis.Client, ttl time.Duration) *Registry {
	return &Registry{rdb: rdb, ttl: ttl}
}

func (r *Registry) Upsert(ctx context.Context, sessionID, roomCode, role string) error {
	entry := Entry{
		RoomCode: roomCode,
		Role:     role,
		SeenAt:   time.Now(),
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, sessionKey(sessionID), b, r.ttl).Err()
}

// Get returns the entry and refreshes its TTL.
func (r *Registry) Get(ctx context.Context, sessionID string) (*Entry, error) {
	b, err := r.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(b, &entry); err != nil {
		return nil, err
	}
	r.rdb.Expire(ctx, sessionKey(sessionID), r.ttl)
	return &entry, nil
}

func sessionKey(id string) string {
	return "session:" + id
}
