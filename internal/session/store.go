// Package session keeps server-side login sessions. Handlers depend on Store only,
// so the backing implementation is chosen once at startup.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	// Get returns ErrNotFound for unknown or expired ids.
	Get(ctx context.Context, id string) (*Session, error)
	Put(ctx context.Context, id string, s *Session, ttl time.Duration) error
	Expire(ctx context.Context, id string) error
}
