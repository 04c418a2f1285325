package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/goserg/clubshub/auth/session"
)

var ErrNoSession = errors.New("session not found")

// SessionStorage keeps one session holder per browser session.
type SessionStorage interface {
	Create(ctx context.Context) (uuid.UUID, *session.Holder, error)
	Get(ctx context.Context, id uuid.UUID) (*session.Holder, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Prune drops holders untouched since before and returns how many were removed.
	Prune(ctx context.Context, before time.Time) (int, error)
}
