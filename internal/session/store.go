package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/coachr/internal/coach"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store keeps chat sessions between requests. Implementations return copies:
// mutating a loaded session has no effect until it is saved.
type Store interface {
	Get(ctx context.Context, id uuid.UUID) (*coach.Session, error)
	Save(ctx context.Context, s *coach.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
}
