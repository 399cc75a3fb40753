// Package db provides the persistence backends for transcripts and learner
// profiles: direct Postgres, Supabase REST and MongoDB.
package db

import (
	"context"
	"errors"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

// ErrUserNotFound is returned by profile lookups for unknown user IDs.
var ErrUserNotFound = errors.New("user not found")

// TranscriptStore persists transcript records and answers the idempotency
// guard's question. Implementations must be safe for concurrent use; each
// write is a single independent insert with no transactional semantics.
type TranscriptStore interface {
	// SaveTranscript writes one immutable transcript record.
	SaveTranscript(ctx context.Context, rec *domain.TranscriptRecord) error

	// HasTopic reports whether the user already has a transcript for the
	// topic, compared case-insensitively.
	HasTopic(ctx context.Context, userID, topic string) (bool, error)
}

// ProfileStore reads learner proficiency levels.
type ProfileStore interface {
	// GetUserLevel returns the user's level, or ErrUserNotFound.
	GetUserLevel(ctx context.Context, userID string) (string, error)
}

// Store is implemented by every backend in this package.
type Store interface {
	TranscriptStore
	ProfileStore
}
