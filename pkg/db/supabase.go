package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	supabase "github.com/supabase-community/supabase-go"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

// SupabaseConfig holds configuration for the Supabase REST backend.
type SupabaseConfig struct {
	// URL is the Supabase project URL, e.g. "https://[project-ref].supabase.co".
	URL string
	// Key is the Supabase API key; use the service_role key server-side.
	Key string
}

// SupabaseStore implements Store over the Supabase REST API. This is the
// backend the production deployment uses; the direct Postgres store exists
// for self-hosted setups.
type SupabaseStore struct {
	sdk *supabase.Client
	cfg SupabaseConfig
}

// NewSupabaseStore constructs a Supabase store; call Connect before use.
func NewSupabaseStore(cfg SupabaseConfig) *SupabaseStore {
	return &SupabaseStore{cfg: cfg}
}

// Connect initializes the Supabase SDK client.
func (s *SupabaseStore) Connect(_ context.Context) error {
	if s.cfg.URL == "" || s.cfg.Key == "" {
		return fmt.Errorf("supabase URL and key are required")
	}
	sdk, err := supabase.NewClient(s.cfg.URL, s.cfg.Key, nil)
	if err != nil {
		return fmt.Errorf("initialize supabase client: %w", err)
	}
	s.sdk = sdk
	return nil
}

// SaveTranscript inserts one row into user_transcripts.
func (s *SupabaseStore) SaveTranscript(ctx context.Context, rec *domain.TranscriptRecord) error {
	_, _, err := s.sdk.From("user_transcripts").
		Insert(rec, false, "", "", "").
		Execute()
	if err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// HasTopic fetches the user's stored topics and compares case-insensitively.
// PostgREST has no lower() filter, so the comparison happens client-side;
// the per-user topic set is small.
func (s *SupabaseStore) HasTopic(ctx context.Context, userID, topic string) (bool, error) {
	data, _, err := s.sdk.From("user_transcripts").
		Select("topic", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return false, fmt.Errorf("query transcripts: %w", err)
	}

	var rows []struct {
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, fmt.Errorf("decode transcripts: %w", err)
	}

	want := strings.ToLower(topic)
	for _, row := range rows {
		if strings.ToLower(row.Topic) == want {
			return true, nil
		}
	}
	return false, nil
}

// GetUserLevel reads the learner's proficiency level from users_progress.
func (s *SupabaseStore) GetUserLevel(ctx context.Context, userID string) (string, error) {
	data, _, err := s.sdk.From("users_progress").
		Select("level", "", false).
		Eq("user_id", userID).
		Execute()
	if err != nil {
		return "", fmt.Errorf("query user level: %w", err)
	}

	var rows []struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", fmt.Errorf("decode user level: %w", err)
	}
	if len(rows) == 0 {
		return "", ErrUserNotFound
	}
	return rows[0].Level, nil
}
