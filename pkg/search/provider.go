// Package search discovers candidate podcast episodes for a learner.
package search

import (
	"context"
	"strings"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

// Provider returns raw candidate episodes for a query. Implementations must
// assign CandidateEpisode.Index in provider result order so downstream
// validation stays reproducible under concurrency.
type Provider interface {
	Search(ctx context.Context, query string) ([]domain.CandidateEpisode, error)
}

// queryAnchor fixes the language and purpose of every search.
const queryAnchor = "English podcast"

// BuildQuery combines the fixed anchor, the learner's level and the optional
// topic into a single search query. Pure and deterministic.
func BuildQuery(level, topic string) string {
	parts := []string{queryAnchor, level}
	if topic != "" {
		parts = append(parts, topic)
	}
	return strings.Join(parts, " ")
}
