package filter

import (
	"sort"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

// Reduce orders accepted podcasts by their source index and truncates to max.
// Sorting by the index assigned before fan-out, rather than by goroutine
// arrival order, keeps the result reproducible for identical provider output.
func Reduce(accepted []domain.ValidatedPodcast, max int) []domain.ValidatedPodcast {
	out := make([]domain.ValidatedPodcast, len(accepted))
	copy(out, accepted)

	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}
