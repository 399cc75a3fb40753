package filter

import (
	"strings"
	"sync"
)

// SeenTitles is the per-batch set of normalized episode titles. Validation
// goroutines share one instance, so insertion-and-check is a single atomic
// operation under the mutex: two concurrent candidates with the same title
// can never both pass.
type SeenTitles struct {
	mu     sync.Mutex
	titles map[string]struct{}
}

// NewSeenTitles creates an empty title set for one discovery batch.
func NewSeenTitles() *SeenTitles {
	return &SeenTitles{titles: make(map[string]struct{})}
}

// Add records the normalized title and reports whether it was new.
func (s *SeenTitles) Add(title string) bool {
	key := NormalizeTitle(title)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.titles[key]; ok {
		return false
	}
	s.titles[key] = struct{}{}
	return true
}

// NormalizeTitle lowercases a title and collapses runs of whitespace so
// cosmetic differences don't defeat deduplication.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
