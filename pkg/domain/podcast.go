package domain

// CandidateEpisode is a raw search result from a podcast discovery provider.
// Candidates only live for the duration of a single discovery request; they are
// either promoted to a ValidatedPodcast or dropped.
type CandidateEpisode struct {
	// Index is the position of the episode in the provider's result list.
	// It is assigned before validation fans out so the final result order is
	// reproducible regardless of which validation goroutine finishes first.
	Index int

	// Title is the episode title, HTML-unescaped.
	Title string

	// Description is the episode description, HTML-unescaped. May contain markup.
	Description string

	// AudioURL points at the playable audio file.
	AudioURL string

	// Image is the episode or show artwork URL, when available.
	Image string

	// DurationSec is the declared episode length in seconds.
	DurationSec int

	// Source identifies the provider that produced this candidate.
	Source string
}

// ValidatedPodcast is a candidate that passed every admissibility check,
// tagged with the learner's proficiency level. Immutable once produced.
type ValidatedPodcast struct {
	Index       int    `json:"-"`
	Title       string `json:"title"`
	AudioURL    string `json:"audio_url"`
	Image       string `json:"image"`
	Level       string `json:"level"`
	DurationSec int    `json:"duration"`
}
