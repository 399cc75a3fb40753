package domain

import "time"

// TranscriptRecord is one persisted podcast transcript for a user.
//
// Records are written once by the transcription pipeline and never updated by
// it. The Success flag stays nil until the answer-grading flow (outside this
// repository) marks the transcript as practiced.
type TranscriptRecord struct {
	// ID is a generated UUID.
	ID string `json:"id" bson:"_id"`

	// UserID identifies the learner the transcript belongs to.
	UserID string `json:"user_id" bson:"user_id"`

	// PodcastTitle is the title of the transcribed episode.
	PodcastTitle string `json:"podcast_title" bson:"podcast_title"`

	// Transcript is the full transcript text. Never empty in a stored record.
	Transcript string `json:"transcript" bson:"transcript"`

	// Topic is the topic the learner requested, as provided by the caller.
	Topic string `json:"topic" bson:"topic"`

	// Success is set later by the grading flow; nil means not graded yet.
	Success *bool `json:"success" bson:"success"`

	// CreatedAt is when the transcript was stored.
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
