// Package transcribe turns downloaded podcast audio into transcript text
// through an external speech-to-text backend.
package transcribe

import "context"

// Provider is the abstraction over a batch speech-to-text backend.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Transcribe sends raw audio bytes and returns the transcript text.
	// An empty transcript with a nil error means the backend produced no
	// usable text; callers skip persistence in that case.
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
