// Package worker runs the transcription side of the pipeline: download
// accepted episodes, transcribe them and persist the results.
package worker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Zhansarbaev/english-application-backend/pkg/db"
	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
	"github.com/Zhansarbaev/english-application-backend/pkg/transcribe"
)

// Downloader fetches the full audio payload for one episode.
type Downloader interface {
	Download(ctx context.Context, audioURL string) ([]byte, error)
}

// Config tunes the orchestrator's concurrency.
type Config struct {
	// BatchWorkers bounds concurrent episodes within one batch. Defaults to 3,
	// the discovery result cap.
	BatchWorkers int

	// GlobalLimit bounds concurrent transcriptions across all batches in the
	// process so one burst of requests cannot exhaust memory or provider
	// quota. Defaults to 6.
	GlobalLimit int
}

const (
	defaultBatchWorkers = 3
	defaultGlobalLimit  = 6
)

// Orchestrator transcribes a batch of validated podcasts and writes one
// transcript record per non-empty result. Episode failures are logged and
// isolated; there are no retries.
type Orchestrator struct {
	downloader Downloader
	provider   transcribe.Provider
	store      db.TranscriptStore
	log        zerolog.Logger

	batchWorkers int
	global       chan struct{}
}

// NewOrchestrator wires the transcription workflow.
func NewOrchestrator(downloader Downloader, provider transcribe.Provider, store db.TranscriptStore, cfg Config, log zerolog.Logger) *Orchestrator {
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = defaultBatchWorkers
	}
	if cfg.GlobalLimit <= 0 {
		cfg.GlobalLimit = defaultGlobalLimit
	}
	return &Orchestrator{
		downloader:   downloader,
		provider:     provider,
		store:        store,
		log:          log,
		batchWorkers: cfg.BatchWorkers,
		global:       make(chan struct{}, cfg.GlobalLimit),
	}
}

// Run processes every podcast in the batch and blocks until all finish.
// Callers that want detachment run it through a Scheduler.
func (o *Orchestrator) Run(ctx context.Context, userID, topic string, podcasts []domain.ValidatedPodcast) {
	if len(podcasts) == 0 {
		return
	}

	workers := o.batchWorkers
	if workers > len(podcasts) {
		workers = len(podcasts)
	}

	jobs := make(chan domain.ValidatedPodcast)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for p := range jobs {
				o.processEpisode(ctx, userID, topic, p)
			}
		}()
	}

	for _, p := range podcasts {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- p:
		}
	}

	close(jobs)
	wg.Wait()
}

// processEpisode downloads, transcribes and persists one episode. Any
// failure skips the episode without touching the rest of the batch.
func (o *Orchestrator) processEpisode(ctx context.Context, userID, topic string, p domain.ValidatedPodcast) {
	o.global <- struct{}{}
	defer func() { <-o.global }()

	log := o.log.With().Str("user_id", userID).Str("title", p.Title).Logger()

	audio, err := o.downloader.Download(ctx, p.AudioURL)
	if err != nil {
		log.Warn().Err(err).Msg("audio download failed, skipping episode")
		return
	}

	transcript, err := o.provider.Transcribe(ctx, audio)
	if err != nil {
		log.Warn().Err(err).Msg("transcription failed, skipping episode")
		return
	}
	if strings.TrimSpace(transcript) == "" {
		log.Warn().Msg("empty transcript, skipping episode")
		return
	}

	rec := &domain.TranscriptRecord{
		ID:           uuid.NewString(),
		UserID:       userID,
		PodcastTitle: p.Title,
		Transcript:   transcript,
		Topic:        topic,
		CreatedAt:    time.Now().UTC(),
	}
	if err := o.store.SaveTranscript(ctx, rec); err != nil {
		log.Error().Err(err).Msg("failed to save transcript")
		return
	}
	log.Info().Msg("transcript saved")
}
