// Package podcastservice coordinates the discovery and transcription
// pipeline: profile lookup, search, validation, capping, the per-(user,
// topic) idempotency guard and the detached transcription workflow.
package podcastservice

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Zhansarbaev/english-application-backend/pkg/db"
	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
	"github.com/Zhansarbaev/english-application-backend/pkg/filter"
	"github.com/Zhansarbaev/english-application-backend/pkg/search"
	"github.com/Zhansarbaev/english-application-backend/pkg/worker"
)

// Transcriber runs the transcription workflow for an accepted batch.
// Satisfied by *worker.Orchestrator; tests substitute fakes.
type Transcriber interface {
	Run(ctx context.Context, userID, topic string, podcasts []domain.ValidatedPodcast)
}

// Service is the podcast pipeline entry point used by the HTTP layer and the
// CLI. All collaborators are injected; the service holds no hidden globals.
type Service struct {
	store     db.Store
	provider  search.Provider
	validator *filter.Runner
	orch      Transcriber
	scheduler worker.Scheduler
	log       zerolog.Logger

	maxResults int
}

const defaultMaxResults = 3

// New wires a Service. maxResults <= 0 falls back to the default cap of 3.
func New(store db.Store, provider search.Provider, validator *filter.Runner, orch Transcriber, scheduler worker.Scheduler, maxResults int, log zerolog.Logger) *Service {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Service{
		store:      store,
		provider:   provider,
		validator:  validator,
		orch:       orch,
		scheduler:  scheduler,
		log:        log,
		maxResults: maxResults,
	}
}

// Discover runs the synchronous half of the pipeline: profile lookup, query
// construction, provider search, concurrent validation and capping. Errors
// from the profile lookup and the search call propagate; per-candidate
// failures never do.
func (s *Service) Discover(ctx context.Context, userID, topic string) ([]domain.ValidatedPodcast, error) {
	level, err := s.store.GetUserLevel(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := search.BuildQuery(level, topic)
	candidates, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search podcasts: %w", err)
	}

	accepted := s.validator.Validate(ctx, candidates, level)
	podcasts := filter.Reduce(accepted, s.maxResults)

	s.log.Info().
		Str("user_id", userID).
		Str("topic", topic).
		Int("candidates", len(candidates)).
		Int("accepted", len(accepted)).
		Int("returned", len(podcasts)).
		Msg("discovery complete")

	return podcasts, nil
}

// QueueTranscription hands the batch to the scheduler and returns
// immediately. The detached work re-checks the idempotency guard and has no
// caller left, so failures are logged and dropped.
func (s *Service) QueueTranscription(userID, topic string, podcasts []domain.ValidatedPodcast) {
	s.scheduler.Go(func() {
		// Fresh context: the HTTP request that triggered this work is done.
		s.RunTranscription(context.Background(), userID, topic, podcasts)
	})
}

// RunTranscription applies the idempotency guard and, if the (user, topic)
// pair has no stored transcript yet, runs the transcription workflow to
// completion. The guard is check-then-act: a concurrent request for the same
// pair can slip through and duplicate work. Duplicate records never corrupt
// grading, so no lock is held across the workflow.
func (s *Service) RunTranscription(ctx context.Context, userID, topic string, podcasts []domain.ValidatedPodcast) {
	exists, err := s.store.HasTopic(ctx, userID, topic)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Str("topic", topic).
			Msg("idempotency check failed, skipping transcription")
		return
	}
	if exists {
		s.log.Info().Str("user_id", userID).Str("topic", topic).
			Msg("transcript already exists, skipping transcription")
		return
	}

	s.log.Info().Str("user_id", userID).Str("topic", topic).
		Int("episodes", len(podcasts)).Msg("starting transcription")
	s.orch.Run(ctx, userID, topic, podcasts)
}
