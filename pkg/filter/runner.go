package filter

import (
	"context"
	"sync"

	"github.com/abadojack/whatlanggo"
	"github.com/rs/zerolog"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
	"github.com/Zhansarbaev/english-application-backend/pkg/httpclient"
)

// Config carries the batch-independent validation settings.
type Config struct {
	// MaxDurationSec is the episode length ceiling. Defaults to 900.
	MaxDurationSec int

	// Keywords is the topical allow-list. The learner's level is appended
	// per batch so level-tagged episodes always qualify.
	Keywords []string

	// Blacklist terms reject a candidate outright.
	Blacklist []string

	// Prober performs the audio reachability check. When nil the probe is
	// skipped, which only tests should rely on.
	Prober *httpclient.Client
}

const defaultMaxDurationSec = 900

// Runner validates all candidates of a batch concurrently.
type Runner struct {
	cfg Config
	log zerolog.Logger
}

// NewRunner creates a validator with the given settings.
func NewRunner(cfg Config, log zerolog.Logger) *Runner {
	if cfg.MaxDurationSec <= 0 {
		cfg.MaxDurationSec = defaultMaxDurationSec
	}
	return &Runner{cfg: cfg, log: log}
}

// Validate fans one goroutine out per candidate, runs the check chain for
// each and returns the accepted candidates tagged with the learner's level.
// Output order is not defined; the reducer re-establishes source order.
// Rejections are logged and never abort the batch.
func (r *Runner) Validate(ctx context.Context, candidates []domain.CandidateEpisode, level string) []domain.ValidatedPodcast {
	if len(candidates) == 0 {
		return nil
	}

	checks := r.checksFor(level)

	type outcome struct {
		candidate domain.CandidateEpisode
		rejected  error
		check     string
	}

	results := make(chan outcome, len(candidates))
	var wg sync.WaitGroup

	for _, c := range candidates {
		wg.Add(1)
		go func(c domain.CandidateEpisode) {
			defer wg.Done()
			name, err := admit(ctx, checks, c)
			results <- outcome{candidate: c, rejected: err, check: name}
		}(c)
	}

	wg.Wait()
	close(results)

	accepted := make([]domain.ValidatedPodcast, 0, len(candidates))
	for out := range results {
		if out.rejected != nil {
			r.log.Debug().
				Str("check", out.check).
				Str("title", out.candidate.Title).
				Err(out.rejected).
				Msg("candidate rejected")
			continue
		}
		accepted = append(accepted, domain.ValidatedPodcast{
			Index:       out.candidate.Index,
			Title:       out.candidate.Title,
			AudioURL:    out.candidate.AudioURL,
			Image:       out.candidate.Image,
			Level:       level,
			DurationSec: out.candidate.DurationSec,
		})
	}
	return accepted
}

// checksFor builds the per-batch chain. The seen-title set is created fresh
// here: deduplication is intra-batch, not global.
func (r *Runner) checksFor(level string) []Check {
	keywords := make([]string, 0, len(r.cfg.Keywords)+1)
	keywords = append(keywords, r.cfg.Keywords...)
	if level != "" {
		keywords = append(keywords, level)
	}

	checks := []Check{
		&DuplicateTitleCheck{Seen: NewSeenTitles()},
		&DurationCheck{MaxSeconds: r.cfg.MaxDurationSec},
		&LanguageCheck{Target: whatlanggo.Eng},
		&KeywordCheck{Keywords: keywords},
		&BlacklistCheck{Terms: r.cfg.Blacklist},
		&AudioURLCheck{},
	}
	if r.cfg.Prober != nil {
		checks = append(checks, &ProbeCheck{Client: r.cfg.Prober})
	}
	return checks
}

// admit runs the chain in order and returns the first rejection, along with
// the name of the check that produced it.
func admit(ctx context.Context, checks []Check, c domain.CandidateEpisode) (string, error) {
	for _, check := range checks {
		if err := check.Admit(ctx, c); err != nil {
			return check.Name(), err
		}
	}
	return "", nil
}
