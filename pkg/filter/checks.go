// Package filter decides which candidate episodes are admissible for a
// learner. Each check is independent and short-circuits the chain on the
// first rejection; a rejected candidate never aborts the batch.
package filter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/abadojack/whatlanggo"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
	"github.com/Zhansarbaev/english-application-backend/pkg/httpclient"
)

// Rejection reasons. Tests and logs match on these sentinels.
var (
	ErrDuplicateTitle = errors.New("duplicate title in batch")
	ErrTooLong        = errors.New("episode exceeds duration ceiling")
	ErrWrongLanguage  = errors.New("description is not in the target language")
	ErrNoKeyword      = errors.New("description matches no topical keyword")
	ErrBlacklisted    = errors.New("title or description contains a blacklisted term")
	ErrNoAudio        = errors.New("episode has no audio URL")
	ErrProbeFailed    = errors.New("audio URL failed the reachability probe")
)

// Check decides whether a single candidate is admissible.
// A nil return admits the candidate; a sentinel error rejects it.
type Check interface {
	Name() string
	Admit(ctx context.Context, c domain.CandidateEpisode) error
}

// DuplicateTitleCheck rejects candidates whose normalized title was already
// claimed by another candidate in the same batch.
type DuplicateTitleCheck struct {
	Seen *SeenTitles
}

func (d *DuplicateTitleCheck) Name() string { return "duplicate_title" }

func (d *DuplicateTitleCheck) Admit(_ context.Context, c domain.CandidateEpisode) error {
	if !d.Seen.Add(c.Title) {
		return ErrDuplicateTitle
	}
	return nil
}

// DurationCheck rejects episodes longer than the configured ceiling.
type DurationCheck struct {
	MaxSeconds int
}

func (d *DurationCheck) Name() string { return "duration" }

func (d *DurationCheck) Admit(_ context.Context, c domain.CandidateEpisode) error {
	if c.DurationSec > d.MaxSeconds {
		return ErrTooLong
	}
	return nil
}

// LanguageCheck rejects candidates whose description is detected as a
// language other than the target. An empty description is admitted: short
// feeds often ship episodes without one and absence is not evidence.
type LanguageCheck struct {
	Target whatlanggo.Lang
}

func (l *LanguageCheck) Name() string { return "language" }

func (l *LanguageCheck) Admit(_ context.Context, c domain.CandidateEpisode) error {
	text := stripMarkup(c.Description)
	if text == "" {
		return nil
	}
	if whatlanggo.DetectLang(text) != l.Target {
		return ErrWrongLanguage
	}
	return nil
}

// KeywordCheck requires the description to mention at least one allow-listed
// topical keyword. Matching is case-insensitive over the tag-stripped text.
type KeywordCheck struct {
	Keywords []string
}

func (k *KeywordCheck) Name() string { return "keyword" }

func (k *KeywordCheck) Admit(_ context.Context, c domain.CandidateEpisode) error {
	text := strings.ToLower(stripMarkup(c.Description))
	for _, kw := range k.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(kw)) {
			return nil
		}
	}
	return ErrNoKeyword
}

// BlacklistCheck rejects candidates whose title or description mention any
// blacklisted term (off-topic languages or subjects).
type BlacklistCheck struct {
	Terms []string
}

func (b *BlacklistCheck) Name() string { return "blacklist" }

func (b *BlacklistCheck) Admit(_ context.Context, c domain.CandidateEpisode) error {
	haystack := strings.ToLower(c.Title + " " + stripMarkup(c.Description))
	for _, term := range b.Terms {
		if term == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(term)) {
			return ErrBlacklisted
		}
	}
	return nil
}

// AudioURLCheck rejects candidates without an audio URL.
type AudioURLCheck struct{}

func (a *AudioURLCheck) Name() string { return "audio_url" }

func (a *AudioURLCheck) Admit(_ context.Context, c domain.CandidateEpisode) error {
	if strings.TrimSpace(c.AudioURL) == "" {
		return ErrNoAudio
	}
	return nil
}

// ProbeCheck verifies the audio URL is reachable and actually serves audio,
// using a two-byte range request. This is the only check that does network
// I/O per candidate and it dominates validation latency, which is why it
// runs last in the chain.
type ProbeCheck struct {
	Client *httpclient.Client
}

func (p *ProbeCheck) Name() string { return "probe" }

func (p *ProbeCheck) Admit(ctx context.Context, c domain.CandidateEpisode) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AudioURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	req.Header.Set("Range", "bytes=0-1")

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProbeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", ErrProbeFailed, resp.StatusCode)
	}
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "audio") {
		return fmt.Errorf("%w: content-type %q", ErrProbeFailed, resp.Header.Get("Content-Type"))
	}
	return nil
}

// stripMarkup flattens HTML in provider descriptions to plain text before
// language detection and keyword matching. Unparseable input is used as-is.
func stripMarkup(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
