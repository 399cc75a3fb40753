package search

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

// FeedProvider produces candidates from a curated podcast RSS feed instead of
// a search API. The query is ignored: topical filtering is the validator's
// job. Used by feed-only deployments and the CLI.
type FeedProvider struct {
	feedURL string
	parser  *gofeed.Parser
}

// NewFeedProvider creates a provider for the given RSS feed URL.
func NewFeedProvider(feedURL string) *FeedProvider {
	return &FeedProvider{
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
	}
}

// Search fetches and parses the configured feed. Items without an audio
// enclosure are skipped here; everything else is left to validation.
func (p *FeedProvider) Search(ctx context.Context, _ string) ([]domain.CandidateEpisode, error) {
	feed, err := p.parser.ParseURLWithContext(p.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse podcast feed: %w", err)
	}
	if feed == nil || len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed contains no items")
	}

	candidates := make([]domain.CandidateEpisode, 0, len(feed.Items))
	for _, item := range feed.Items {
		audioURL := enclosureAudioURL(item)
		if audioURL == "" {
			continue
		}

		candidates = append(candidates, domain.CandidateEpisode{
			Index:       len(candidates),
			Title:       html.UnescapeString(item.Title),
			Description: html.UnescapeString(item.Description),
			AudioURL:    audioURL,
			Image:       itemImage(feed, item),
			DurationSec: itemDurationSec(item),
			Source:      "feed",
		})
	}
	return candidates, nil
}

func enclosureAudioURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || strings.HasPrefix(enc.Type, "audio") {
			return enc.URL
		}
	}
	return ""
}

func itemImage(feed *gofeed.Feed, item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	if item.ITunesExt != nil && item.ITunesExt.Image != "" {
		return item.ITunesExt.Image
	}
	if feed.Image != nil {
		return feed.Image.URL
	}
	return ""
}

// itemDurationSec reads the iTunes duration extension, which may be plain
// seconds ("945") or colon-separated ("15:45", "1:02:30").
func itemDurationSec(item *gofeed.Item) int {
	if item.ITunesExt == nil || item.ITunesExt.Duration == "" {
		return 0
	}
	raw := strings.TrimSpace(item.ITunesExt.Duration)

	if !strings.Contains(raw, ":") {
		sec, err := strconv.Atoi(raw)
		if err != nil {
			return 0
		}
		return sec
	}

	total := 0
	for _, part := range strings.Split(raw, ":") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		total = total*60 + n
	}
	return total
}
