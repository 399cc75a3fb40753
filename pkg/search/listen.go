package search

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
	"github.com/Zhansarbaev/english-application-backend/pkg/httpclient"
)

// ListenClient searches episodes through a ListenNotes-style HTTP API.
type ListenClient struct {
	baseURL string
	apiKey  string
	client  *httpclient.Client

	// maxLengthMin is passed to the API as a pre-filter; the validator still
	// enforces the duration ceiling on whatever comes back.
	maxLengthMin int
}

// NewListenClient creates a search client for the given API base URL and key.
func NewListenClient(baseURL, apiKey string, client *httpclient.Client) *ListenClient {
	return &ListenClient{
		baseURL:      baseURL,
		apiKey:       apiKey,
		client:       client,
		maxLengthMin: 15,
	}
}

type listenResult struct {
	Title       string `json:"title_original"`
	Description string `json:"description_original"`
	Audio       string `json:"audio"`
	AudioLength int    `json:"audio_length_sec"`
	Image       string `json:"image"`
}

type listenResponse struct {
	Results []listenResult `json:"results"`
}

// Search queries the episode search endpoint. A non-2xx status is returned as
// an error; the caller surfaces it as an upstream failure.
func (c *ListenClient) Search(ctx context.Context, query string) ([]domain.CandidateEpisode, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("type", "episode")
	params.Set("language", "English")
	params.Set("len_max", fmt.Sprintf("%d", c.maxLengthMin))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("X-ListenAPI-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search API status %d: %s", resp.StatusCode, string(body))
	}

	var parsed listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	candidates := make([]domain.CandidateEpisode, 0, len(parsed.Results))
	for i, r := range parsed.Results {
		candidates = append(candidates, domain.CandidateEpisode{
			Index:       i,
			Title:       html.UnescapeString(r.Title),
			Description: html.UnescapeString(r.Description),
			AudioURL:    r.Audio,
			Image:       r.Image,
			DurationSec: r.AudioLength,
			Source:      "listennotes",
		})
	}
	return candidates, nil
}

func drainAndClose(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	_, _ = io.Copy(io.Discard, rc)
	_ = rc.Close()
}
