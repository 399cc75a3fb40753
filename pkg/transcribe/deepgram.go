package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DeepgramClient calls a Deepgram-style pre-recorded transcription API:
// audio bytes in, structured alternatives out.
type DeepgramClient struct {
	baseURL  string
	apiKey   string
	model    string
	tier     string
	language string
	client   *http.Client
}

// NewDeepgramClient creates a client for the given API base URL and key.
// Model parameters match the service's fixed configuration: general model,
// base tier, English audio.
func NewDeepgramClient(baseURL, apiKey string) *DeepgramClient {
	return &DeepgramClient{
		baseURL:  baseURL,
		apiKey:   apiKey,
		model:    "general",
		tier:     "base",
		language: "en",
		// Transcribing a full episode can take minutes.
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

type deepgramResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe posts the audio payload and extracts the primary transcript:
// first alternative of the first channel. A response without channels or
// alternatives yields an empty transcript, not an error.
func (c *DeepgramClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	params := url.Values{}
	params.Set("model", c.model)
	params.Set("tier", c.tier)
	params.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/listen?"+params.Encode(), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("build transcription request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("transcription API status %d: %s", resp.StatusCode, string(body))
	}

	var parsed deepgramResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}

	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}
	return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
}
