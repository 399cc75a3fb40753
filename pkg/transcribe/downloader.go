package transcribe

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Zhansarbaev/english-application-backend/pkg/httpclient"
)

// Downloader fetches full audio payloads for transcription.
type Downloader struct {
	client *httpclient.Client

	// maxBytes caps the downloaded payload. Zero means unlimited.
	maxBytes int64
}

// NewDownloader creates a downloader. maxBytes <= 0 disables the size cap.
func NewDownloader(client *httpclient.Client, maxBytes int64) *Downloader {
	return &Downloader{client: client, maxBytes: maxBytes}
}

// Download fetches the audio at the given URL. Non-2xx statuses are errors.
func (d *Downloader) Download(ctx context.Context, audioURL string) ([]byte, error) {
	resp, err := d.client.Get(ctx, audioURL)
	if err != nil {
		return nil, fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("fetch audio: unexpected status code: %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if d.maxBytes > 0 {
		body = io.LimitReader(resp.Body, d.maxBytes)
	}

	audio, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read audio body: %w", err)
	}
	return audio, nil
}
