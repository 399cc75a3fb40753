package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Zhansarbaev/english-application-backend/pkg/httpclient"
)

func TestDownloader_Download(t *testing.T) {
	payload := []byte("mp3-bytes-here")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	d := NewDownloader(httpclient.New(httpclient.BrowserProfile, 0), 0)

	got, err := d.Download(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("payload mismatch: got %q", got)
	}
}

func TestDownloader_Download_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	d := NewDownloader(httpclient.New(httpclient.BrowserProfile, 0), 0)

	if _, err := d.Download(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestDownloader_Download_SizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 1024))
	}))
	defer srv.Close()

	d := NewDownloader(httpclient.New(httpclient.BrowserProfile, 0), 100)

	got, err := d.Download(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if len(got) != 100 {
		t.Errorf("expected capped payload of 100 bytes, got %d", len(got))
	}
}
