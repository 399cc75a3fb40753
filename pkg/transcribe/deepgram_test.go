package transcribe

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDeepgramClient_Transcribe(t *testing.T) {
	audio := []byte("fake-audio-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Token test-key" {
			t.Errorf("unexpected auth header: %q", r.Header.Get("Authorization"))
		}
		q := r.URL.Query()
		if q.Get("model") != "general" || q.Get("tier") != "base" || q.Get("language") != "en" {
			t.Errorf("unexpected model params: %v", q)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != string(audio) {
			t.Errorf("audio payload not forwarded intact")
		}

		_, _ = w.Write([]byte(`{
			"results": {
				"channels": [
					{"alternatives": [{"transcript": "hello and welcome to the show"}, {"transcript": "secondary guess"}]}
				]
			}
		}`))
	}))
	defer srv.Close()

	client := NewDeepgramClient(srv.URL, "test-key")

	transcript, err := client.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if transcript != "hello and welcome to the show" {
		t.Errorf("expected first alternative of first channel, got %q", transcript)
	}
}

func TestDeepgramClient_Transcribe_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": {"channels": []}}`))
	}))
	defer srv.Close()

	client := NewDeepgramClient(srv.URL, "test-key")

	transcript, err := client.Transcribe(context.Background(), []byte("audio"))
	if err != nil {
		t.Fatalf("a result without channels is not an error, got %v", err)
	}
	if transcript != "" {
		t.Errorf("expected empty transcript, got %q", transcript)
	}
}

func TestDeepgramClient_Transcribe_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewDeepgramClient(srv.URL, "test-key")

	if _, err := client.Transcribe(context.Background(), []byte("audio")); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
