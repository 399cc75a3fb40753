package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Zhansarbaev/english-application-backend/pkg/httpclient"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		level string
		topic string
		want  string
	}{
		{"B1", "travel", "English podcast B1 travel"},
		{"B1", "", "English podcast B1"},
		{"A2", "food", "English podcast A2 food"},
	}

	for _, tt := range tests {
		if got := BuildQuery(tt.level, tt.topic); got != tt.want {
			t.Errorf("BuildQuery(%q, %q) = %q, want %q", tt.level, tt.topic, got, tt.want)
		}
	}

	// Stability: identical inputs must build identical queries.
	if BuildQuery("B1", "travel") != BuildQuery("B1", "travel") {
		t.Error("BuildQuery must be deterministic")
	}
}

func TestListenClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-ListenAPI-Key") != "test-key" {
			t.Errorf("missing API key header")
		}
		q := r.URL.Query()
		if q.Get("q") != "English podcast B1 travel" {
			t.Errorf("unexpected query: %q", q.Get("q"))
		}
		if q.Get("type") != "episode" || q.Get("language") != "English" || q.Get("len_max") != "15" {
			t.Errorf("missing search filters: %v", q)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [
				{
					"title_original": "Travel &amp; Tourism English",
					"description_original": "Learn travel phrases &amp; vocabulary",
					"audio": "https://cdn.example.com/ep1.mp3",
					"audio_length_sec": 540,
					"image": "https://cdn.example.com/ep1.jpg"
				},
				{
					"title_original": "Airport English",
					"description_original": "",
					"audio": "https://cdn.example.com/ep2.mp3",
					"audio_length_sec": 720,
					"image": ""
				}
			]
		}`))
	}))
	defer srv.Close()

	client := NewListenClient(srv.URL, "test-key", httpclient.New(httpclient.APIProfile, 5*time.Second))

	candidates, err := client.Search(context.Background(), "English podcast B1 travel")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.Title != "Travel & Tourism English" {
		t.Errorf("title should be HTML-unescaped, got %q", first.Title)
	}
	if first.Description != "Learn travel phrases & vocabulary" {
		t.Errorf("description should be HTML-unescaped, got %q", first.Description)
	}
	if first.DurationSec != 540 {
		t.Errorf("expected duration 540, got %d", first.DurationSec)
	}
	if first.Index != 0 || candidates[1].Index != 1 {
		t.Errorf("indexes must follow provider order: %d, %d", first.Index, candidates[1].Index)
	}
}

func TestListenClient_Search_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	client := NewListenClient(srv.URL, "test-key", httpclient.New(httpclient.APIProfile, 5*time.Second))

	if _, err := client.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestListenClient_Search_EmptyResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	client := NewListenClient(srv.URL, "test-key", httpclient.New(httpclient.APIProfile, 5*time.Second))

	candidates, err := client.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}
