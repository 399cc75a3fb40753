package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Zhansarbaev/english-application-backend/pkg/db"
	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	podcasts []domain.ValidatedPodcast
	err      error

	queuedUser  string
	queuedTopic string
	queueCalls  int
}

func (f *fakeService) Discover(_ context.Context, _, _ string) ([]domain.ValidatedPodcast, error) {
	return f.podcasts, f.err
}

func (f *fakeService) QueueTranscription(userID, topic string, _ []domain.ValidatedPodcast) {
	f.queueCalls++
	f.queuedUser = userID
	f.queuedTopic = topic
}

func doRequest(t *testing.T, svc *fakeService, target string) *httptest.ResponseRecorder {
	t.Helper()
	s := New(svc, zerolog.Nop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleGetPodcasts_MissingUserID(t *testing.T) {
	svc := &fakeService{}
	rec := doRequest(t, svc, "/podcasts")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.queueCalls != 0 {
		t.Error("nothing must be queued for a rejected request")
	}
}

func TestHandleGetPodcasts_UnknownUser(t *testing.T) {
	svc := &fakeService{err: db.ErrUserNotFound}
	rec := doRequest(t, svc, "/podcasts?user_id=ghost")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandleGetPodcasts_UpstreamError(t *testing.T) {
	svc := &fakeService{err: errors.New("search podcasts: upstream down")}
	rec := doRequest(t, svc, "/podcasts?user_id=user-1")

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "upstream down") {
		t.Errorf("error detail missing from body: %s", rec.Body.String())
	}
}

func TestHandleGetPodcasts_NoResults(t *testing.T) {
	svc := &fakeService{}
	rec := doRequest(t, svc, "/podcasts?user_id=user-1&topic=travel")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Message  string                    `json:"message"`
		Podcasts []domain.ValidatedPodcast `json:"podcasts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Message != "No podcasts found." {
		t.Errorf("unexpected message: %q", body.Message)
	}
	if body.Podcasts == nil || len(body.Podcasts) != 0 {
		t.Errorf("podcasts must be an empty array, got %v", body.Podcasts)
	}
	if svc.queueCalls != 0 {
		t.Error("empty result must not queue transcription")
	}
}

func TestHandleGetPodcasts_Success(t *testing.T) {
	svc := &fakeService{podcasts: []domain.ValidatedPodcast{
		{Title: "Learn English Episode 0", AudioURL: "https://cdn.example.com/ep0.mp3", Image: "https://cdn.example.com/ep0.jpg", Level: "B1", DurationSec: 600},
	}}
	rec := doRequest(t, svc, "/podcasts?user_id=user-1&topic=travel")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Podcasts []map[string]any `json:"podcasts"`
		Status   string           `json:"transcription_status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Status != "Transcription started" {
		t.Errorf("unexpected transcription_status: %q", body.Status)
	}
	if len(body.Podcasts) != 1 {
		t.Fatalf("expected 1 podcast in body, got %d", len(body.Podcasts))
	}
	p := body.Podcasts[0]
	for _, key := range []string{"title", "audio_url", "image", "level", "duration"} {
		if _, ok := p[key]; !ok {
			t.Errorf("response podcast missing %q field: %v", key, p)
		}
	}
	if _, ok := p["Index"]; ok {
		t.Error("internal index must not leak into the response")
	}

	if svc.queueCalls != 1 {
		t.Fatalf("expected transcription queued once, got %d", svc.queueCalls)
	}
	if svc.queuedUser != "user-1" || svc.queuedTopic != "travel" {
		t.Errorf("queued with wrong identity: user=%q topic=%q", svc.queuedUser, svc.queuedTopic)
	}
}

func TestHandleHealth(t *testing.T) {
	rec := doRequest(t, &fakeService{}, "/healthz")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
