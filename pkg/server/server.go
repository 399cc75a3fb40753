// Package server exposes the discovery pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Zhansarbaev/english-application-backend/pkg/db"
	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

// PodcastService is the slice of the pipeline the HTTP layer needs.
type PodcastService interface {
	Discover(ctx context.Context, userID, topic string) ([]domain.ValidatedPodcast, error)
	QueueTranscription(userID, topic string, podcasts []domain.ValidatedPodcast)
}

// Server wraps the gin engine and its routes.
type Server struct {
	engine *gin.Engine
	svc    PodcastService
	log    zerolog.Logger
}

// New builds the router.
func New(svc PodcastService, log zerolog.Logger) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, svc: svc, log: log}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/podcasts", s.handleGetPodcasts)

	return s
}

// Run starts serving on addr and blocks.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleGetPodcasts serves GET /podcasts?user_id=<id>&topic=<optional>.
// The podcast list is written to the client first; only then is the
// transcription workflow queued, so its latency and failures are invisible
// to the caller.
func (s *Server) handleGetPodcasts(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "user_id is required"})
		return
	}
	topic := c.Query("topic")

	podcasts, err := s.svc.Discover(c.Request.Context(), userID, topic)
	if err != nil {
		if errors.Is(err, db.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "user not found"})
			return
		}
		s.log.Error().Err(err).Str("user_id", userID).Msg("discovery failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	if len(podcasts) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":  "No podcasts found.",
			"podcasts": []domain.ValidatedPodcast{},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"podcasts":             podcasts,
		"transcription_status": "Transcription started",
	})

	s.svc.QueueTranscription(userID, topic, podcasts)
}
