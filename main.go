package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Zhansarbaev/english-application-backend/pkg/config"
	"github.com/Zhansarbaev/english-application-backend/pkg/db"
	"github.com/Zhansarbaev/english-application-backend/pkg/filter"
	"github.com/Zhansarbaev/english-application-backend/pkg/httpclient"
	"github.com/Zhansarbaev/english-application-backend/pkg/logger"
	"github.com/Zhansarbaev/english-application-backend/pkg/podcastservice"
	"github.com/Zhansarbaev/english-application-backend/pkg/search"
	"github.com/Zhansarbaev/english-application-backend/pkg/server"
	"github.com/Zhansarbaev/english-application-backend/pkg/transcribe"
	"github.com/Zhansarbaev/english-application-backend/pkg/worker"
)

// maxAudioBytes caps a single episode download. Episodes pass a 15 minute
// ceiling at validation, so anything larger than this is broken anyway.
const maxAudioBytes = 200 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}

	log := logger.New("english-application-backend", cfg.LogLevel, cfg.LogPretty)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to store")
	}
	defer closeStore()

	apiClient := httpclient.New(httpclient.APIProfile, 30*time.Second)
	probeClient := httpclient.New(httpclient.BrowserProfile, 10*time.Second)
	// No timeout: full episode downloads can take minutes.
	audioClient := httpclient.New(httpclient.BrowserProfile, 0)

	var provider search.Provider = search.NewListenClient(cfg.ListenAPIURL, cfg.ListenAPIKey, apiClient)
	if cfg.FeedURL != "" {
		provider = search.NewFeedProvider(cfg.FeedURL)
	}

	validator := filter.NewRunner(filter.Config{
		MaxDurationSec: cfg.MaxDurationSec,
		Keywords:       cfg.Keywords,
		Blacklist:      cfg.Blacklist,
		Prober:         probeClient,
	}, log)

	orch := worker.NewOrchestrator(
		transcribe.NewDownloader(audioClient, maxAudioBytes),
		transcribe.NewDeepgramClient(cfg.DeepgramURL, cfg.DeepgramKey),
		store,
		worker.Config{BatchWorkers: cfg.BatchWorkers, GlobalLimit: cfg.GlobalTranscriptions},
		log,
	)

	svc := podcastservice.New(store, provider, validator, orch, worker.DetachedScheduler{}, cfg.MaxResults, log)

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(svc, log)

	log.Info().Str("addr", cfg.Addr).Str("store", cfg.StoreBackend).Msg("listening")
	if err := srv.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// openStore connects the configured persistence backend and returns it with
// a cleanup function.
func openStore(ctx context.Context, cfg *config.Config) (db.Store, func(), error) {
	switch cfg.StoreBackend {
	case "postgres":
		store := db.NewPostgresStore(db.PostgresConfig{DSN: cfg.PostgresDSN})
		if err := store.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "supabase":
		store := db.NewSupabaseStore(db.SupabaseConfig{URL: cfg.SupabaseURL, Key: cfg.SupabaseKey})
		if err := store.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil

	case "mongo":
		store := db.NewMongoStore(cfg.MongoURI, cfg.MongoDB)
		if err := store.Connect(ctx); err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close(context.Background()) }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend: %q", cfg.StoreBackend)
	}
}
