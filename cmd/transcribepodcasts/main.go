// Command transcribepodcasts runs discovery and transcription for one user
// synchronously: same pipeline as the service, but with an inline scheduler
// so the process exits when the transcripts are stored. Useful for backfills
// and for testing a curated feed end to end.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/Zhansarbaev/english-application-backend/pkg/config"
	"github.com/Zhansarbaev/english-application-backend/pkg/db"
	"github.com/Zhansarbaev/english-application-backend/pkg/filter"
	"github.com/Zhansarbaev/english-application-backend/pkg/httpclient"
	"github.com/Zhansarbaev/english-application-backend/pkg/logger"
	"github.com/Zhansarbaev/english-application-backend/pkg/podcastservice"
	"github.com/Zhansarbaev/english-application-backend/pkg/search"
	"github.com/Zhansarbaev/english-application-backend/pkg/transcribe"
	"github.com/Zhansarbaev/english-application-backend/pkg/worker"
)

const maxAudioBytes = 200 << 20

func main() {
	var (
		userID  = flag.String("user", "", "User ID to discover and transcribe podcasts for")
		topic   = flag.String("topic", "", "Optional topic")
		feedURL = flag.String("feed", "", "Podcast RSS feed URL; overrides the search API")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("load config: %v", err))
	}
	log := logger.New("transcribepodcasts", cfg.LogLevel, true)

	if *userID == "" {
		log.Fatal().Msg("-user is required")
	}

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to store")
	}
	defer closeStore()

	apiClient := httpclient.New(httpclient.APIProfile, 30*time.Second)
	probeClient := httpclient.New(httpclient.BrowserProfile, 10*time.Second)
	audioClient := httpclient.New(httpclient.BrowserProfile, 0)

	var provider search.Provider = search.NewListenClient(cfg.ListenAPIURL, cfg.ListenAPIKey, apiClient)
	if *feedURL != "" {
		provider = search.NewFeedProvider(*feedURL)
	} else if cfg.FeedURL != "" {
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

	svc := podcastservice.New(store, provider, validator, orch, worker.SyncScheduler{}, cfg.MaxResults, log)

	start := time.Now()
	podcasts, err := svc.Discover(ctx, *userID, *topic)
	if err != nil {
		log.Fatal().Err(err).Msg("discovery failed")
	}
	if len(podcasts) == 0 {
		log.Info().Msg("no podcasts qualified")
		return
	}

	for _, p := range podcasts {
		log.Info().Str("title", p.Title).Int("duration", p.DurationSec).Msg("accepted")
	}

	svc.RunTranscription(ctx, *userID, *topic, podcasts)
	log.Info().Dur("took", time.Since(start)).Msg("done")
}

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
