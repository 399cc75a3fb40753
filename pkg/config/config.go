package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the service reads from the environment.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// ListenAPIURL is the base URL of the podcast search API.
	ListenAPIURL string
	// ListenAPIKey authenticates against the podcast search API.
	ListenAPIKey string

	// DeepgramURL is the base URL of the speech-to-text API.
	DeepgramURL string
	// DeepgramKey authenticates against the speech-to-text API.
	DeepgramKey string

	// StoreBackend selects the transcript store: "postgres", "supabase" or "mongo".
	StoreBackend string

	PostgresDSN string

	SupabaseURL string
	SupabaseKey string

	MongoURI string
	MongoDB  string

	// FeedURL, when set, is a curated podcast RSS feed used instead of the
	// search API (mainly for the CLI and feed-only deployments).
	FeedURL string

	// Keywords is the topical allow-list applied to episode descriptions.
	Keywords []string
	// Blacklist rejects episodes whose title or description mention off-topic
	// languages or subjects.
	Blacklist []string

	// MaxResults caps the number of podcasts returned per discovery request.
	MaxResults int
	// MaxDurationSec rejects episodes longer than this.
	MaxDurationSec int
	// BatchWorkers bounds concurrent transcriptions within one batch.
	BatchWorkers int
	// GlobalTranscriptions bounds concurrent transcriptions process-wide.
	GlobalTranscriptions int

	LogLevel  string
	LogPretty bool
}

const (
	defaultMaxResults     = 3
	defaultMaxDurationSec = 900
	defaultBatchWorkers   = 3
	defaultGlobalLimit    = 6
)

var defaultKeywords = []string{
	"english", "learn", "learning", "lesson", "listening",
	"beginner", "intermediate", "advanced", "podcast",
}

var defaultBlacklist = []string{
	"spanish", "french", "german", "russian", "chinese", "japanese",
}

// Load reads configuration from the environment, loading a .env file first
// if one is present in the working directory.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:                 getEnv("ADDR", ":8080"),
		ListenAPIURL:         getEnv("LISTEN_API_URL", "https://listen-api.listennotes.com/api/v2"),
		ListenAPIKey:         os.Getenv("LISTEN_API_KEY"),
		DeepgramURL:          getEnv("DEEPGRAM_URL", "https://api.deepgram.com"),
		DeepgramKey:          os.Getenv("DEEPGRAM_API_KEY"),
		StoreBackend:         getEnv("STORE_BACKEND", "supabase"),
		PostgresDSN:          os.Getenv("POSTGRES_DSN"),
		SupabaseURL:          os.Getenv("SUPABASE_URL"),
		SupabaseKey:          os.Getenv("SUPABASE_KEY"),
		MongoURI:             os.Getenv("MONGO_URI"),
		MongoDB:              getEnv("MONGO_DB", "englishapp"),
		FeedURL:              os.Getenv("PODCAST_FEED_URL"),
		Keywords:             getEnvList("PODCAST_KEYWORDS", defaultKeywords),
		Blacklist:            getEnvList("PODCAST_BLACKLIST", defaultBlacklist),
		MaxResults:           getEnvInt("MAX_RESULTS", defaultMaxResults),
		MaxDurationSec:       getEnvInt("MAX_DURATION_SEC", defaultMaxDurationSec),
		BatchWorkers:         getEnvInt("BATCH_WORKERS", defaultBatchWorkers),
		GlobalTranscriptions: getEnvInt("GLOBAL_TRANSCRIPTIONS", defaultGlobalLimit),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		LogPretty:            getEnv("LOG_PRETTY", "false") == "true",
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "postgres":
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres backend")
		}
	case "supabase":
		if c.SupabaseURL == "" || c.SupabaseKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required for the supabase backend")
		}
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown store backend: %q", c.StoreBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvList reads a comma-separated list, trimming blanks.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
