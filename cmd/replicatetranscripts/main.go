// Command replicatetranscripts copies user_transcripts from MongoDB into
// Postgres. One-shot and idempotent: rows whose ID already exists in
// Postgres are skipped, so a partial run can simply be rerun.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/Zhansarbaev/english-application-backend/pkg/db"
	"github.com/Zhansarbaev/english-application-backend/pkg/logger"
	"github.com/Zhansarbaev/english-application-backend/pkg/replication"
)

func main() {
	_ = godotenv.Load()

	var (
		mongoURI = flag.String("mongo-uri", os.Getenv("MONGO_URI"), "MongoDB connection URI")
		mongoDB  = flag.String("mongo-db", os.Getenv("MONGO_DB"), "MongoDB database name")
		dsn      = flag.String("dsn", os.Getenv("POSTGRES_DSN"), "Postgres DSN")
	)
	flag.Parse()

	log := logger.New("replicatetranscripts", os.Getenv("LOG_LEVEL"), true)

	if *mongoURI == "" || *mongoDB == "" || *dsn == "" {
		log.Fatal().Msg("-mongo-uri, -mongo-db and -dsn are all required")
	}

	ctx := context.Background()

	source := db.NewMongoStore(*mongoURI, *mongoDB)
	if err := source.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() { _ = source.Close(context.Background()) }()

	dest := db.NewPostgresStore(db.PostgresConfig{DSN: *dsn})
	if err := dest.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer func() { _ = dest.Close() }()

	replicator, err := replication.NewReplicator(replication.Config{
		Source:   source,
		Postgres: dest,
		Log:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build replicator")
	}

	if err := replicator.ReplicateTranscripts(ctx); err != nil {
		log.Fatal().Err(err).Msg("replication failed")
	}
}
