// Package replication copies transcript records between store backends.
// It exists for the Mongo to Postgres migration path; the serving pipeline
// never imports it.
package replication

import (
	"context"
	"crypto/md5"
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

// TranscriptSource reads every transcript record from the source backend.
// Satisfied by *db.MongoStore.
type TranscriptSource interface {
	AllTranscripts(ctx context.Context) ([]domain.TranscriptRecord, error)
}

// SQLProvider exposes the destination's raw SQL handle.
// Satisfied by *db.PostgresStore.
type SQLProvider interface {
	DB() *sql.DB
}

// Config wires the replication dependencies.
type Config struct {
	Source   TranscriptSource
	Postgres SQLProvider
	Log      zerolog.Logger
}

// Replicator is a one-shot, copy-everything migration of user_transcripts
// from the source backend into Postgres. Records whose ID already exists in
// Postgres are skipped, so reruns after a partial failure are safe.
type Replicator struct {
	src TranscriptSource
	pg  SQLProvider
	log zerolog.Logger
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("transcript source is required")
	}
	if cfg.Postgres == nil {
		return nil, fmt.Errorf("postgres provider is required")
	}
	return &Replicator{
		src: cfg.Source,
		pg:  cfg.Postgres,
		log: cfg.Log,
	}, nil
}

// ReplicateTranscripts reads all transcript records from the source and
// inserts the ones Postgres does not have yet. Batches are processed in
// parallel to keep the existence checks off the full dataset.
func (r *Replicator) ReplicateTranscripts(ctx context.Context) error {
	if err := r.ensureTranscriptSchema(ctx); err != nil {
		return err
	}

	records, err := r.src.AllTranscripts(ctx)
	if err != nil {
		return fmt.Errorf("read source transcripts: %w", err)
	}

	r.log.Info().Int("records", len(records)).Msg("loaded transcripts from source")

	inserted, err := r.processBatches(ctx, records)
	if err != nil {
		return err
	}

	r.log.Info().
		Int("processed", len(records)).
		Int("inserted", inserted).
		Msg("replication complete")
	return nil
}

func (r *Replicator) processBatches(ctx context.Context, records []domain.TranscriptRecord) (int, error) {
	const batchSize = 100
	const numWorkers = 5

	type batchJob struct {
		batch []domain.TranscriptRecord
		start int
	}
	type batchResult struct {
		inserted int
		err      error
	}

	numBatches := (len(records) + batchSize - 1) / batchSize
	jobs := make(chan batchJob, numBatches)
	results := make(chan batchResult, numBatches)

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		jobs <- batchJob{batch: records[start:end], start: start}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				inserted, err := r.processBatch(ctx, job.batch, job.start)
				results <- batchResult{inserted: inserted, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	totalInserted := 0
	for result := range results {
		if result.err != nil {
			return totalInserted, result.err
		}
		totalInserted += result.inserted
	}

	return totalInserted, nil
}

func (r *Replicator) processBatch(ctx context.Context, batch []domain.TranscriptRecord, start int) (int, error) {
	existing, err := r.existingIDs(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("check existing IDs at offset %d: %w", start, err)
	}

	toInsert := make([]domain.TranscriptRecord, 0, len(batch))
	for _, rec := range batch {
		if rec.ID == "" || existing[rec.ID] {
			continue
		}
		toInsert = append(toInsert, rec)
	}
	if len(toInsert) == 0 {
		return 0, nil
	}

	if err := r.insertTx(ctx, toInsert); err != nil {
		return 0, fmt.Errorf("insert batch at offset %d: %w", start, err)
	}

	r.log.Debug().Int("offset", start).Int("inserted", len(toInsert)).Msg("batch replicated")
	return len(toInsert), nil
}

func (r *Replicator) ensureTranscriptSchema(ctx context.Context) error {
	if r.pg.DB() == nil {
		return fmt.Errorf("postgres not connected")
	}

	const ddl = `
CREATE TABLE IF NOT EXISTS user_transcripts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  podcast_title TEXT NOT NULL DEFAULT '',
  transcript TEXT NOT NULL,
  topic TEXT NOT NULL DEFAULT '',
  success BOOLEAN,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	if _, err := r.pg.DB().ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create user_transcripts table: %w", err)
	}
	return nil
}

// existingIDs returns the subset of the batch's IDs already present in
// Postgres, so the existence check never loads the whole table.
func (r *Replicator) existingIDs(ctx context.Context, batch []domain.TranscriptRecord) (map[string]bool, error) {
	ids := make([]interface{}, 0, len(batch))
	for _, rec := range batch {
		if rec.ID != "" {
			ids = append(ids, rec.ID)
		}
	}
	if len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query, args := buildIDInQuery(ids)

	rows, err := r.pg.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing ids: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return set, nil
}

// buildIDInQuery builds a SELECT with an IN clause. The leading comment makes
// the query text unique per batch: pgx caches prepared statements by SQL
// text, and identical IN queries issued from parallel workers collide in
// that cache.
func buildIDInQuery(ids []interface{}) (string, []interface{}) {
	var hashSuffix string
	if first, ok := ids[0].(string); ok {
		hash := md5.Sum([]byte(first))
		hashSuffix = fmt.Sprintf("%x", hash[:4])
	}

	query := fmt.Sprintf(`/* q_%d_%s */ SELECT id FROM user_transcripts WHERE id IN (`, len(ids), hashSuffix)
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query += ")"
	return query, args
}

func (r *Replicator) insertTx(ctx context.Context, batch []domain.TranscriptRecord) error {
	tx, err := r.pg.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insertQuery = `
INSERT INTO user_transcripts (id, user_id, podcast_title, transcript, topic, success, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range batch {
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.UserID, rec.PodcastTitle, rec.Transcript, rec.Topic, rec.Success, rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert transcript id=%q: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
