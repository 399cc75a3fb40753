package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Zhansarbaev/english-application-backend/pkg/domain"
)

// MongoStore implements Store over MongoDB: transcripts in a
// user_transcripts collection, profiles in users_progress.
type MongoStore struct {
	client      *mongo.Client
	transcripts *mongo.Collection
	profiles    *mongo.Collection

	uri    string
	dbName string
}

// NewMongoStore constructs a Mongo store; call Connect before use.
func NewMongoStore(uri, dbName string) *MongoStore {
	return &MongoStore{uri: uri, dbName: dbName}
}

// Connect establishes and verifies the MongoDB connection.
func (s *MongoStore) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}

	database := client.Database(s.dbName)
	s.client = client
	s.transcripts = database.Collection("user_transcripts")
	s.profiles = database.Collection("users_progress")
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// SaveTranscript inserts one transcript document.
func (s *MongoStore) SaveTranscript(ctx context.Context, rec *domain.TranscriptRecord) error {
	if _, err := s.transcripts.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert transcript: %w", err)
	}
	return nil
}

// HasTopic reports whether the user already has a transcript for the topic.
// Topics are projected out and compared case-insensitively client-side to
// match the behavior of the other backends.
func (s *MongoStore) HasTopic(ctx context.Context, userID, topic string) (bool, error) {
	cursor, err := s.transcripts.Find(ctx,
		bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"topic": 1, "_id": 0}))
	if err != nil {
		return false, fmt.Errorf("query transcripts: %w", err)
	}
	defer cursor.Close(ctx)

	want := strings.ToLower(topic)
	for cursor.Next(ctx) {
		var row struct {
			Topic string `bson:"topic"`
		}
		if err := cursor.Decode(&row); err != nil {
			continue
		}
		if strings.ToLower(row.Topic) == want {
			return true, nil
		}
	}
	if err := cursor.Err(); err != nil {
		return false, fmt.Errorf("cursor error: %w", err)
	}
	return false, nil
}

// AllTranscripts returns every stored transcript record. Only the
// replication command reads transcripts back; the pipeline itself is
// write-only on this collection.
func (s *MongoStore) AllTranscripts(ctx context.Context) ([]domain.TranscriptRecord, error) {
	cursor, err := s.transcripts.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find transcripts: %w", err)
	}
	defer cursor.Close(ctx)

	var out []domain.TranscriptRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode transcripts: %w", err)
	}
	return out, nil
}

// GetUserLevel reads the learner's proficiency level.
func (s *MongoStore) GetUserLevel(ctx context.Context, userID string) (string, error) {
	var row struct {
		Level string `bson:"level"`
	}
	err := s.profiles.FindOne(ctx, bson.M{"user_id": userID}).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query user level: %w", err)
	}
	return row.Level, nil
}
