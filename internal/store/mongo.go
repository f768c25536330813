package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/RandomEdge999/RedSubContinent/internal/model"
)

// MongoSink upserts cleaned records into a MongoDB collection keyed by slug
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewMongoSink connects, pings, and ensures the slug index
func NewMongoSink(ctx context.Context, cfg model.StoreConfig, logger *zap.Logger) (*MongoSink, error) {
	if cfg.MongoURI == "" {
		return nil, errors.New("mongo uri is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoSink{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
		logger:     logger,
	}

	if err := s.createIndexes(connectCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoSink) createIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "conflict_type", Value: 1}}},
		{Keys: bson.D{{Key: "start_date", Value: 1}}},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (s *MongoSink) Name() string { return "mongo:" + s.collection.Name() }

// Write upserts every record. Re-running with the same records leaves the
// collection unchanged.
func (s *MongoSink) Write(ctx context.Context, records []model.CleanedRecord) error {
	if len(records) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(records))
	for i := range records {
		doc := toDocument(&records[i])
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"slug": doc.Slug}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	res, err := s.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("bulk upsert: %w", err)
	}

	s.logger.Info("store: mongo upsert complete",
		zap.Int64("inserted", res.UpsertedCount),
		zap.Int64("modified", res.ModifiedCount),
		zap.Int64("matched", res.MatchedCount))
	return nil
}

// Close disconnects the client
func (s *MongoSink) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
