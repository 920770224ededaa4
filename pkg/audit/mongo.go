package audit

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CollectionUserActions  = "user_actions"
	CollectionServerErrors = "server_errors"
)

// MongoSink stores events in MongoDB, one collection per event type.
type MongoSink struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoSink connects to the MongoDB deployment at uri and verifies the
// connection.
func NewMongoSink(ctx context.Context, uri, database string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoSink{client: client, db: client.Database(database)}, nil
}

// Record inserts e into the collection for its type.
func (s *MongoSink) Record(ctx context.Context, e Event) error {
	if _, err := s.db.Collection(collectionFor(e)).InsertOne(ctx, e); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSink) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func collectionFor(e Event) string {
	if e.Type == TypeServerError {
		return CollectionServerErrors
	}
	return CollectionUserActions
}

var _ Sink = (*MongoSink)(nil)
