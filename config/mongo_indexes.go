package config

import (
	"context"
	"time"

	mongorepo "github.com/yoockh/yoojob/internal/repositories/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureMongoIndexes creates the timeline indexes. Creating an existing index
// is a no-op.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	events := db.Collection(mongorepo.EventsCollection)
	_, err := events.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "application_id", Value: 1}, {Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("by_application_ts"),
		},
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("by_job_ts"),
		},
	})
	return err
}
