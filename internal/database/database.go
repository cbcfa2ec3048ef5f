package database

import (
	"context"
	"fmt"
	"time"

	"github.com/askelund/routine-manager/internal/config"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB establishes the MongoDB connection and bootstraps the indexes
// the application relies on.
func ConnectDB(cfg *config.Config) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %v", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %v", err)
	}

	db := client.Database(cfg.DBName)

	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	logrus.WithField("database", cfg.DBName).Info("Connected to MongoDB")
	return db, nil
}

// ensureIndexes creates the unique indexes the application depends on for
// correctness. Read records and task completions rely on the unique pair
// index to stay idempotent: the second insert for the same pair is rejected
// by the store and swallowed by the repository.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string]mongo.IndexModel{
		"users": {
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: unique,
		},
		"announcements_read": {
			Keys:    bson.D{{Key: "announcement_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: unique,
		},
		"routine_notifications_read": {
			Keys:    bson.D{{Key: "notification_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: unique,
		},
		"task_completions": {
			Keys:    bson.D{{Key: "routine_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "shift_date", Value: 1}},
			Options: unique,
		},
	}

	for collection, model := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %v", collection, err)
		}
	}

	return nil
}
