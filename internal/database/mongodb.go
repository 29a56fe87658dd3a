package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectMongo opens a connection and returns the client. Caller should call client.Disconnect(ctx).
func ConnectMongo(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	clientOpts := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes the service relies on for
// consistency: bot usernames and tokens must be unique, and each
// (redditPostId, botId) pair may have at most one mirror record. These
// constraints close the check-then-act window between concurrent requests.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	botIdx := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := db.Collection("bots").Indexes().CreateMany(ctx, botIdx); err != nil {
		return fmt.Errorf("create bots indexes: %w", err)
	}

	mirrorIdx := mongo.IndexModel{
		Keys:    bson.D{{Key: "redditPostId", Value: 1}, {Key: "botId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := db.Collection("mirrors").Indexes().CreateOne(ctx, mirrorIdx); err != nil {
		return fmt.Errorf("create mirrors index: %w", err)
	}
	return nil
}
