package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections holding one document per user.
const (
	PreferencesCollection = "preferences"
	CartsCollection       = "carts"
	PantriesCollection    = "pantries"
)

// NewMongo connects to MongoDB, pings it and returns the named database.
func NewMongo(ctx context.Context, uri, name string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(name), nil
}

// EnsureIndexes creates the unique userId index on every per-user collection.
// The pantry duplicate-item check relies on it.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	for _, name := range []string{PreferencesCollection, CartsCollection, PantriesCollection} {
		_, err := database.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("userId_unique"),
		})
		if err != nil {
			return fmt.Errorf("create index on %s: %w", name, err)
		}
	}
	return nil
}
