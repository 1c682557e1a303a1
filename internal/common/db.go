package common

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	BlogsCollection = "blogs"
	UsersCollection = "users"
)

func NewDB(uri, name string, maxPoolSize uint64, maxIdleTime time.Duration) (*mongo.Database, error) {
	client, err := connectDB(uri, maxPoolSize, maxIdleTime)
	if err != nil {
		return nil, err
	}

	return client.Database(name), nil
}

// connectDB connects to the database and returns the client once the primary answers a ping
func connectDB(uri string, maxPoolSize uint64, maxIdleTime time.Duration) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMaxConnIdleTime(maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return client, nil
}

// PingDB reports whether the primary is reachable.
func PingDB(ctx context.Context, db *mongo.Database) error {
	return db.Client().Ping(ctx, readpref.Primary())
}

// CloseDB closes the database connection
func CloseDB(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return db.Client().Disconnect(ctx)
}

// SetupIndexes creates the indexes the services rely on. Usernames are unique,
// and blogs are looked up by owner.
func SetupIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("could not create username index: %w", err)
	}

	_, err = db.Collection(BlogsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("could not create blog owner index: %w", err)
	}

	return nil
}
