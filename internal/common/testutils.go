package common

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

// TestDB starts a throwaway MongoDB container and returns a database with the
// indexes in place. The container is terminated when the test finishes.
func TestDB(t *testing.T) *mongo.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container backed test in short mode")
	}

	ctx := context.Background()

	c, err := mongodb.Run(ctx,
		"mongo:7.0.12",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Waiting for connections").WithStartupTimeout(60*time.Second)))
	if err != nil {
		t.Fatalf("could not start mongodb container: %v", err)
	}

	connURL, err := c.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	db, err := NewDB(connURL, "bloglist_test", 10, 5*time.Minute)
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}

	if err := SetupIndexes(ctx, db); err != nil {
		t.Fatalf("could not create indexes: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = CloseDB(db)
		_ = c.Terminate(ctx)
	})

	return db
}
