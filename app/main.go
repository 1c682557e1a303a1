package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
	"go.mongodb.org/mongo-driver/mongo"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	db          *mongo.Database
	userService *userservice.UserService
	blogService *blogservice.BlogService
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger = newLogger(cfg.Environment)

	db, err := common.NewDB(cfg.MongoURI, cfg.MongoDatabase, 100, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := common.CloseDB(db); err != nil {
			logger.Error("failed to close the database", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = common.SetupIndexes(ctx, db)
	cancel()
	if err != nil {
		logger.Error("failed to create indexes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("connected to the database", slog.String("database", cfg.MongoDatabase))

	app := newApplication(cfg, logger, db)

	err = app.serve()
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newApplication(cfg *Config, logger *slog.Logger, db *mongo.Database) *application {
	users := userservice.NewUserService(db, cfg.Secret, cfg.TokenTTL)

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		userService: users,
		blogService: blogservice.NewBlogService(db, users),
	}
}

// newLogger writes JSON in production and text everywhere else.
func newLogger(env string) *slog.Logger {
	if env == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
