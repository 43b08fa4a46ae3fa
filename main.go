// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"kino-tickets/cmd"
	"kino-tickets/internal/data/repository"
	"kino-tickets/internal/upstream"
	"kino-tickets/internal/wire"
	"kino-tickets/pkg/broker"
	"kino-tickets/pkg/cache"
	"kino-tickets/pkg/database"
	"kino-tickets/pkg/i18n"
	"kino-tickets/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("upstream", config.Upstream.BaseURL),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = database.EnsureSchema(schemaCtx, db)
	cancel()
	if err != nil {
		logger.Fatal("Failed to prepare schema", zap.Error(err))
	}

	logger.Info("Database connected successfully")

	// Redis opsional, tanpa redis selection disimpan di memori proses
	var rdb *redis.Client
	if config.Redis.Addr != "" {
		rdb, err = cache.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		logger.Info("Redis connected successfully", zap.String("addr", config.Redis.Addr))
	} else {
		logger.Warn("REDIS_ADDR not set, selections are kept in memory")
	}

	// Broker untuk event tiket
	var publisher broker.Publisher = broker.NopPublisher{}
	if config.Broker.URL != "" {
		amqpPublisher, err := broker.NewAMQPPublisher(config.Broker.URL, config.Broker.Queue, logger)
		if err != nil {
			logger.Fatal("Failed to connect to broker", zap.Error(err))
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
		logger.Info("Broker connected successfully", zap.String("queue", config.Broker.Queue))
	}

	translator, err := i18n.New(config.App.DefaultLocale)
	if err != nil {
		logger.Fatal("Failed to load translations", zap.Error(err))
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, rdb, logger)

	backend := upstream.NewClient(config.Upstream, &http.Client{}, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, backend, publisher, translator, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
