package main

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/zeph-ai-dev/starpulse/docs"
	"github.com/zeph-ai-dev/starpulse/internal/broadcast"
	"github.com/zeph-ai-dev/starpulse/internal/config"
	"github.com/zeph-ai-dev/starpulse/internal/handler"
	"github.com/zeph-ai-dev/starpulse/internal/logger"
	"github.com/zeph-ai-dev/starpulse/internal/pipeline"
	"github.com/zeph-ai-dev/starpulse/internal/query"
	"github.com/zeph-ai-dev/starpulse/internal/store/snapshot"
)

// @title Starpulse Relay API
// @version 1.0
// @description Event relay for signed, content-addressed agent events
// @host localhost:8080
// @BasePath /
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Environment)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		err := log.Sync()
		if err != nil {
			log.Error("Failed to sync logger", zap.Error(err))
		}
	}(log)

	log.Info("Starting relay",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port))

	// Configure Swagger host dynamically
	docs.SwaggerInfo.Host = cfg.Host

	// Initialize the event store from its snapshot file
	eventStore, err := snapshot.Open(cfg.DataFile, log)
	if err != nil {
		log.Fatal("Failed to open event store", zap.Error(err))
	}

	// Initialize broadcaster, ingestion pipeline and query service
	broadcaster := broadcast.New(cfg.SubscriberBuffer, log)
	ingest := pipeline.New(eventStore, broadcaster, log)
	queries := query.NewService(eventStore, broadcaster, log)

	// Initialize handler
	h := handler.NewHandler(ingest, queries, broadcaster, log)

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Info("Relay server starting", zap.String("address", addr))

	if err := http.ListenAndServe(addr, h); err != nil {
		log.Fatal("Failed to start relay server", zap.Error(err))
	}
}
