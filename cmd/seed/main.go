package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"

	"finn-mini/internal/repository"
	"finn-mini/pkg/config"
	"finn-mini/pkg/logger"
	"finn-mini/pkg/postgres"

	"go.uber.org/zap"
)

// seed copies knowledge base files into Postgres for KB_SOURCE=postgres.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dir := flag.String("dir", cfg.Knowledge.Dir, "directory with knowledge base documents")
	cacheFile := flag.String("cache", "", "seed cache file (default <dir>/.seed_cache.json)")
	prune := flag.Bool("prune", false, "delete stored documents whose file is gone from -dir")
	flag.Parse()
	if *cacheFile == "" {
		*cacheFile = filepath.Join(*dir, ".seed_cache.json")
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	docRepo := repository.NewDocumentRepository(db, appLogger)
	if err := docRepo.EnsureSchema(ctx); err != nil {
		appLogger.Fatal("Failed to prepare schema", zap.Error(err))
	}

	appLogger.Info("Starting knowledge base seeding...", zap.String("dir", *dir))

	source := repository.NewDirSource(*dir, cfg.Knowledge.Extensions, appLogger)
	stats, err := seedDocuments(ctx, source, docRepo, *cacheFile, *prune, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed knowledge base", zap.Error(err))
	}

	appLogger.Info("Knowledge base seeding completed",
		zap.Int("upserted", stats.Upserted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("failed", stats.Failed),
		zap.Int("pruned", stats.Pruned),
	)
}
