package main

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"finn-mini/internal/models"
	"finn-mini/internal/service"

	"go.uber.org/zap"
)

type documentStore interface {
	Upsert(ctx context.Context, doc *models.StoredDocument) error
	List(ctx context.Context) ([]*models.StoredDocument, error)
	DeleteByName(ctx context.Context, name string) error
}

// SeededFile is one document recorded in the seed cache.
type SeededFile struct {
	Name     string    `json:"name"`
	Hash     string    `json:"hash"`
	SeededAt time.Time `json:"seeded_at"`
}

// CacheData maps document names to the content hash last written.
type CacheData struct {
	SeededFiles map[string]SeededFile `json:"seeded_files"`
}

type seedStats struct {
	Upserted int
	Skipped  int
	Failed   int
	Pruned   int
}

func loadCache(cacheFile string) (*CacheData, error) {
	cache := &CacheData{SeededFiles: make(map[string]SeededFile)}

	data, err := os.ReadFile(cacheFile)
	if os.IsNotExist(err) {
		return cache, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}
	if len(data) == 0 {
		return cache, nil
	}
	if err := json.Unmarshal(data, cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	if cache.SeededFiles == nil {
		cache.SeededFiles = make(map[string]SeededFile)
	}
	return cache, nil
}

func saveCache(cacheFile string, cache *CacheData) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(cacheFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func contentHash(text string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(text)))
}

// seedDocuments upserts every document whose content changed since the
// last run. One failed document does not stop the others. With prune set,
// stored documents missing from source are deleted.
func seedDocuments(
	ctx context.Context,
	source service.DocumentSource,
	store documentStore,
	cacheFile string,
	prune bool,
	logger *zap.Logger,
) (seedStats, error) {
	var stats seedStats

	cache, err := loadCache(cacheFile)
	if err != nil {
		logger.Warn("Failed to load cache, will seed all files", zap.Error(err))
		cache = &CacheData{SeededFiles: make(map[string]SeededFile)}
	}

	docs, err := source.ListDocuments(ctx)
	if err != nil {
		return stats, err
	}
	if len(docs) == 0 {
		return stats, fmt.Errorf("%w: no documents to seed", service.ErrConfiguration)
	}

	now := time.Now()
	for _, doc := range docs {
		hash := contentHash(doc.Text)
		if cached, ok := cache.SeededFiles[doc.ID]; ok && cached.Hash == hash {
			logger.Info("Document unchanged, skipping",
				zap.String("name", doc.ID),
				zap.Time("seeded_at", cached.SeededAt),
			)
			stats.Skipped++
			continue
		}

		if err := store.Upsert(ctx, &models.StoredDocument{
			Name:        doc.ID,
			Content:     doc.Text,
			ContentHash: hash,
		}); err != nil {
			logger.Error("Failed to upsert document", zap.String("name", doc.ID), zap.Error(err))
			stats.Failed++
			continue
		}

		logger.Info("Seeded document",
			zap.String("name", doc.ID),
			zap.String("title", service.TitleFromName(doc.ID)),
			zap.Int("chunks", len(service.SplitDocument(doc))),
		)
		cache.SeededFiles[doc.ID] = SeededFile{Name: doc.ID, Hash: hash, SeededAt: now}
		stats.Upserted++
	}

	if prune {
		pruned, err := pruneDocuments(ctx, docs, store, cache, logger)
		stats.Pruned = pruned
		if err != nil {
			logger.Warn("Failed to prune stored documents", zap.Error(err))
		}
	}

	if err := saveCache(cacheFile, cache); err != nil {
		logger.Warn("Failed to save cache", zap.Error(err))
	}
	return stats, nil
}

func pruneDocuments(
	ctx context.Context,
	docs []models.Document,
	store documentStore,
	cache *CacheData,
	logger *zap.Logger,
) (int, error) {
	present := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		present[doc.ID] = struct{}{}
	}

	stored, err := store.List(ctx)
	if err != nil {
		return 0, err
	}

	pruned := 0
	for _, doc := range stored {
		if _, ok := present[doc.Name]; ok {
			continue
		}
		if err := store.DeleteByName(ctx, doc.Name); err != nil {
			logger.Error("Failed to delete stored document", zap.String("name", doc.Name), zap.Error(err))
			continue
		}
		delete(cache.SeededFiles, doc.Name)
		logger.Info("Pruned document", zap.String("name", doc.Name))
		pruned++
	}
	return pruned, nil
}
