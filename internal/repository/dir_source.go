package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"finn-mini/internal/models"

	"go.uber.org/zap"
)

// DirSource reads knowledge base documents from files in one directory.
// Subdirectories are not scanned.
type DirSource struct {
	dir        string
	extensions []string
	logger     *zap.Logger
}

func NewDirSource(dir string, extensions []string, logger *zap.Logger) *DirSource {
	if len(extensions) == 0 {
		extensions = []string{".md"}
	}
	return &DirSource{dir: dir, extensions: extensions, logger: logger}
}

// ListDocuments returns matching files sorted by name. A missing
// directory is an error; an empty one is not.
func (s *DirSource) ListDocuments(ctx context.Context) ([]models.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base directory %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !s.matches(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]models.Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		docs = append(docs, models.Document{ID: name, Text: sanitizeUTF8(string(data))})
	}

	s.logger.Info("Knowledge base documents discovered",
		zap.String("dir", s.dir),
		zap.Int("documents", len(docs)),
	)
	return docs, nil
}

func (s *DirSource) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range s.extensions {
		if ext == strings.ToLower(want) {
			return true
		}
	}
	return false
}
