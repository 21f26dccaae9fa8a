package service

import (
	"context"
	"errors"
	"sync"

	"finn-mini/internal/models"
)

type staticSource struct {
	docs []models.Document
	err  error
}

func (s *staticSource) ListDocuments(ctx context.Context) ([]models.Document, error) {
	return s.docs, s.err
}

// fakeEmbedder looks vectors up by exact text; unknown text maps to the
// zero vector of the configured dimension.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dim     int
	err     error
	calls   int
	// short makes Embed return one vector fewer than requested
	short bool
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v := make([]float32, f.dim)
		copy(v, f.vectors[t])
		out = append(out, v)
	}
	if f.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int    { return f.dim }
func (f *fakeEmbedder) ModelName() string { return "fake" }

var errEmbedderDown = errors.New("embedder down")
