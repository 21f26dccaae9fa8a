package service

import (
	"context"
	"fmt"
	"sort"

	"finn-mini/internal/embedding"
	"finn-mini/internal/models"
)

const (
	DefaultTopK     = 4
	DefaultMinScore = 0.2
)

type RetrieverOptions struct {
	TopK     int
	MinScore float64
	// FloorEnabled drops hits scoring at or below MinScore.
	FloorEnabled bool
}

// Retriever ranks knowledge base chunks by cosine similarity to a query.
type Retriever struct {
	kb       *KnowledgeBase
	embedder embedding.Embedder
	opts     RetrieverOptions
}

func NewRetriever(kb *KnowledgeBase, embedder embedding.Embedder, opts RetrieverOptions) *Retriever {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	return &Retriever{kb: kb, embedder: embedder, opts: opts}
}

// Retrieve returns at most k hits in non-increasing score order; k <= 0
// uses the configured TopK. Equal scores keep chunk order. An empty
// result is not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]models.Hit, error) {
	if k <= 0 {
		k = r.opts.TopK
	}

	vecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: %d embeddings for one query", ErrInconsistentIndex, len(vecs))
	}
	q := vecs[0]
	if len(q) != r.kb.Dimension() {
		return nil, fmt.Errorf("%w: query dimension %d, knowledge base dimension %d",
			ErrInconsistentIndex, len(q), r.kb.Dimension())
	}
	normalize(q)

	type scored struct {
		idx   int
		score float64
	}
	scores := make([]scored, r.kb.Len())
	for i := range scores {
		scores[i] = scored{idx: i, score: dot(q, r.kb.row(i))}
	}
	sort.SliceStable(scores, func(a, b int) bool {
		return scores[a].score > scores[b].score
	})

	if k > len(scores) {
		k = len(scores)
	}
	chunks := r.kb.chunks
	hits := make([]models.Hit, 0, k)
	for _, s := range scores[:k] {
		if r.opts.FloorEnabled && s.score <= r.opts.MinScore {
			// sorted, so nothing later can pass either
			break
		}
		c := chunks[s.idx]
		hits = append(hits, models.Hit{
			ChunkID: c.ID,
			Title:   c.Title,
			Text:    c.Text,
			Score:   s.score,
		})
	}
	return hits, nil
}
