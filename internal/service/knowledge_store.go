package service

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"finn-mini/internal/embedding"
	"finn-mini/internal/models"

	"go.uber.org/zap"
)

// normEpsilon keeps normalization of zero vectors finite.
const normEpsilon = 1e-12

// paragraphBreak is two or more consecutive newlines. A line holding only
// spaces stays inside its paragraph.
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// DocumentSource lists the raw knowledge base documents.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]models.Document, error)
}

// KnowledgeBase holds chunks and their unit-length embeddings. Row i of
// the matrix belongs to chunk i. It is never mutated after LoadKnowledgeBase.
type KnowledgeBase struct {
	chunks    []models.Chunk
	matrix    [][]float32
	dimension int
	modelName string
}

// Chunks returns a copy of the chunk list.
func (kb *KnowledgeBase) Chunks() []models.Chunk { return slices.Clone(kb.chunks) }
func (kb *KnowledgeBase) Len() int { return len(kb.chunks) }
func (kb *KnowledgeBase) Dimension() int { return kb.dimension }
func (kb *KnowledgeBase) ModelName() string { return kb.modelName }

func (kb *KnowledgeBase) row(i int) []float32 { return kb.matrix[i] }

// SplitDocument cuts a document into trimmed, non-empty paragraphs with
// dense 0-based ordinals.
func SplitDocument(doc models.Document) []models.Chunk {
	text := strings.ReplaceAll(doc.Text, "\r\n", "\n")
	title := doc.Title
	if title == "" {
		title = TitleFromName(doc.ID)
	}

	var chunks []models.Chunk
	for _, part := range paragraphBreak.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ordinal := len(chunks)
		chunks = append(chunks, models.Chunk{
			ID:         doc.ID + "#" + strconv.Itoa(ordinal),
			DocumentID: doc.ID,
			Ordinal:    ordinal,
			Title:      title,
			Text:       part,
		})
	}
	return chunks
}

// TitleFromName derives a display title from a file name:
// "sleep_hygiene.md" becomes "Sleep Hygiene".
func TitleFromName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || unicode.IsSpace(r)
	})
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// LoadKnowledgeBase reads every document, chunks it and embeds all chunks
// in one batch. An empty source is an ErrConfiguration.
func LoadKnowledgeBase(ctx context.Context, source DocumentSource, embedder embedding.Embedder, logger *zap.Logger) (*KnowledgeBase, error) {
	docs, err := source.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list documents: %w", ErrConfiguration, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no knowledge base documents found", ErrConfiguration)
	}

	var chunks []models.Chunk
	for _, doc := range docs {
		docChunks := SplitDocument(doc)
		if len(docChunks) == 0 {
			logger.Warn("Document has no content, skipping", zap.String("document", doc.ID))
		}
		chunks = append(chunks, docChunks...)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: knowledge base documents contain no text", ErrConfiguration)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	if p, ok := embedder.(embedding.Preparer); ok {
		if err := p.Prepare(texts); err != nil {
			return nil, fmt.Errorf("%w: failed to prepare embedder: %w", ErrConfiguration, err)
		}
	}

	matrix, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed knowledge base: %w", err)
	}
	if len(matrix) != len(chunks) {
		return nil, fmt.Errorf("%w: %d embeddings for %d chunks", ErrInconsistentIndex, len(matrix), len(chunks))
	}

	dim := len(matrix[0])
	if dim == 0 {
		return nil, fmt.Errorf("%w: embedder returned empty vectors", ErrInconsistentIndex)
	}
	for i, row := range matrix {
		if len(row) != dim {
			return nil, fmt.Errorf("%w: row %d has dimension %d, want %d", ErrInconsistentIndex, i, len(row), dim)
		}
		normalize(row)
	}

	logger.Info("Knowledge base loaded",
		zap.Int("documents", len(docs)),
		zap.Int("chunks", len(chunks)),
		zap.String("emb_model", embedder.ModelName()),
		zap.Int("emb_dim", dim),
	)

	return &KnowledgeBase{
		chunks:    chunks,
		matrix:    matrix,
		dimension: dim,
		modelName: embedder.ModelName(),
	}, nil
}

// normalize scales v in place to unit length.
func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum) + normEpsilon
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}

// dot accumulates in float64 to keep scores stable across runs.
func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
