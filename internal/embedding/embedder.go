package embedding

import (
	"context"
	"errors"
	"fmt"

	"finn-mini/pkg/config"

	"go.uber.org/zap"
)

var ErrNotPrepared = errors.New("embedder not prepared")

// Embedder turns text into fixed-length vectors. Implementations must be
// safe for concurrent Embed calls once constructed (and prepared).
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
	ModelName() string
}

// Preparer is implemented by embedders that fit themselves to the corpus
// before the corpus is embedded.
type Preparer interface {
	Prepare(corpus []string) error
}

// New selects an embedder implementation from configuration.
func New(cfg *config.EmbedderConfig, logger *zap.Logger) (Embedder, error) {
	switch cfg.Type {
	case "", "tfidf":
		return NewTFIDFEmbedder(), nil
	case "ollama":
		return NewOllamaEmbedder(cfg.BaseURL, cfg.Model, cfg.Timeout, logger), nil
	case "openai":
		return NewOpenAIEmbedder(OpenAIConfig{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Model:     cfg.Model,
			Timeout:   cfg.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown embedder type %q", cfg.Type)
	}
}
