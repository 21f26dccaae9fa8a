package embedding

import (
	"testing"

	"finn-mini/pkg/config"

	"go.uber.org/zap"
)

func TestNew_SelectsImplementation(t *testing.T) {
	t.Setenv("TEST_FACTORY_KEY", "k")
	cases := []struct {
		cfg  config.EmbedderConfig
		want string
	}{
		{config.EmbedderConfig{Type: "tfidf"}, "tfidf"},
		{config.EmbedderConfig{}, "tfidf"},
		{config.EmbedderConfig{Type: "ollama", Model: "nomic-embed-text"}, "nomic-embed-text"},
		{config.EmbedderConfig{Type: "openai", APIKeyEnv: "TEST_FACTORY_KEY", Model: "text-embedding-3-small"}, "text-embedding-3-small"},
	}
	for _, tc := range cases {
		e, err := New(&tc.cfg, zap.NewNop())
		if err != nil {
			t.Fatalf("New(%q) failed: %v", tc.cfg.Type, err)
		}
		if e.ModelName() != tc.want {
			t.Errorf("New(%q).ModelName() = %q, want %q", tc.cfg.Type, e.ModelName(), tc.want)
		}
	}
}

func TestNew_UnknownType(t *testing.T) {
	if _, err := New(&config.EmbedderConfig{Type: "word2vec"}, zap.NewNop()); err == nil {
		t.Error("expected error for unknown embedder type")
	}
}
