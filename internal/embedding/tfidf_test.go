package embedding

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestTFIDF_EmbedBeforePrepare(t *testing.T) {
	e := NewTFIDFEmbedder()
	if _, err := e.Embed(context.Background(), []string{"sleep"}); !errors.Is(err, ErrNotPrepared) {
		t.Errorf("expected ErrNotPrepared, got %v", err)
	}
}

func TestTFIDF_PrepareEmptyCorpus(t *testing.T) {
	if err := NewTFIDFEmbedder().Prepare(nil); err == nil {
		t.Error("expected error for empty corpus")
	}
	if err := NewTFIDFEmbedder().Prepare([]string{"the and of"}); err == nil {
		t.Error("expected error for stopword-only corpus")
	}
}

func TestTFIDF_VectorsAreUnitLength(t *testing.T) {
	e := NewTFIDFEmbedder()
	corpus := []string{"Drink water through the day", "Keep a consistent sleep schedule"}
	if err := e.Prepare(corpus); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}

	vecs, err := e.Embed(context.Background(), corpus)
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != e.Dimension() {
			t.Errorf("vector %d: expected dim %d, got %d", i, e.Dimension(), len(v))
		}
		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
			t.Errorf("vector %d: expected unit norm, got %f", i, math.Sqrt(sum))
		}
	}
}

func TestTFIDF_UnknownTokensGiveZeroVector(t *testing.T) {
	e := NewTFIDFEmbedder()
	if err := e.Prepare([]string{"sleep schedule"}); err != nil {
		t.Fatal(err)
	}
	vecs, err := e.Embed(context.Background(), []string{"quantum chromodynamics"})
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range vecs[0] {
		if x != 0 {
			t.Fatalf("expected zero vector, got %v", vecs[0])
		}
	}
}

func TestTFIDF_Deterministic(t *testing.T) {
	corpus := []string{"stress breathing walk", "hydration water"}
	a, b := NewTFIDFEmbedder(), NewTFIDFEmbedder()
	_ = a.Prepare(corpus)
	_ = b.Prepare(corpus)

	va, _ := a.Embed(context.Background(), []string{"breathing water"})
	vb, _ := b.Embed(context.Background(), []string{"breathing water"})
	for i := range va[0] {
		if va[0][i] != vb[0][i] {
			t.Fatalf("embeddings differ at %d: %v vs %v", i, va[0], vb[0])
		}
	}
}
