package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestOpenAI(t *testing.T, url string) *OpenAIEmbedder {
	t.Helper()
	t.Setenv("TEST_EMBED_KEY", "secret")
	e, err := NewOpenAIEmbedder(OpenAIConfig{BaseURL: url, APIKeyEnv: "TEST_EMBED_KEY", Model: "m"}, zap.NewNop())
	if err != nil {
		t.Fatalf("constructor failed: %v", err)
	}
	e.baseDelay = time.Millisecond
	return e
}

func TestOpenAIEmbedder_MissingKey(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY_MISSING", "")
	if _, err := NewOpenAIEmbedder(OpenAIConfig{APIKeyEnv: "TEST_EMBED_KEY_MISSING"}, zap.NewNop()); err == nil {
		t.Error("expected error without API key")
	}
}

func TestOpenAIEmbedder_BatchOrderedByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("unexpected auth header: %q", got)
		}
		var req openAIRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Input) != 2 {
			t.Errorf("expected batch of 2, got %d", len(req.Input))
		}
		// out of order on purpose
		w.Write([]byte(`{"data":[{"index":1,"embedding":[0,1]},{"index":0,"embedding":[1,0]}]}`))
	}))
	defer server.Close()

	e := newTestOpenAI(t, server.URL)
	vecs, err := e.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Errorf("vectors not ordered by index: %v", vecs)
	}
	if e.Dimension() != 2 {
		t.Errorf("expected dimension 2, got %d", e.Dimension())
	}
}

func TestOpenAIEmbedder_RetriesOn429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data":[{"index":0,"embedding":[0.5]}]}`))
	}))
	defer server.Close()

	e := newTestOpenAI(t, server.URL)
	if _, err := e.Embed(context.Background(), []string{"x"}); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
}

func TestOpenAIEmbedder_NoRetryOn400(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	e := newTestOpenAI(t, server.URL)
	if _, err := e.Embed(context.Background(), []string{"x"}); err == nil {
		t.Fatal("expected error on 400")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 call, got %d", got)
	}
}

func TestOpenAIEmbedder_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"index":0,"embedding":[1]}]}`))
	}))
	defer server.Close()

	e := newTestOpenAI(t, server.URL)
	if _, err := e.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Error("expected error when fewer embeddings than inputs")
	}
}
