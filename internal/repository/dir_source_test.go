package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDirSource_ListDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "stress.md", "- Breathe")
	writeFile(t, dir, "hydration.MD", "Drink water.")
	writeFile(t, dir, "notes.txt", "ignored")
	if err := os.Mkdir(filepath.Join(dir, "nested.md"), 0o755); err != nil {
		t.Fatal(err)
	}

	docs, err := NewDirSource(dir, nil, zap.NewNop()).ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %+v", docs)
	}
	if docs[0].ID != "hydration.MD" || docs[1].ID != "stress.md" {
		t.Errorf("documents not sorted by name: %s, %s", docs[0].ID, docs[1].ID)
	}
	if docs[1].Text != "- Breathe" {
		t.Errorf("unexpected text %q", docs[1].Text)
	}
}

func TestDirSource_Extensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "b.txt", "b")

	docs, err := NewDirSource(dir, []string{".md", ".txt"}, zap.NewNop()).ListDocuments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Errorf("expected 2 documents, got %d", len(docs))
	}
}

func TestDirSource_EmptyDir(t *testing.T) {
	docs, err := NewDirSource(t.TempDir(), nil, zap.NewNop()).ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("empty dir should not error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no documents, got %d", len(docs))
	}
}

func TestDirSource_MissingDir(t *testing.T) {
	src := NewDirSource(filepath.Join(t.TempDir(), "missing"), nil, zap.NewNop())
	if _, err := src.ListDocuments(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestDirSource_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.md", "ok\xffok")

	docs, err := NewDirSource(dir, nil, zap.NewNop()).ListDocuments(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].Text != "okok" {
		t.Errorf("invalid bytes not dropped: %q", docs[0].Text)
	}
}
