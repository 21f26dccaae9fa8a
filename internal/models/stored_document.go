package models

import (
	"time"

	"github.com/google/uuid"
)

// StoredDocument is a knowledge base document persisted in Postgres.
// Only raw text is stored; embeddings are rebuilt on every start.
type StoredDocument struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Content     string    `db:"content"`
	ContentHash string    `db:"content_hash"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
