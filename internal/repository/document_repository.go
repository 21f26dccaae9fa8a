package repository

import (
	"context"
	"fmt"
	"time"

	"finn-mini/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const documentsTable = "kb_documents"

const createDocumentsTable = `CREATE TABLE IF NOT EXISTS kb_documents (
	id           UUID PRIMARY KEY,
	name         TEXT NOT NULL UNIQUE,
	content      TEXT NOT NULL,
	content_hash TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
)`

// DocumentRepository stores raw knowledge base documents in Postgres.
// It also serves as a DocumentSource when KB_SOURCE=postgres.
type DocumentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewDocumentRepository(db *pgxpool.Pool, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createDocumentsTable); err != nil {
		return fmt.Errorf("failed to create %s table: %w", documentsTable, err)
	}
	return nil
}

// Upsert inserts doc or replaces the content of the row with the same name.
func (r *DocumentRepository) Upsert(ctx context.Context, doc *models.StoredDocument) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now
	doc.Content = sanitizeUTF8(doc.Content)

	sql, args, err := upsertQuery(doc).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *DocumentRepository) List(ctx context.Context) ([]*models.StoredDocument, error) {
	sql, args, err := listQuery().ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.StoredDocument
	for rows.Next() {
		var doc models.StoredDocument
		if err := rows.Scan(
			&doc.ID, &doc.Name, &doc.Content, &doc.ContentHash, &doc.CreatedAt, &doc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// ListDocuments implements service.DocumentSource.
func (r *DocumentRepository) ListDocuments(ctx context.Context) ([]models.Document, error) {
	stored, err := r.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list stored documents: %w", err)
	}
	docs := make([]models.Document, len(stored))
	for i, s := range stored {
		docs[i] = models.Document{ID: s.Name, Text: s.Content}
	}
	r.logger.Info("Knowledge base documents loaded from database", zap.Int("documents", len(docs)))
	return docs, nil
}

func (r *DocumentRepository) DeleteByName(ctx context.Context, name string) error {
	sql, args, err := deleteQuery(name).ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func listQuery() squirrel.SelectBuilder {
	return squirrel.Select("id", "name", "content", "content_hash", "created_at", "updated_at").
		From(documentsTable).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar)
}

func upsertQuery(doc *models.StoredDocument) squirrel.InsertBuilder {
	return squirrel.Insert(documentsTable).
		Columns("id", "name", "content", "content_hash", "created_at", "updated_at").
		Values(doc.ID, doc.Name, doc.Content, doc.ContentHash, doc.CreatedAt, doc.UpdatedAt).
		Suffix("ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, " +
			"content_hash = EXCLUDED.content_hash, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar)
}

func deleteQuery(name string) squirrel.DeleteBuilder {
	return squirrel.Delete(documentsTable).
		Where(squirrel.Eq{"name": name}).
		PlaceholderFormat(squirrel.Dollar)
}
