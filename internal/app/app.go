package app

import (
	"context"
	"fmt"

	"finn-mini/internal/embedding"
	"finn-mini/internal/repository"
	"finn-mini/internal/service"
	"finn-mini/pkg/config"
	"finn-mini/pkg/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App is the assembled chat pipeline shared by the server and the TUI.
type App struct {
	KB   *service.KnowledgeBase
	Chat *service.ChatService
	db   *pgxpool.Pool
}

// Build loads the knowledge base and wires the pipeline. Errors wrapping
// service.ErrConfiguration mean the process must not start.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{}

	source, err := a.documentSource(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	emb, err := embedding.New(&cfg.Embedder, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("%w: %w", service.ErrConfiguration, err)
	}

	kb, err := service.LoadKnowledgeBase(ctx, source, emb, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	retriever := service.NewRetriever(kb, emb, service.RetrieverOptions{
		TopK:         cfg.RAG.TopK,
		MinScore:     cfg.RAG.MinScore,
		FloorEnabled: cfg.RAG.FloorEnabled,
	})
	composer := service.NewReplyComposer(service.ComposerOptions{
		MaxTips:     cfg.RAG.MaxTips,
		ExtractTips: cfg.RAG.ExtractTips,
	})
	classifier := service.NewSafetyClassifier(cfg.Safety.ExtraCrisisTerms, cfg.Safety.ExtraOutOfScopeTerms)

	a.KB = kb
	a.Chat = service.NewChatService(kb, classifier, retriever, composer, logger)
	return a, nil
}

func (a *App) documentSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.DocumentSource, error) {
	switch cfg.Knowledge.Source {
	case "", "dir":
		return repository.NewDirSource(cfg.Knowledge.Dir, cfg.Knowledge.Extensions, logger), nil
	case "postgres":
		db, err := postgres.NewPool(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", service.ErrConfiguration, err)
		}
		a.db = db
		return repository.NewDocumentRepository(db, logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown KB_SOURCE %q", service.ErrConfiguration, cfg.Knowledge.Source)
	}
}

// Close releases the database pool, if one was opened. The knowledge base
// itself needs no cleanup.
func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}
