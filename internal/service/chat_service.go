package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finn-mini/internal/models"

	"go.uber.org/zap"
)

const (
	CrisisReply     = "If you're in immediate danger call local emergency services. In the U.S., call or text 988."
	OutOfScopeReply = "I can share general wellness tips, but I can’t diagnose or give dosing advice. Please consult a clinician."
	NoMatchReply    = "I may not have notes on that yet. Try sleep, stress, or hydration topics."
)

// HitRetriever is the retrieval step of the chat pipeline.
type HitRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]models.Hit, error)
}

// KnowledgeStats describes the loaded knowledge base for health checks.
type KnowledgeStats struct {
	Chunks    int
	ModelName string
	Dimension int
}

type ChatService struct {
	classifier *SafetyClassifier
	retriever  HitRetriever
	composer   *ReplyComposer
	stats      KnowledgeStats
	logger     *zap.Logger
}

func NewChatService(
	kb *KnowledgeBase,
	classifier *SafetyClassifier,
	retriever HitRetriever,
	composer *ReplyComposer,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		classifier: classifier,
		retriever:  retriever,
		composer:   composer,
		stats: KnowledgeStats{
			Chunks:    kb.Len(),
			ModelName: kb.ModelName(),
			Dimension: kb.Dimension(),
		},
		logger: logger,
	}
}

func (s *ChatService) Stats() KnowledgeStats {
	return s.stats
}

// Chat runs one message through safety, retrieval and composition.
// A crisis or out-of-scope verdict returns before retrieval.
func (s *ChatService) Chat(ctx context.Context, message string) (*models.ChatResponse, error) {
	start := time.Now()
	q := strings.TrimSpace(message)
	if q == "" {
		return nil, ErrEmptyMessage
	}
	s.logger.Debug("Chat message received", zap.String("message", q))

	verdict := s.classifier.Classify(q)
	switch verdict {
	case models.SafetyVerdictCrisis:
		s.logOutcome(verdict, 0, start)
		return &models.ChatResponse{
			Reply:     CrisisReply,
			Citations: []models.Citation{},
			Safety:    models.SafetyFlags{Crisis: true},
		}, nil
	case models.SafetyVerdictOutOfScope:
		s.logOutcome(verdict, 0, start)
		return &models.ChatResponse{
			Reply:     OutOfScopeReply,
			Citations: []models.Citation{},
			Safety:    models.SafetyFlags{OutOfScope: true},
		}, nil
	}

	hits, err := s.retriever.Retrieve(ctx, q, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve knowledge: %w", err)
	}
	s.logOutcome(verdict, len(hits), start)

	if len(hits) == 0 {
		return &models.ChatResponse{
			Reply:     NoMatchReply,
			Citations: []models.Citation{},
		}, nil
	}

	resp := s.composer.Compose(hits)
	if len(resp.Citations) == 0 {
		// every hit was blank text
		return &models.ChatResponse{
			Reply:     NoMatchReply,
			Citations: []models.Citation{},
		}, nil
	}
	return &resp, nil
}

func (s *ChatService) logOutcome(verdict models.SafetyVerdict, hits int, start time.Time) {
	s.logger.Info("Chat completed",
		zap.String("verdict", string(verdict)),
		zap.Int("hits", hits),
		zap.Duration("latency", time.Since(start)),
	)
}
