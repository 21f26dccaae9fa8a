package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finn-mini/internal/api/handlers"
	"finn-mini/internal/embedding"
	"finn-mini/internal/models"
	"finn-mini/internal/service"
	"finn-mini/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type memSource []models.Document

func (m memSource) ListDocuments(ctx context.Context) ([]models.Document, error) {
	return m, nil
}

func newTestApp(t *testing.T, jwt *auth.JWTManager) *fiber.App {
	t.Helper()
	logger := zap.NewNop()
	emb := embedding.NewTFIDFEmbedder()
	kb, err := service.LoadKnowledgeBase(context.Background(), memSource{
		{ID: "sleep.md", Text: "- Keep a consistent sleep schedule\n- Avoid screens before bed"},
	}, emb, logger)
	if err != nil {
		t.Fatal(err)
	}
	chat := service.NewChatService(kb,
		service.NewSafetyClassifier(nil, nil),
		service.NewRetriever(kb, emb, service.RetrieverOptions{MinScore: 0.2, FloorEnabled: true}),
		service.NewReplyComposer(service.ComposerOptions{ExtractTips: true}),
		logger,
	)
	return SetupRouter(
		nil,
		handlers.NewChatHandler(chat, time.Second, logger),
		handlers.NewHealthHandler(chat),
		jwt,
		logger,
	)
}

func chatRequest(token string) *http.Request {
	req := httptest.NewRequest("POST", "/chat", strings.NewReader(`{"message":"how can I sleep better"}`))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRouter_OpenChat(t *testing.T) {
	app := newTestApp(t, nil)

	resp, err := app.Test(chatRequest(""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("missing request id header")
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}

func TestRouter_ProtectedChat(t *testing.T) {
	jwt := auth.NewJWTManager("secret", time.Hour)
	app := newTestApp(t, jwt)

	resp, err := app.Test(chatRequest(""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status without token = %d", resp.StatusCode)
	}

	token, _ := jwt.GenerateToken("tui")
	resp, err = app.Test(chatRequest(token))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status with token = %d", resp.StatusCode)
	}

	// health stays public
	resp, err = app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	app := newTestApp(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/nope", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
