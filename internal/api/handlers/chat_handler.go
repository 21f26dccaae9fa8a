package handlers

import (
	"context"
	"errors"
	"time"

	"finn-mini/internal/dto"
	"finn-mini/internal/models"
	"finn-mini/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ChatService is the pipeline behind POST /chat.
type ChatService interface {
	Chat(ctx context.Context, message string) (*models.ChatResponse, error)
}

type ChatHandler struct {
	chatService ChatService
	timeout     time.Duration
	logger      *zap.Logger
}

func NewChatHandler(chatService ChatService, timeout time.Duration, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		timeout:     timeout,
		logger:      logger,
	}
}

// Chat godoc
// @Summary Ask for wellness tips
// @Description Runs the message through safety checks, retrieval and reply composition
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat message"
// @Security Bearer
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	resp, err := h.chatService.Chat(ctx, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: "Empty message",
			})
		}
		h.logger.Error("Failed to answer chat message",
			zap.Any("request_id", c.Locals("requestID")),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to answer message",
		})
	}

	return c.JSON(toChatResponse(resp))
}

func toChatResponse(resp *models.ChatResponse) dto.ChatResponse {
	citations := make([]dto.CitationResponse, len(resp.Citations))
	for i, c := range resp.Citations {
		citations[i] = dto.CitationResponse{Title: c.Title, ChunkID: c.ChunkID}
	}
	return dto.ChatResponse{
		Reply:     resp.Reply,
		Citations: citations,
		Safety: dto.SafetyResponse{
			Crisis:     resp.Safety.Crisis,
			OutOfScope: resp.Safety.OutOfScope,
		},
	}
}
