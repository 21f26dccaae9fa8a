package handlers

import (
	"finn-mini/internal/dto"
	"finn-mini/internal/service"

	"github.com/gofiber/fiber/v2"
)

type StatsProvider interface {
	Stats() service.KnowledgeStats
}

type HealthHandler struct {
	stats StatsProvider
}

func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// Health godoc
// @Summary Service health
// @Description Reports the loaded knowledge base size and embedding model
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	s := h.stats.Stats()
	return c.JSON(dto.HealthResponse{
		Status:   "ok",
		KBChunks: s.Chunks,
		EmbModel: s.ModelName,
		EmbDim:   s.Dimension,
	})
}
