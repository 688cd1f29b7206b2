package handlers

import (
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/ocr"
	"github.com/MuhamadAgungGumelar/nid-ocr-service/internal/core/storage"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	ocrService     *ocr.Service
	storageService *storage.Service
}

func NewHealthHandler(ocrService *ocr.Service, storageService *storage.Service) *HealthHandler {
	return &HealthHandler{ocrService: ocrService, storageService: storageService}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":           "ok",
		"service":          "nid-ocr-service",
		"ocr_provider":     h.ocrService.GetProviderName(),
		"storage_provider": h.storageService.GetProviderName(),
	})
}
