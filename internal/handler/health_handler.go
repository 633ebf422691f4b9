package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/eventos-backend/internal/models"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health reports the server time and whether the database answers a ping.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	database := "ok"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
		database = "unavailable"
	}

	return c.JSON(models.SuccessResponse(fiber.Map{
		"status":    "ok",
		"database":  database,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, "API running"))
}
