package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Leganyst/naconsulta/internal/middleware"
)

type HealthHandler struct {
	db  Pinger
	env string
}

func NewHealthHandler(db Pinger, env string) *HealthHandler {
	return &HealthHandler{db: db, env: env}
}

// Check answers 200 when the store responds, 503 otherwise.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	database := gin.H{"status": "healthy"}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		log := middleware.GetLogger(c)
		log.Error().Err(err).Str("operation", "health_check").Msg("database unreachable")
		database["status"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}
	database["response_time"] = time.Since(start).String()

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":      overall,
		"timestamp":   time.Now().UTC(),
		"environment": h.env,
		"checks":      gin.H{"database": database},
	})
}
