package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/contactkeval/vix-spread-backtest/internal/config"
)

// StrategyHandler serves the named strategy presets.
type StrategyHandler struct{}

// NewStrategyHandler creates a strategy handler.
func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

// ListStrategies handles GET /api/v1/strategies.
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": config.Presets()})
}
