// Package api exposes the backtester over HTTP so dashboards can run
// strategies against a chain loaded once at startup.
package api

import (
	"os"

	"github.com/gin-gonic/gin"

	"github.com/contactkeval/vix-spread-backtest/internal/api/handlers"
	"github.com/contactkeval/vix-spread-backtest/internal/api/middleware"
	"github.com/contactkeval/vix-spread-backtest/internal/data"
	"github.com/contactkeval/vix-spread-backtest/internal/store"
)

// NewRouter assembles the gin router. journal may be nil when the server
// runs without a trade journal.
func NewRouter(chain *data.Chain, journal *store.Store, startingCapital float64) *gin.Engine {
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	backtestHandler := handlers.NewBacktestHandler(chain, journal, startingCapital)
	strategyHandler := handlers.NewStrategyHandler()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "days": len(chain.Dates())})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest", backtestHandler.RunBacktest)
		v1.POST("/sweep", backtestHandler.Sweep)
		v1.GET("/runs", backtestHandler.ListRuns)
		v1.GET("/strategies", strategyHandler.ListStrategies)
	}
	return router
}
