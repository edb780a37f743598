package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/contactkeval/vix-spread-backtest/internal/api/models"
	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
	"github.com/contactkeval/vix-spread-backtest/internal/config"
	"github.com/contactkeval/vix-spread-backtest/internal/data"
	"github.com/contactkeval/vix-spread-backtest/internal/logger"
	"github.com/contactkeval/vix-spread-backtest/internal/report"
	"github.com/contactkeval/vix-spread-backtest/internal/store"
)

// BacktestHandler runs strategies against the chain loaded at startup.
type BacktestHandler struct {
	chain           *data.Chain
	journal         *store.Store // nil when no journal is open
	startingCapital float64
}

// NewBacktestHandler creates a backtest handler. journal may be nil.
func NewBacktestHandler(chain *data.Chain, journal *store.Store, startingCapital float64) *BacktestHandler {
	if startingCapital <= 0 {
		startingCapital = config.DefaultStartingCapital
	}
	return &BacktestHandler{chain: chain, journal: journal, startingCapital: startingCapital}
}

// RunBacktest handles POST /api/v1/backtest.
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if err := req.Strategy.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_STRATEGY", Message: err.Error()},
		})
		return
	}

	res, err := backtest.New(req.Strategy, h.chain).Run(h.capital(req.Options))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "BACKTEST_FAILED", Message: err.Error()},
		})
		return
	}

	sum := report.Summarize(res)
	resp := models.BacktestResponse{Status: "completed", Summary: sum}
	if req.Options.IncludeTrades {
		resp.Trades = res.Trades
	}
	if req.Options.Save && h.journal != nil {
		id, err := h.journal.SaveRun(req.Strategy, res, sum)
		if err != nil {
			logger.Errorf("event=run_save_failed strategy=%s err=%v", req.Strategy.Name, err)
		} else {
			resp.ID = id
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Sweep handles POST /api/v1/sweep. With no variants in the body it sweeps
// the named presets.
func (h *BacktestHandler) Sweep(c *gin.Context) {
	var req models.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	variants := req.Variants
	if len(variants) == 0 {
		variants = config.Presets()
	}

	var ranking []report.Summary
	for _, strat := range variants {
		if err := strat.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INVALID_STRATEGY", Message: err.Error()},
			})
			return
		}
		res, err := backtest.New(strat, h.chain).Run(h.capital(req.Options))
		if err != nil {
			logger.Errorf("event=sweep_variant_failed strategy=%s err=%v", strat.Name, err)
			continue
		}
		ranking = append(ranking, report.Summarize(res))
	}
	sort.Slice(ranking, func(i, j int) bool { return ranking[i].CAGRPct > ranking[j].CAGRPct })

	c.JSON(http.StatusOK, models.SweepResponse{Status: "completed", Ranking: ranking})
}

// ListRuns handles GET /api/v1/runs.
func (h *BacktestHandler) ListRuns(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NO_JOURNAL", Message: "server started without a trade journal"},
		})
		return
	}
	runs, err := h.journal.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "JOURNAL_ERROR", Message: err.Error()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *BacktestHandler) capital(opts models.BacktestOptions) float64 {
	if opts.StartingCapital > 0 {
		return opts.StartingCapital
	}
	return h.startingCapital
}
