package models

import (
	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
	"github.com/contactkeval/vix-spread-backtest/internal/report"
)

// BacktestResponse is the response from a single backtest run.
type BacktestResponse struct {
	ID      string                 `json:"id,omitempty"` // journal run id when saved
	Status  string                 `json:"status"`
	Summary report.Summary         `json:"summary"`
	Trades  []backtest.ClosedTrade `json:"trades,omitempty"`
}

// SweepResponse ranks the swept variants best-first by CAGR.
type SweepResponse struct {
	Status  string           `json:"status"`
	Ranking []report.Summary `json:"ranking"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
