package models

import "github.com/contactkeval/vix-spread-backtest/internal/backtest"

// BacktestRequest is the request body for running a backtest against the
// server's loaded option chain.
type BacktestRequest struct {
	Strategy backtest.Strategy `json:"strategy" binding:"required"`
	Options  BacktestOptions   `json:"options,omitempty"`
}

// BacktestOptions carries optional run parameters.
type BacktestOptions struct {
	StartingCapital float64 `json:"starting_capital,omitempty"` // 0 = server default
	IncludeTrades   bool    `json:"include_trades,omitempty"`
	Save            bool    `json:"save,omitempty"` // persist to the journal if one is open
}

// SweepRequest runs every named preset plus any extra variants and ranks
// the results.
type SweepRequest struct {
	Variants []backtest.Strategy `json:"variants,omitempty"`
	Options  BacktestOptions     `json:"options,omitempty"`
}
