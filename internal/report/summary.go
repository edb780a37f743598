// Package report aggregates closed trades into summary statistics and
// writes run artifacts. It has no side effects beyond producing the
// summary structure and the requested output files.
package report

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
)

// YearSummary is one row of the per-year breakdown, grouped by entry year.
type YearSummary struct {
	Year       int     `json:"year"`
	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	TotalPnL   float64 `json:"total_pnl"`
	EndCapital float64 `json:"end_capital"`
}

// Summary is the aggregate view of one run.
type Summary struct {
	Strategy        string  `json:"strategy"`
	StartingCapital float64 `json:"starting_capital"`
	FinalCapital    float64 `json:"final_capital"`
	TotalPnL        float64 `json:"total_pnl"`
	TotalReturnPct  float64 `json:"total_return_pct"`
	CAGRPct         float64 `json:"cagr_pct"`
	Years           float64 `json:"years"`

	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRatePct float64 `json:"win_rate_pct"`

	AvgWin         float64 `json:"avg_win"`
	AvgLoss        float64 `json:"avg_loss"`
	MaxSingleWin   float64 `json:"max_single_win"`
	MaxSingleLoss  float64 `json:"max_single_loss"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`

	OpenPositions int `json:"open_positions"`

	Yearly []YearSummary `json:"yearly,omitempty"`
}

// Summarize computes summary statistics over a run's closed trades.
func Summarize(res *backtest.Result) Summary {
	s := Summary{
		Strategy:        res.Strategy,
		StartingCapital: res.StartingCapital,
		FinalCapital:    res.FinalCapital,
		TotalPnL:        res.FinalCapital - res.StartingCapital,
		Trades:          len(res.Trades),
		OpenPositions:   len(res.OpenPositions),
	}
	if len(res.Trades) == 0 {
		return s
	}

	var wins, losses []float64
	peak := res.Trades[0].CapitalAfter
	maxDD := 0.0
	s.MaxSingleWin = res.Trades[0].TotalPnL
	s.MaxSingleLoss = res.Trades[0].TotalPnL

	byYear := map[int]*YearSummary{}

	for _, t := range res.Trades {
		if t.Win {
			wins = append(wins, t.TotalPnL)
		} else {
			losses = append(losses, t.TotalPnL)
		}
		s.MaxSingleWin = math.Max(s.MaxSingleWin, t.TotalPnL)
		s.MaxSingleLoss = math.Min(s.MaxSingleLoss, t.TotalPnL)

		peak = math.Max(peak, t.CapitalAfter)
		if peak > 0 {
			maxDD = math.Max(maxDD, (peak-t.CapitalAfter)/peak)
		}

		y := t.EntryDate.Year()
		row, ok := byYear[y]
		if !ok {
			row = &YearSummary{Year: y}
			byYear[y] = row
		}
		row.Trades++
		if t.Win {
			row.Wins++
		}
		row.TotalPnL += t.TotalPnL
		row.EndCapital = t.CapitalAfter
	}

	s.Wins = len(wins)
	s.Losses = len(losses)
	s.WinRatePct = 100 * float64(s.Wins) / float64(s.Trades)
	if len(wins) > 0 {
		s.AvgWin = stat.Mean(wins, nil)
	}
	if len(losses) > 0 {
		s.AvgLoss = stat.Mean(losses, nil)
	}
	s.MaxDrawdownPct = maxDD * 100

	first := res.Trades[0].EntryDate
	last := res.Trades[0].ExitDate
	for _, t := range res.Trades {
		if t.EntryDate.Before(first) {
			first = t.EntryDate
		}
		if t.ExitDate.After(last) {
			last = t.ExitDate
		}
	}
	s.Years = last.Sub(first).Hours() / 24 / 365.25
	if res.StartingCapital > 0 {
		s.TotalReturnPct = (res.FinalCapital/res.StartingCapital - 1) * 100
		if s.Years > 0 && res.FinalCapital > 0 {
			s.CAGRPct = (math.Pow(res.FinalCapital/res.StartingCapital, 1/s.Years) - 1) * 100
		}
	}

	for _, row := range byYear {
		s.Yearly = append(s.Yearly, *row)
	}
	sort.Slice(s.Yearly, func(i, j int) bool { return s.Yearly[i].Year < s.Yearly[j].Year })

	return s
}
