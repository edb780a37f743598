package report

import (
	"fmt"
	"io"

	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
)

// Print writes the human-readable run report.
func Print(w io.Writer, s Summary, res *backtest.Result) {
	fmt.Fprintf(w, "\nSTRATEGY RESULTS: %s\n", s.Strategy)
	fmt.Fprintln(w, "================")
	fmt.Fprintf(w, "Starting Capital:  $%.0f\n", s.StartingCapital)
	fmt.Fprintf(w, "Final Capital:     $%.0f\n", s.FinalCapital)
	fmt.Fprintf(w, "Total P&L:         $%.0f\n", s.TotalPnL)
	fmt.Fprintf(w, "Total Return:      %.1f%%\n", s.TotalReturnPct)
	fmt.Fprintf(w, "CAGR:              %.1f%%\n\n", s.CAGRPct)

	fmt.Fprintf(w, "Trades:            %d\n", s.Trades)
	fmt.Fprintf(w, "Wins:              %d (%.1f%%)\n", s.Wins, s.WinRatePct)
	fmt.Fprintf(w, "Losses:            %d\n\n", s.Losses)

	fmt.Fprintf(w, "Max Single Loss:   $%.0f\n", s.MaxSingleLoss)
	fmt.Fprintf(w, "Max Single Win:    $%.0f\n", s.MaxSingleWin)
	fmt.Fprintf(w, "Max Drawdown:      %.1f%%\n", s.MaxDrawdownPct)

	if len(s.Yearly) > 0 {
		fmt.Fprintln(w, "\nYEARLY BREAKDOWN")
		fmt.Fprintln(w, "============================================================")
		fmt.Fprintf(w, "%-8s %8s %8s %15s %15s\n", "Year", "Trades", "Wins", "P&L", "End Capital")
		fmt.Fprintln(w, "------------------------------------------------------------")
		for _, y := range s.Yearly {
			fmt.Fprintf(w, "%-8d %8d %8d %15.0f %15.0f\n",
				y.Year, y.Trades, y.Wins, y.TotalPnL, y.EndCapital)
		}
	}

	losers := 0
	for _, t := range res.Trades {
		if !t.Win {
			losers++
		}
	}
	if losers > 0 {
		fmt.Fprintf(w, "\nLOSING TRADES (%d)\n", losers)
		fmt.Fprintln(w, "------------------------------------------------------------")
		for _, t := range res.Trades {
			if t.Win {
				continue
			}
			fmt.Fprintf(w, "  %s -> %s: VIX %.1f -> %.1f, %d contracts, $%.0f\n",
				t.EntryDate.Format("2006-01-02"), t.ExitDate.Format("2006-01-02"),
				t.VIXEntry, t.VIXExit, t.Contracts, t.TotalPnL)
		}
	}

	if s.OpenPositions > 0 {
		fmt.Fprintf(w, "\nNote: %d positions still open at end of data\n", s.OpenPositions)
	}
}

// PrintComparison writes the sweep comparison table, one row per variant,
// ranked as given.
func PrintComparison(w io.Writer, summaries []Summary) {
	fmt.Fprintf(w, "\n%-4s %-28s %7s %7s %12s %10s %9s\n",
		"rank", "strategy", "trades", "win%", "total p&l", "max dd", "cagr")
	fmt.Fprintln(w, "--------------------------------------------------------------------------------")
	for i, s := range summaries {
		fmt.Fprintf(w, "%-4d %-28s %7d %6.1f%% %12.0f %9.1f%% %8.1f%%\n",
			i+1, s.Strategy, s.Trades, s.WinRatePct, s.TotalPnL, s.MaxDrawdownPct, s.CAGRPct)
	}
}
