package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
)

// WriteJSON writes the full result (summary plus trades) as trades.json
// in outdir.
func WriteJSON(res *backtest.Result, outdir string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "trades.json"), b, 0644)
}

// WriteCSV writes the closed-trade table as trades.csv in outdir.
func WriteCSV(trades []backtest.ClosedTrade, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "trades.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()

	headers := []string{
		"entry_date", "exit_date", "expiration",
		"short_strike", "long_strike", "credit", "width",
		"contracts", "vix_entry", "vix_exit", "settlement",
		"pnl_per_contract", "total_pnl", "capital_after", "win",
	}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.EntryDate.Format("2006-01-02"),
			t.ExitDate.Format("2006-01-02"),
			t.Expiration.Format("2006-01-02"),
			fmt.Sprintf("%.2f", t.ShortStrike),
			fmt.Sprintf("%.2f", t.LongStrike),
			fmt.Sprintf("%.2f", t.Credit),
			fmt.Sprintf("%.2f", t.Width),
			fmt.Sprintf("%d", t.Contracts),
			fmt.Sprintf("%.2f", t.VIXEntry),
			fmt.Sprintf("%.2f", t.VIXExit),
			fmt.Sprintf("%.2f", t.Settlement),
			fmt.Sprintf("%.2f", t.PnLPerContract),
			fmt.Sprintf("%.2f", t.TotalPnL),
			fmt.Sprintf("%.2f", t.CapitalAfter),
			fmt.Sprintf("%t", t.Win),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
