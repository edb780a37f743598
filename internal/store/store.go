// Package store persists backtest runs and their closed trades to a
// local SQLite journal. The engine itself never touches storage; callers
// opt in from the CLI or the API layer.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
	"github.com/contactkeval/vix-spread-backtest/internal/logger"
	"github.com/contactkeval/vix-spread-backtest/internal/report"
)

// Run is one persisted backtest run.
type Run struct {
	ID              string `gorm:"primaryKey"`
	Strategy        string
	ConfigJSON      string
	StartingCapital float64
	FinalCapital    float64
	TotalPnL        float64
	CAGRPct         float64
	WinRatePct      float64
	MaxDrawdownPct  float64
	Trades          int
	CreatedAt       time.Time
}

// TradeRecord is one persisted closed trade.
type TradeRecord struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	RunID          string `gorm:"index"`
	EntryDate      time.Time
	ExitDate       time.Time
	Expiration     time.Time
	ShortStrike    float64
	LongStrike     float64
	Credit         float64
	Width          float64
	Contracts      int
	VIXEntry       float64
	VIXExit        float64
	Settlement     float64
	PnLPerContract float64
	TotalPnL       float64
	CapitalAfter   float64
	Win            bool
}

// Store wraps the SQLite journal.
type Store struct {
	db *gorm.DB
}

// Open opens (and migrates) the journal at dbPath, creating parent
// directories as needed.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.AutoMigrate(&Run{}, &TradeRecord{}); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveRun persists a run with its summary and trades, returning the run id.
func (s *Store) SaveRun(strat backtest.Strategy, res *backtest.Result, sum report.Summary) (string, error) {
	cfg, err := json.Marshal(strat)
	if err != nil {
		return "", fmt.Errorf("encode strategy: %w", err)
	}

	run := Run{
		ID:              uuid.NewString(),
		Strategy:        strat.Name,
		ConfigJSON:      string(cfg),
		StartingCapital: res.StartingCapital,
		FinalCapital:    res.FinalCapital,
		TotalPnL:        sum.TotalPnL,
		CAGRPct:         sum.CAGRPct,
		WinRatePct:      sum.WinRatePct,
		MaxDrawdownPct:  sum.MaxDrawdownPct,
		Trades:          sum.Trades,
		CreatedAt:       time.Now().UTC(),
	}

	records := make([]TradeRecord, 0, len(res.Trades))
	for _, t := range res.Trades {
		records = append(records, TradeRecord{
			RunID:          run.ID,
			EntryDate:      t.EntryDate,
			ExitDate:       t.ExitDate,
			Expiration:     t.Expiration,
			ShortStrike:    t.ShortStrike,
			LongStrike:     t.LongStrike,
			Credit:         t.Credit,
			Width:          t.Width,
			Contracts:      t.Contracts,
			VIXEntry:       t.VIXEntry,
			VIXExit:        t.VIXExit,
			Settlement:     t.Settlement,
			PnLPerContract: t.PnLPerContract,
			TotalPnL:       t.TotalPnL,
			CapitalAfter:   t.CapitalAfter,
			Win:            t.Win,
		})
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return "", fmt.Errorf("save run: %w", err)
	}

	logger.Infof("event=run_saved id=%s strategy=%s trades=%d", run.ID, run.Strategy, len(records))
	return run.ID, nil
}

// ListRuns returns persisted runs, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	var runs []Run
	if err := s.db.Order("created_at desc").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// RunTrades returns the closed trades of one run in entry order.
func (s *Store) RunTrades(runID string) ([]TradeRecord, error) {
	var trades []TradeRecord
	if err := s.db.Where("run_id = ?", runID).Order("entry_date").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	return trades, nil
}
