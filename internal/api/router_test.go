package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/contactkeval/vix-spread-backtest/internal/api/models"
	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
	"github.com/contactkeval/vix-spread-backtest/internal/data"
	"github.com/contactkeval/vix-spread-backtest/internal/testutil"
)

func testChain() *data.Chain {
	entry := testutil.Day(2020, time.January, 6)
	exp := testutil.Day(2020, time.March, 18)
	return testutil.ChainOf(
		[]data.Quote{
			testutil.CallQuote(entry, exp, 35, 2.00, 2.20, 18),
			testutil.CallQuote(entry, exp, 45, 0.40, 0.50, 18),
		},
		[]data.Quote{
			testutil.CallQuote(exp, exp.AddDate(0, 0, 30), 35, 1.00, 1.10, 25),
		},
	)
}

func TestHealth(t *testing.T) {
	router := NewRouter(testChain(), nil, 40000)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestListStrategies(t *testing.T) {
	router := NewRouter(testChain(), nil, 40000)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/strategies", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Strategies []backtest.Strategy `json:"strategies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Strategies) == 0 {
		t.Fatal("expected preset strategies in response")
	}
}

func TestRunBacktest(t *testing.T) {
	router := NewRouter(testChain(), nil, 40000)

	reqBody := models.BacktestRequest{
		Strategy: backtest.Strategy{
			Name:              "api_test",
			ShortStrike:       "ABS:35",
			LongStrike:        "ABS:45",
			DTEMin:            60,
			DTEMax:            100,
			EntryIntervalDays: 28,
			TargetPositions:   1,
		},
		Options: models.BacktestOptions{IncludeTrades: true},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		t.Fatalf("failed to encode request: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.BacktestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "completed" {
		t.Fatalf("expected status completed, got %q", resp.Status)
	}
	if len(resp.Trades) != 1 {
		t.Fatalf("expected 1 trade in response, got %d", len(resp.Trades))
	}
	if resp.Summary.FinalCapital <= resp.Summary.StartingCapital {
		t.Fatalf("expected a profitable run, final %f vs start %f",
			resp.Summary.FinalCapital, resp.Summary.StartingCapital)
	}
}

func TestRunBacktestRejectsBadStrategy(t *testing.T) {
	router := NewRouter(testChain(), nil, 40000)

	body := []byte(`{"strategy":{"name":"bad","short_strike":"ABS:x","long_strike":"ABS:45","dte_min":60,"dte_max":100}}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backtest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListRunsWithoutJournal(t *testing.T) {
	router := NewRouter(testChain(), nil, 40000)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
