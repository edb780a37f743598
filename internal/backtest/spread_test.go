package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/contactkeval/vix-spread-backtest/internal/data"
	"github.com/contactkeval/vix-spread-backtest/internal/testutil"
)

var (
	quoteDay = testutil.Day(2020, time.January, 6)
	expNear  = testutil.Day(2020, time.March, 18)
	expFar   = testutil.Day(2020, time.April, 15)
)

func exact(strike float64) StrikeTarget {
	return StrikeTarget{Strike: strike, Exact: true}
}

func nearest(strike float64) StrikeTarget {
	return StrikeTarget{Strike: strike}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFindSpreadExactEarliestExpiration(t *testing.T) {
	day := []data.Quote{
		testutil.CallQuote(quoteDay, expFar, 35, 2.50, 2.70, 14),
		testutil.CallQuote(quoteDay, expFar, 45, 0.60, 0.70, 14),
		testutil.CallQuote(quoteDay, expNear, 35, 2.00, 2.20, 14),
		testutil.CallQuote(quoteDay, expNear, 45, 0.40, 0.50, 14),
	}

	s := FindSpread(day, exact(35), exact(45), 60, 100, 0)
	if s == nil {
		t.Fatal("expected a spread, got nil")
	}
	if !s.Expiration.Equal(expNear) {
		t.Fatalf("expected earliest shared expiration %s, got %s", expNear, s.Expiration)
	}
	if s.ShortStrike != 35 || s.LongStrike != 45 {
		t.Fatalf("unexpected strikes %f/%f", s.ShortStrike, s.LongStrike)
	}
	if s.Credit != 1.50 {
		t.Fatalf("expected credit 1.50 (short bid - long ask), got %f", s.Credit)
	}
	if s.Width != 10 {
		t.Fatalf("expected width 10, got %f", s.Width)
	}
}

func TestFindSpreadExactNoSharedExpiration(t *testing.T) {
	day := []data.Quote{
		testutil.CallQuote(quoteDay, expNear, 35, 2.00, 2.20, 14),
		testutil.CallQuote(quoteDay, expFar, 45, 0.60, 0.70, 14),
	}
	if s := FindSpread(day, exact(35), exact(45), 60, 100, 0); s != nil {
		t.Fatalf("expected nil when legs share no expiration, got %+v", s)
	}
}

func TestFindSpreadNearestStrikes(t *testing.T) {
	day := []data.Quote{
		testutil.CallQuote(quoteDay, expNear, 25, 3.00, 3.20, 14),
		testutil.CallQuote(quoteDay, expNear, 27.5, 2.40, 2.60, 14),
		testutil.CallQuote(quoteDay, expNear, 37.5, 0.70, 0.80, 14),
		testutil.CallQuote(quoteDay, expNear, 40, 0.50, 0.60, 14),
	}

	// Targets 28 and 38 are unlisted; nearest live strikes are 27.5 and 37.5.
	s := FindSpread(day, nearest(28), nearest(38), 60, 100, 0.10)
	if s == nil {
		t.Fatal("expected a spread, got nil")
	}
	if s.ShortStrike != 27.5 || s.LongStrike != 37.5 {
		t.Fatalf("expected strikes 27.5/37.5, got %f/%f", s.ShortStrike, s.LongStrike)
	}
	if !approx(s.Credit, 1.60) {
		t.Fatalf("expected credit 1.60, got %f", s.Credit)
	}
}

func TestFindSpreadSkipsDeadBids(t *testing.T) {
	day := []data.Quote{
		testutil.CallQuote(quoteDay, expNear, 27.5, 0, 0.10, 14),
		testutil.CallQuote(quoteDay, expNear, 30, 2.00, 2.20, 14),
		testutil.CallQuote(quoteDay, expNear, 37.5, 0.70, 0.80, 14),
	}
	s := FindSpread(day, nearest(27.5), nearest(37.5), 60, 100, 0)
	if s == nil {
		t.Fatal("expected a spread, got nil")
	}
	if s.ShortStrike != 30 {
		t.Fatalf("expected dead-bid 27.5 skipped in favor of 30, got %f", s.ShortStrike)
	}
}

func TestFindSpreadRejectsThinCredit(t *testing.T) {
	day := []data.Quote{
		testutil.CallQuote(quoteDay, expNear, 35, 0.55, 0.65, 14),
		testutil.CallQuote(quoteDay, expNear, 45, 0.40, 0.50, 14),
	}
	// Credit 0.05 does not clear the 0.10 floor.
	if s := FindSpread(day, exact(35), exact(45), 60, 100, 0.10); s != nil {
		t.Fatalf("expected nil for thin credit, got %+v", s)
	}
}

func TestFindSpreadHonorsDTEWindow(t *testing.T) {
	day := []data.Quote{
		testutil.CallQuote(quoteDay, expNear, 35, 2.00, 2.20, 14),
		testutil.CallQuote(quoteDay, expNear, 45, 0.40, 0.50, 14),
	}
	// expNear is 72 days out; a 25-45 window excludes it.
	if s := FindSpread(day, exact(35), exact(45), 25, 45, 0); s != nil {
		t.Fatalf("expected nil outside DTE window, got %+v", s)
	}
}
