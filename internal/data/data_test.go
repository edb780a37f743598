package data

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleCSV = `quote_date,expiration,strike,option_type,bid_eod,ask_eod,underlying_bid_eod
2020-01-06,2020-03-18,35.0,C,2.00,2.20,14.02
2020-01-06,2020-03-18,45.0,C,0.40,0.50,14.02
2020-01-06,2020-03-18,35.0,P,20.80,21.30,14.02
not-a-date,2020-03-18,35.0,C,2.00,2.20,14.02
2020-01-06,2020-03-18,0,C,2.00,2.20,14.02
2020-01-06,2020-03-18,35.0,X,2.00,2.20,14.02
`

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLoadReaderDropsMalformedRows(t *testing.T) {
	quotes, err := LoadReader(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("failed to load quotes: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 valid rows, got %d", len(quotes))
	}
	for _, q := range quotes {
		if q.DTE != 72 {
			t.Fatalf("expected DTE 72, got %d", q.DTE)
		}
	}
}

func TestLoadReaderEmptyDataset(t *testing.T) {
	csv := "quote_date,expiration,strike,option_type,bid_eod,ask_eod,underlying_bid_eod\nbad,bad,0,X,,,\n"
	_, err := LoadReader(strings.NewReader(csv))
	if !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("expected ErrNoQuotes, got %v", err)
	}
}

func TestLoadZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create archive: %v", err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("quotes.csv")
	if err != nil {
		t.Fatalf("failed to create archive member: %v", err)
	}
	if _, err := w.Write([]byte(sampleCSV)); err != nil {
		t.Fatalf("failed to write archive member: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close archive: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("failed to close file: %v", err)
	}

	quotes, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load zipped quotes: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("expected 3 valid rows, got %d", len(quotes))
	}
}

func TestChainIndexing(t *testing.T) {
	quotes, err := LoadReader(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("failed to load quotes: %v", err)
	}
	c := NewChain(quotes)

	if c.Days() != 1 {
		t.Fatalf("expected 1 trading day, got %d", c.Days())
	}
	if got := len(c.Day(day(2020, time.January, 6))); got != 3 {
		t.Fatalf("expected 3 rows on 2020-01-06, got %d", got)
	}
	level, ok := c.UnderlyingOn(day(2020, time.January, 6))
	if !ok || level != 14.02 {
		t.Fatalf("expected underlying 14.02, got %f (ok=%v)", level, ok)
	}
	if _, ok := c.UnderlyingOn(day(2020, time.January, 7)); ok {
		t.Fatalf("expected no underlying for a missing day")
	}
}

func TestSettlementLevelFallback(t *testing.T) {
	mk := func(d time.Time, underlying float64) Quote {
		return Quote{
			QuoteDate:  Date{Time: d},
			Expiration: Date{Time: d.AddDate(0, 0, 30)},
			Strike:     35,
			OptionType: Call,
			Bid:        1,
			Ask:        1.1,
			Underlying: Price(underlying),
		}
	}
	c := NewChain([]Quote{
		mk(day(2020, time.March, 13), 40),
		mk(day(2020, time.March, 16), 42),
		mk(day(2020, time.March, 20), 38),
	})

	tests := []struct {
		name       string
		expiration time.Time
		want       float64
		ok         bool
	}{
		{"exact", day(2020, time.March, 16), 42, true},
		{"weekend falls back", day(2020, time.March, 18), 42, true},
		{"after last day", day(2020, time.March, 25), 38, true},
		{"before first day", day(2020, time.March, 1), 0, false},
	}
	for _, test := range tests {
		got, ok := c.SettlementLevel(test.expiration)
		if ok != test.ok || got != test.want {
			t.Fatalf("%s: expected (%f,%v), got (%f,%v)", test.name, test.want, test.ok, got, ok)
		}
	}
}
