// Package data loads historical option-chain datasets and indexes them
// for day-by-day replay.
//
// The expected input is a flat CSV (optionally zip-wrapped) of end-of-day
// option quotes with columns:
//
//	quote_date, expiration, strike, option_type, bid_eod, ask_eod, underlying_bid_eod
//
// Everything upstream of that file (symbol parsing, vendor APIs, spread
// estimation) is an external concern and is not re-validated here.
package data

import (
	"strconv"
	"strings"
	"time"
)

// Option type codes as they appear in the source data.
const (
	Call = "C"
	Put  = "P"
)

// Date is a calendar date parsed from CSV. The zero value marks an
// unparseable field; loaders drop such rows instead of failing the file.
type Date struct {
	time.Time
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// UnmarshalCSV implements gocsv's field decoding. Unparseable input
// yields the zero Date rather than an error.
func (d *Date) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC().Truncate(24 * time.Hour)
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

// MarshalCSV implements gocsv's field encoding.
func (d Date) MarshalCSV() (string, error) {
	if d.IsZero() {
		return "", nil
	}
	return d.Format("2006-01-02"), nil
}

// Price is a quote price parsed from CSV. Empty or malformed fields
// decode to zero, which candidate filters already exclude.
type Price float64

func (p *Price) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*p = 0
		return nil
	}
	*p = Price(v)
	return nil
}

func (p Price) MarshalCSV() (string, error) {
	return strconv.FormatFloat(float64(p), 'f', -1, 64), nil
}

// Quote is one end-of-day option quote row. Rows are immutable once loaded.
type Quote struct {
	QuoteDate  Date   `csv:"quote_date"`
	Expiration Date   `csv:"expiration"`
	Strike     Price  `csv:"strike"`
	OptionType string `csv:"option_type"`
	Bid        Price  `csv:"bid_eod"`
	Ask        Price  `csv:"ask_eod"`
	Underlying Price  `csv:"underlying_bid_eod"`

	// DTE is days to expiration at quote time, derived at load.
	DTE int `csv:"-"`
}

// valid reports whether the row carries enough information to participate
// in candidate selection.
func (q Quote) valid() bool {
	if q.QuoteDate.IsZero() || q.Expiration.IsZero() {
		return false
	}
	if q.Strike <= 0 {
		return false
	}
	switch q.OptionType {
	case Call, Put:
	default:
		return false
	}
	return true
}
