// Package testutil builds small synthetic option chains for tests.
package testutil

import (
	"time"

	"github.com/contactkeval/vix-spread-backtest/internal/data"
)

// Day returns midnight UTC for y-m-d.
func Day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CallQuote builds one call-side quote row.
func CallQuote(quoteDate, expiration time.Time, strike, bid, ask, underlying float64) data.Quote {
	return data.Quote{
		QuoteDate:  data.Date{Time: quoteDate},
		Expiration: data.Date{Time: expiration},
		Strike:     data.Price(strike),
		OptionType: data.Call,
		Bid:        data.Price(bid),
		Ask:        data.Price(ask),
		Underlying: data.Price(underlying),
		DTE:        int(expiration.Sub(quoteDate).Hours() / 24),
	}
}

// SpreadDay builds a quote day quoting every strike in strikes for one
// expiration, with bids falling off linearly above the underlying. Good
// enough for spread-finder and engine tests that only care about which
// strikes exist and that credits are positive.
func SpreadDay(quoteDate, expiration time.Time, underlying float64, strikes ...float64) []data.Quote {
	day := make([]data.Quote, 0, len(strikes))
	for _, k := range strikes {
		bid := underlying - k + 20
		if bid < 0.05 {
			bid = 0.05
		}
		day = append(day, CallQuote(quoteDate, expiration, k, bid, bid+0.10, underlying))
	}
	return day
}

// ChainOf assembles quote days into a chain.
func ChainOf(days ...[]data.Quote) *data.Chain {
	var all []data.Quote
	for _, d := range days {
		all = append(all, d...)
	}
	return data.NewChain(all)
}
