package backtest

import (
	"math"
	"sort"
	"time"

	"github.com/contactkeval/vix-spread-backtest/internal/data"
)

// Spread is a tradable short/long call pair found in one day's quotes.
// Credit and width are per share; one contract controls 100 shares.
type Spread struct {
	Expiration  time.Time
	ShortStrike float64
	LongStrike  float64
	Credit      float64
	Width       float64
	DTE         int
}

// FindSpread locates a call spread matching the resolved strike targets
// within the DTE window.
//
// Both legs must share an expiration; when several expirations qualify the
// earliest wins. Credit is short bid minus long ask and must exceed
// minCredit; width must be positive. Returns nil when no tradable spread
// exists on this day.
func FindSpread(day []data.Quote, short, long StrikeTarget, dteMin, dteMax int, minCredit float64) *Spread {
	calls := make([]data.Quote, 0, len(day))
	for _, q := range day {
		if q.OptionType == data.Call && q.DTE >= dteMin && q.DTE <= dteMax {
			calls = append(calls, q)
		}
	}
	if len(calls) == 0 {
		return nil
	}

	var s, l *data.Quote
	if short.Exact && long.Exact {
		s, l = exactPair(calls, short.Strike, long.Strike)
	} else {
		s, l = nearestPair(calls, short.Strike, long.Strike)
	}
	if s == nil || l == nil {
		return nil
	}

	credit := float64(s.Bid) - float64(l.Ask)
	width := float64(l.Strike) - float64(s.Strike)
	if credit <= minCredit || width <= 0 {
		return nil
	}

	return &Spread{
		Expiration:  s.Expiration.Time,
		ShortStrike: float64(s.Strike),
		LongStrike:  float64(l.Strike),
		Credit:      credit,
		Width:       width,
		DTE:         s.DTE,
	}
}

// exactPair matches both strikes exactly and picks the earliest
// expiration both legs share.
func exactPair(calls []data.Quote, shortStrike, longStrike float64) (*data.Quote, *data.Quote) {
	shortByExp := map[string]*data.Quote{}
	longByExp := map[string]*data.Quote{}
	for i := range calls {
		q := &calls[i]
		switch float64(q.Strike) {
		case shortStrike:
			k := q.Expiration.Format("2006-01-02")
			if _, ok := shortByExp[k]; !ok {
				shortByExp[k] = q
			}
		case longStrike:
			k := q.Expiration.Format("2006-01-02")
			if _, ok := longByExp[k]; !ok {
				longByExp[k] = q
			}
		}
	}

	var shared []string
	for k := range shortByExp {
		if _, ok := longByExp[k]; ok {
			shared = append(shared, k)
		}
	}
	if len(shared) == 0 {
		return nil, nil
	}
	sort.Strings(shared)
	k := shared[0]
	return shortByExp[k], longByExp[k]
}

// nearestPair picks each leg independently as the row with live bid
// closest to its target strike, then requires a shared expiration.
func nearestPair(calls []data.Quote, shortStrike, longStrike float64) (*data.Quote, *data.Quote) {
	s := nearestLeg(calls, shortStrike)
	l := nearestLeg(calls, longStrike)
	if s == nil || l == nil {
		return nil, nil
	}
	if !s.Expiration.Equal(l.Expiration.Time) {
		return nil, nil
	}
	return s, l
}

func nearestLeg(calls []data.Quote, target float64) *data.Quote {
	var best *data.Quote
	bestDiff := math.Inf(1)
	for i := range calls {
		q := &calls[i]
		if q.Bid <= 0 {
			continue
		}
		diff := math.Abs(float64(q.Strike) - target)
		if diff < bestDiff {
			best = q
			bestDiff = diff
		}
	}
	return best
}
