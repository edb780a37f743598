package data

import (
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// Chain indexes a quote dataset by trading day.
//
// It owns the sorted unique date index used by the replay loop and by the
// settlement lookup. Quotes are grouped once at construction; the Chain is
// read-only afterwards.
type Chain struct {
	byDay map[string][]Quote
	level map[string]float64
	dates []time.Time
}

// NewChain builds the per-day index from loaded quote rows.
func NewChain(quotes []Quote) *Chain {
	c := &Chain{
		byDay: make(map[string][]Quote),
		level: make(map[string]float64),
	}
	for _, q := range quotes {
		k := q.QuoteDate.Format(dayLayout)
		if _, seen := c.byDay[k]; !seen {
			c.dates = append(c.dates, q.QuoteDate.Time)
			// Underlying level is constant within a day's rows.
			c.level[k] = float64(q.Underlying)
		}
		c.byDay[k] = append(c.byDay[k], q)
	}
	sort.Slice(c.dates, func(i, j int) bool { return c.dates[i].Before(c.dates[j]) })
	return c
}

// Dates returns the ascending unique trading dates of the dataset.
func (c *Chain) Dates() []time.Time { return c.dates }

// Days reports the number of trading days in the dataset.
func (c *Chain) Days() int { return len(c.dates) }

// Day returns the quote rows for one trading day, or nil if the day has
// no data.
func (c *Chain) Day(t time.Time) []Quote {
	return c.byDay[t.Format(dayLayout)]
}

// UnderlyingOn returns the underlying level for an exact trading date.
func (c *Chain) UnderlyingOn(t time.Time) (float64, bool) {
	v, ok := c.level[t.Format(dayLayout)]
	return v, ok
}

// SettlementLevel returns the underlying level at expiration, falling back
// to the most recent prior trading date with data. The fallback is a binary
// search over the sorted date index.
func (c *Chain) SettlementLevel(expiration time.Time) (float64, bool) {
	if v, ok := c.UnderlyingOn(expiration); ok {
		return v, true
	}
	// First index with date > expiration; the entry before it is the
	// latest date <= expiration.
	i := sort.Search(len(c.dates), func(i int) bool {
		return c.dates[i].After(expiration)
	})
	if i == 0 {
		return 0, false
	}
	return c.UnderlyingOn(c.dates[i-1])
}
