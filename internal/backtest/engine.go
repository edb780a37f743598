package backtest

import (
	"fmt"
	"time"

	"github.com/contactkeval/vix-spread-backtest/internal/data"
	"github.com/contactkeval/vix-spread-backtest/internal/logger"
)

// Strategy parameterizes one backtest run. A single engine replaces the
// family of near-identical strategy variants; they differ only in these
// fields.
type Strategy struct {
	Name string `json:"name" yaml:"name"`

	// Strike rules for the two legs, see ResolveStrike for the grammar.
	ShortStrike string `json:"short_strike" yaml:"short_strike"`
	LongStrike  string `json:"long_strike" yaml:"long_strike"`

	// StrikeStep is the rounding granularity for computed strike targets.
	// Zero means DefaultStrikeStep.
	StrikeStep float64 `json:"strike_step,omitempty" yaml:"strike_step"`

	DTEMin    int     `json:"dte_min" yaml:"dte_min"`
	DTEMax    int     `json:"dte_max" yaml:"dte_max"`
	MinCredit float64 `json:"min_credit,omitempty" yaml:"min_credit"`

	// EntryIntervalDays is the minimum calendar-day spacing between
	// entries. Zero allows an entry on every eligible day.
	EntryIntervalDays int `json:"entry_interval_days,omitempty" yaml:"entry_interval_days"`

	// TargetPositions caps concurrently open positions and divides
	// capital for fixed-fraction sizing. Zero means one.
	TargetPositions int `json:"target_positions,omitempty" yaml:"target_positions"`

	Gate   GateConfig   `json:"gate,omitempty" yaml:"gate"`
	Sizing SizingConfig `json:"sizing,omitempty" yaml:"sizing"`
}

// withDefaults returns a copy with zero fields replaced by defaults.
func (s Strategy) withDefaults() Strategy {
	if s.StrikeStep <= 0 {
		s.StrikeStep = DefaultStrikeStep
	}
	if s.TargetPositions < 1 {
		s.TargetPositions = 1
	}
	if s.Sizing.Mode == "" {
		s.Sizing.Mode = SizeFixedFraction
	}
	if s.Gate.Mode == "" {
		s.Gate.Mode = GateAlways
	}
	return s
}

// Validate checks the strategy for configuration errors, including strike
// rule syntax. Rules are resolved against a probe level so expression
// mistakes surface before a run starts.
func (s Strategy) Validate() error {
	s = s.withDefaults()
	if s.DTEMin < 0 || s.DTEMax < s.DTEMin {
		return fmt.Errorf("strategy %q: dte bounds [%d,%d] are invalid", s.Name, s.DTEMin, s.DTEMax)
	}
	if s.EntryIntervalDays < 0 {
		return fmt.Errorf("strategy %q: entry_interval_days must be >= 0", s.Name)
	}
	const probeVIX = 20.0
	if _, err := ResolveStrike(s.ShortStrike, probeVIX, s.StrikeStep); err != nil {
		return fmt.Errorf("strategy %q: short leg: %w", s.Name, err)
	}
	if _, err := ResolveStrike(s.LongStrike, probeVIX, s.StrikeStep); err != nil {
		return fmt.Errorf("strategy %q: long leg: %w", s.Name, err)
	}
	switch s.Gate.Mode {
	case GateAlways, GateAbove, GatePostSpike:
	default:
		return fmt.Errorf("strategy %q: unknown gate mode %q", s.Name, s.Gate.Mode)
	}
	switch s.Sizing.Mode {
	case SizeFixedFraction, SizeFixed, SizeVIXScaled:
	default:
		return fmt.Errorf("strategy %q: unknown sizing mode %q", s.Name, s.Sizing.Mode)
	}
	return nil
}

// Position is an open defined-risk spread. It is created at entry and
// lives until its expiration date is reached in the day iteration.
type Position struct {
	EntryDate          time.Time `json:"entry_date"`
	Expiration         time.Time `json:"expiration"`
	ShortStrike        float64   `json:"short_strike"`
	LongStrike         float64   `json:"long_strike"`
	Credit             float64   `json:"credit"`
	Width              float64   `json:"width"`
	MaxLossPerContract float64   `json:"max_loss_per_contract"`
	Contracts          int       `json:"contracts"`
	VIXEntry           float64   `json:"vix_entry"`
	CapitalAtEntry     float64   `json:"capital_at_entry"`
	DTEAtEntry         int       `json:"dte_at_entry"`
}

// ClosedTrade is a settled position. The closed-trade list is append-only
// and never mutated after creation.
type ClosedTrade struct {
	Position
	ExitDate       time.Time `json:"exit_date"`
	VIXExit        float64   `json:"vix_exit"`
	Settlement     float64   `json:"settlement"`
	PnLPerContract float64   `json:"pnl_per_contract"`
	TotalPnL       float64   `json:"total_pnl"`
	CapitalAfter   float64   `json:"capital_after"`
	Win            bool      `json:"win"`
}

// Result is the outcome of one run. Trades is the real return value a
// caller should consume; the printed report is derived from it.
type Result struct {
	Strategy        string        `json:"strategy"`
	StartingCapital float64       `json:"starting_capital"`
	FinalCapital    float64       `json:"final_capital"`
	Trades          []ClosedTrade `json:"trades"`
	OpenPositions   []Position    `json:"open_positions,omitempty"`
}

// Engine replays a quote chain against one strategy.
type Engine struct {
	strat Strategy
	chain *data.Chain
}

// New constructs an engine. The strategy is normalized with defaults;
// call Strategy.Validate beforehand to surface configuration errors.
func New(strat Strategy, chain *data.Chain) *Engine {
	return &Engine{strat: strat.withDefaults(), chain: chain}
}

// Run walks the trading days in ascending order, settling expiring
// positions and opening new ones on the configured cadence.
//
// Still-open positions at the end of data are reported, not force-settled.
// A spread whose max loss is not positive fails the run with
// ErrInvalidSpread: fixed-fraction sizing would otherwise divide by zero.
func (e *Engine) Run(startingCapital float64) (*Result, error) {
	strat := e.strat
	logger.Infof("event=run_start strategy=%s capital=%.2f days=%d",
		strat.Name, startingCapital, e.chain.Days())

	capital := startingCapital
	var open []Position
	var trades []ClosedTrade
	var lastEntry time.Time

	for _, date := range e.chain.Dates() {
		day := e.chain.Day(date)
		if len(day) == 0 {
			continue
		}
		vix, ok := e.chain.UnderlyingOn(date)
		if !ok {
			continue
		}

		// Expiry settlement.
		remaining := open[:0]
		for _, pos := range open {
			if date.Before(pos.Expiration) {
				remaining = append(remaining, pos)
				continue
			}
			level, ok := e.chain.SettlementLevel(pos.Expiration)
			if !ok {
				// No settlement level yet; keep the position and retry
				// on the next day with data.
				remaining = append(remaining, pos)
				continue
			}
			trade := settle(pos, level, &capital)
			trades = append(trades, trade)
			logger.Debugf("event=settle date=%s exp=%s vix_exp=%.2f pnl=%.2f capital=%.2f",
				date.Format("2006-01-02"), pos.Expiration.Format("2006-01-02"),
				level, trade.TotalPnL, capital)
		}
		open = remaining

		// Entry check.
		if !entryDue(lastEntry, date, strat.EntryIntervalDays) {
			continue
		}
		if len(open) >= strat.TargetPositions {
			continue
		}
		if !strat.Gate.allows(e.chain, date, vix) {
			continue
		}

		short, err := ResolveStrike(strat.ShortStrike, vix, strat.StrikeStep)
		if err != nil {
			return nil, err
		}
		long, err := ResolveStrike(strat.LongStrike, vix, strat.StrikeStep)
		if err != nil {
			return nil, err
		}

		spread := FindSpread(day, short, long, strat.DTEMin, strat.DTEMax, strat.MinCredit)
		if spread == nil {
			logger.Tracef("event=no_spread date=%s vix=%.2f", date.Format("2006-01-02"), vix)
			continue
		}

		maxLossPer := (spread.Width - spread.Credit) * 100
		if maxLossPer <= 0 {
			return nil, fmt.Errorf("%w: width=%.2f credit=%.2f on %s",
				ErrInvalidSpread, spread.Width, spread.Credit, date.Format("2006-01-02"))
		}

		contracts := strat.Sizing.contractsFor(capital, strat.TargetPositions, maxLossPer, vix)
		open = append(open, Position{
			EntryDate:          date,
			Expiration:         spread.Expiration,
			ShortStrike:        spread.ShortStrike,
			LongStrike:         spread.LongStrike,
			Credit:             spread.Credit,
			Width:              spread.Width,
			MaxLossPerContract: maxLossPer,
			Contracts:          contracts,
			VIXEntry:           vix,
			CapitalAtEntry:     capital,
			DTEAtEntry:         spread.DTE,
		})
		lastEntry = date
		logger.Infof("event=entry date=%s short=%.1f long=%.1f credit=%.2f contracts=%d exp=%s",
			date.Format("2006-01-02"), spread.ShortStrike, spread.LongStrike,
			spread.Credit, contracts, spread.Expiration.Format("2006-01-02"))
	}

	logger.Infof("event=run_done strategy=%s trades=%d open=%d capital=%.2f",
		strat.Name, len(trades), len(open), capital)

	return &Result{
		Strategy:        strat.Name,
		StartingCapital: startingCapital,
		FinalCapital:    capital,
		Trades:          trades,
		OpenPositions:   open,
	}, nil
}

// settle converts an expired position into a closed trade and applies its
// P&L to the capital ledger. Settlement is intrinsic value of the short
// leg net of the long leg, clamped to [0, width]: the defined-risk bound.
func settle(pos Position, level float64, capital *float64) ClosedTrade {
	shortIntr := max(0, level-pos.ShortStrike)
	longIntr := max(0, level-pos.LongStrike)
	settlement := min(shortIntr-longIntr, pos.Width)
	if settlement < 0 {
		settlement = 0
	}

	pnlPer := (pos.Credit - settlement) * 100
	total := pnlPer * float64(pos.Contracts)
	*capital += total

	return ClosedTrade{
		Position:       pos,
		ExitDate:       pos.Expiration,
		VIXExit:        level,
		Settlement:     settlement,
		PnLPerContract: pnlPer,
		TotalPnL:       total,
		CapitalAfter:   *capital,
		Win:            pnlPer > 0,
	}
}

// entryDue reports whether enough calendar days have passed since the
// last entry. A zero lastEntry means no prior entry.
func entryDue(lastEntry, date time.Time, intervalDays int) bool {
	if lastEntry.IsZero() {
		return true
	}
	return int(date.Sub(lastEntry).Hours()/24) >= intervalDays
}
