// Package backtest contains the spread finder and the event-driven replay
// engine for option-selling strategies.
//
// Responsibilities:
//   - Resolve strike rules into concrete target strikes
//   - Locate tradable short/long call pairs in a day's quotes
//   - Replay trading days: settle expiring positions, open new ones,
//     and maintain the capital ledger
//
// Design notes:
//   - The engine is deterministic given its inputs
//   - All run state lives in the run, never at package level
//   - Errors are typed where useful and wrapped for caller inspection
package backtest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/contactkeval/vix-spread-backtest/internal/logger"
)

// Typed errors allow callers and tests to detect failure categories
// without string matching.
var (
	ErrInvalidStrikeRule = errors.New("invalid strike rule")
	ErrInvalidSpread     = errors.New("invalid spread: max loss per contract is not positive")
)

// DefaultStrikeStep is the rounding granularity applied to computed
// strike targets when a strategy does not set one. VIX strikes are listed
// on a 2.5-point grid through most of the chain.
const DefaultStrikeStep = 2.5

// StrikeTarget is a resolved strike target for one leg.
//
// Exact targets require a listed strike at exactly that level; inexact
// targets pick the nearest listed strike with a live bid.
type StrikeTarget struct {
	Strike float64
	Exact  bool
}

// ResolveStrike converts a strike rule into a concrete target for the day.
//
// Supported formats:
//   - ABS:35          fixed strike, exact match
//   - OFFSET:+10      underlying plus offset, rounded to step, nearest match
//   - VIX * 1.2       arbitrary expression over VIX, rounded to step, nearest match
//
// The underlying level for the day is exposed to expressions as VIX.
func ResolveStrike(rule string, vix, step float64) (StrikeTarget, error) {
	rule = strings.TrimSpace(strings.ToUpper(rule))
	logger.Tracef("event=resolve_strike rule=%q vix=%.2f", rule, vix)

	if rule == "" {
		return StrikeTarget{}, fmt.Errorf("%w: empty rule", ErrInvalidStrikeRule)
	}

	if after, ok := strings.CutPrefix(rule, "ABS:"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(after), 64)
		if err != nil {
			return StrikeTarget{}, fmt.Errorf("%w: %s", ErrInvalidStrikeRule, rule)
		}
		return StrikeTarget{Strike: v, Exact: true}, nil
	}

	if after, ok := strings.CutPrefix(rule, "OFFSET:"); ok {
		off, err := strconv.ParseFloat(strings.TrimSpace(after), 64)
		if err != nil {
			return StrikeTarget{}, fmt.Errorf("%w: %s", ErrInvalidStrikeRule, rule)
		}
		return StrikeTarget{Strike: roundToStep(vix+off, step)}, nil
	}

	// Anything else is an expression over VIX.
	expr, err := govaluate.NewEvaluableExpression(rule)
	if err != nil {
		return StrikeTarget{}, fmt.Errorf("%w: %s: %v", ErrInvalidStrikeRule, rule, err)
	}
	out, err := expr.Evaluate(map[string]any{"VIX": vix})
	if err != nil {
		return StrikeTarget{}, fmt.Errorf("%w: %s: %v", ErrInvalidStrikeRule, rule, err)
	}
	v, ok := out.(float64)
	if !ok {
		return StrikeTarget{}, fmt.Errorf("%w: %s: non-numeric result", ErrInvalidStrikeRule, rule)
	}
	return StrikeTarget{Strike: roundToStep(v, step)}, nil
}

func roundToStep(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
