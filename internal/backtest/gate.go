package backtest

import (
	"time"

	"github.com/contactkeval/vix-spread-backtest/internal/data"
)

// GateMode selects the entry-gate predicate evaluated before each entry.
type GateMode string

const (
	// GateAlways admits every eligible entry day.
	GateAlways GateMode = "always"
	// GateAbove admits entry only while the underlying is above Threshold.
	GateAbove GateMode = "above"
	// GatePostSpike admits entry when the underlying touched Threshold
	// within the lookback window but has since fallen below it.
	GatePostSpike GateMode = "post_spike"
)

// GateConfig parameterizes the entry gate.
type GateConfig struct {
	Mode         GateMode `json:"mode,omitempty" yaml:"mode"`
	Threshold    float64  `json:"threshold,omitempty" yaml:"threshold"`
	LookbackDays int      `json:"lookback_days,omitempty" yaml:"lookback_days"`
}

const defaultSpikeLookbackDays = 10

// allows evaluates the gate for one trading day.
func (g GateConfig) allows(chain *data.Chain, date time.Time, vix float64) bool {
	switch g.Mode {
	case GateAbove:
		return vix > g.Threshold
	case GatePostSpike:
		if vix >= g.Threshold {
			return false
		}
		lookback := g.LookbackDays
		if lookback <= 0 {
			lookback = defaultSpikeLookbackDays
		}
		from := date.AddDate(0, 0, -lookback)
		for _, d := range chain.Dates() {
			if !d.Before(date) {
				break
			}
			if d.Before(from) {
				continue
			}
			if level, ok := chain.UnderlyingOn(d); ok && level >= g.Threshold {
				return true
			}
		}
		return false
	default:
		return true
	}
}
