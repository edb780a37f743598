package backtest

import "math"

// SizingMode selects how many contracts a new position opens with.
type SizingMode string

const (
	// SizeFixedFraction risks an equal slice of current capital per
	// position slot: floor((capital/targetPositions)/maxLossPerContract),
	// clamped to a minimum of one contract.
	SizeFixedFraction SizingMode = "fixed_fraction"
	// SizeFixed opens a constant number of contracts.
	SizeFixed SizingMode = "fixed"
	// SizeVIXScaled steps contract count with the underlying level:
	// 3 at or above 30, 2 at or above 22, otherwise 1.
	SizeVIXScaled SizingMode = "vix_scaled"
)

// SizingConfig parameterizes position sizing.
type SizingConfig struct {
	Mode      SizingMode `json:"mode,omitempty" yaml:"mode"`
	Contracts int        `json:"contracts,omitempty" yaml:"contracts"`
}

// contractsFor computes the contract count for a new position. The clamp
// to one contract preserves the reference behavior of always entering when
// a spread is found, even underfunded.
func (s SizingConfig) contractsFor(capital float64, targetPositions int, maxLossPerContract, vix float64) int {
	switch s.Mode {
	case SizeFixed:
		if s.Contracts < 1 {
			return 1
		}
		return s.Contracts
	case SizeVIXScaled:
		switch {
		case vix >= 30:
			return 3
		case vix >= 22:
			return 2
		default:
			return 1
		}
	default:
		perSlot := capital / float64(targetPositions)
		affordable := int(math.Floor(perSlot / maxLossPerContract))
		if affordable < 1 {
			return 1
		}
		return affordable
	}
}
