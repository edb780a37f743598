package backtest

import "testing"

func TestContractsFor(t *testing.T) {
	tests := []struct {
		name     string
		sizing   SizingConfig
		capital  float64
		targets  int
		maxLoss  float64
		vix      float64
		expected int
	}{
		{"fixed fraction", SizingConfig{Mode: SizeFixedFraction}, 40000, 1, 850, 18, 47},
		{"fixed fraction split slots", SizingConfig{Mode: SizeFixedFraction}, 40000, 3, 850, 18, 15},
		{"fixed fraction underfunded", SizingConfig{Mode: SizeFixedFraction}, 500, 1, 850, 18, 1},
		{"fixed", SizingConfig{Mode: SizeFixed, Contracts: 5}, 40000, 1, 850, 18, 5},
		{"fixed defaults to one", SizingConfig{Mode: SizeFixed}, 40000, 1, 850, 18, 1},
		{"vix scaled calm", SizingConfig{Mode: SizeVIXScaled}, 40000, 1, 850, 18, 1},
		{"vix scaled elevated", SizingConfig{Mode: SizeVIXScaled}, 40000, 1, 850, 24, 2},
		{"vix scaled panic", SizingConfig{Mode: SizeVIXScaled}, 40000, 1, 850, 31, 3},
	}
	for _, test := range tests {
		got := test.sizing.contractsFor(test.capital, test.targets, test.maxLoss, test.vix)
		if got != test.expected {
			t.Fatalf("%s: expected %d contracts, got %d", test.name, test.expected, got)
		}
	}
}
