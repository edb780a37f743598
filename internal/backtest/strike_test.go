package backtest

import (
	"errors"
	"testing"
)

func TestResolveStrike(t *testing.T) {
	tests := []struct {
		rule     string
		vix      float64
		step     float64
		expected float64
		exact    bool
	}{
		{"ABS:35", 18, 2.5, 35, true},
		{"ABS:42.5", 30, 2.5, 42.5, true},
		{"abs:35", 18, 2.5, 35, true},
		{"OFFSET:+10", 18, 2.5, 27.5, false},
		{"OFFSET:+20", 18, 2.5, 37.5, false},
		{"OFFSET:-5", 22, 2.5, 17.5, false},
		{"VIX * 1.2", 35, 5, 40, false},
		{"VIX * 1.4", 35, 5, 50, false},
		{"VIX + 10", 18.7, 2.5, 27.5, false},
	}

	for _, test := range tests {
		target, err := ResolveStrike(test.rule, test.vix, test.step)
		if err != nil {
			t.Fatalf("failed to resolve strike rule {%s}: %v", test.rule, err)
		}
		if target.Strike != test.expected {
			t.Fatalf("for rule {%s} at vix %.1f, expected %f, got %f",
				test.rule, test.vix, test.expected, target.Strike)
		}
		if target.Exact != test.exact {
			t.Fatalf("for rule {%s}, expected exact=%v", test.rule, test.exact)
		}
	}
}

func TestResolveStrikeErrors(t *testing.T) {
	for _, rule := range []string{"", "ABS:abc", "OFFSET:x", "VIX > 30", "FOO(("} {
		_, err := ResolveStrike(rule, 20, 2.5)
		if !errors.Is(err, ErrInvalidStrikeRule) {
			t.Fatalf("for rule {%s}, expected ErrInvalidStrikeRule, got %v", rule, err)
		}
	}
}
