// Package config loads strategy files (YAML) and carries the named
// presets that replace the original one-off strategy variants.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/contactkeval/vix-spread-backtest/internal/backtest"
)

// DefaultStartingCapital matches the reference runs.
const DefaultStartingCapital = 40000

// Config is the on-disk configuration shape (YAML). A file carries either
// one strategy or a variants list for sweeps.
type Config struct {
	Backtest RunConfig           `yaml:"backtest"`
	Strategy *backtest.Strategy  `yaml:"strategy"`
	Variants []backtest.Strategy `yaml:"variants"`
}

// RunConfig holds run-level settings shared by all variants.
type RunConfig struct {
	StartingCapital float64 `yaml:"starting_capital"`
	OutputDir       string  `yaml:"output_dir"`
}

// Load reads, defaults, and validates a strategy file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if c.Backtest.StartingCapital == 0 {
		c.Backtest.StartingCapital = DefaultStartingCapital
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks run settings and every strategy in the file.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Backtest.StartingCapital <= 0 {
		return errors.New("backtest.starting_capital must be > 0")
	}
	if c.Strategy == nil && len(c.Variants) == 0 {
		return errors.New("config needs a strategy or a variants list")
	}
	if c.Strategy != nil {
		if err := c.Strategy.Validate(); err != nil {
			return err
		}
	}
	for i := range c.Variants {
		if err := c.Variants[i].Validate(); err != nil {
			return fmt.Errorf("variant %d: %w", i, err)
		}
	}
	return nil
}

// Strategies returns every strategy the file defines, single first.
func (c *Config) Strategies() []backtest.Strategy {
	var out []backtest.Strategy
	if c.Strategy != nil {
		out = append(out, *c.Strategy)
	}
	return append(out, c.Variants...)
}

// Presets are the named strategy variants carried over from the original
// analysis, collapsed onto the single parameterized engine.
func Presets() []backtest.Strategy {
	return []backtest.Strategy{
		{
			// 35/45 absolute spread, three staggered positions, monthly.
			Name:              "staggered_absolute",
			ShortStrike:       "ABS:35",
			LongStrike:        "ABS:45",
			DTEMin:            60,
			DTEMax:            100,
			EntryIntervalDays: 28,
			TargetPositions:   3,
		},
		{
			Name:              "baseline_offset",
			ShortStrike:       "OFFSET:+10",
			LongStrike:        "OFFSET:+20",
			DTEMin:            25,
			DTEMax:            45,
			MinCredit:         0.10,
			EntryIntervalDays: 28,
			TargetPositions:   1,
		},
		{
			Name:              "wider_offset",
			ShortStrike:       "OFFSET:+10",
			LongStrike:        "OFFSET:+25",
			DTEMin:            25,
			DTEMax:            45,
			MinCredit:         0.10,
			EntryIntervalDays: 28,
			TargetPositions:   1,
		},
		{
			// Narrower spread closer to the money, smaller max loss.
			Name:              "tight_spread",
			ShortStrike:       "OFFSET:+5",
			LongStrike:        "OFFSET:+15",
			DTEMin:            25,
			DTEMax:            45,
			MinCredit:         0.10,
			EntryIntervalDays: 28,
			TargetPositions:   1,
		},
		{
			Name:              "twice_monthly",
			ShortStrike:       "OFFSET:+10",
			LongStrike:        "OFFSET:+20",
			DTEMin:            25,
			DTEMax:            60,
			MinCredit:         0.10,
			EntryIntervalDays: 14,
			TargetPositions:   2,
		},
		{
			// Relative strikes on a 5-point grid, only after a spike.
			Name:              "post_spike",
			ShortStrike:       "VIX * 1.2",
			LongStrike:        "VIX * 1.4",
			StrikeStep:        5,
			DTEMin:            25,
			DTEMax:            45,
			MinCredit:         0.20,
			EntryIntervalDays: 28,
			TargetPositions:   1,
			Gate: backtest.GateConfig{
				Mode:      backtest.GateAbove,
				Threshold: 30,
			},
		},
		{
			Name:              "vix_scaled_sizing",
			ShortStrike:       "OFFSET:+10",
			LongStrike:        "OFFSET:+20",
			DTEMin:            25,
			DTEMax:            45,
			MinCredit:         0.10,
			EntryIntervalDays: 28,
			TargetPositions:   1,
			Sizing:            backtest.SizingConfig{Mode: backtest.SizeVIXScaled},
		},
	}
}
