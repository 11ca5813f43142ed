// Package gann implements the price/time geometry engine: time-cycle
// detection, square-of-nine price ladders, angle-line projection,
// support/resistance zone clustering, time-price resonance scoring and
// prediction synthesis. All computations are pure functions of an
// immutable Series snapshot and an explicit Config.
package gann

import (
	"fmt"

	"github.com/quantgeo/gannwheel/internal/core"
)

// Config holds the tunables of the geometry engine. Zero values are not
// usable; start from DefaultConfig.
type Config struct {
	// TimeCycles are the candidate cycle lengths in calendar days.
	TimeCycles []int `mapstructure:"time_cycles" json:"time_cycles"`

	// PriceSquares are the square numbers used to derive price ladders.
	PriceSquares []int `mapstructure:"price_squares" json:"price_squares"`

	// AngleRatios are the projected angle tags, price units per time
	// unit, e.g. "1x1", "2x1", "1x2".
	AngleRatios []string `mapstructure:"angle_ratios" json:"angle_ratios"`

	// PivotWindow is the look-around window for local extrema.
	PivotWindow int `mapstructure:"pivot_window" json:"pivot_window"`

	// CycleTolerance is the fractional tolerance when matching pivot
	// spacings against a cycle length.
	CycleTolerance float64 `mapstructure:"cycle_tolerance" json:"cycle_tolerance"`

	// MinCycleConfidence is the threshold below which a candidate cycle
	// is discarded.
	MinCycleConfidence float64 `mapstructure:"min_cycle_confidence" json:"min_cycle_confidence"`

	// ZoneTolerance is the fractional price tolerance for merging
	// candidate levels into zones.
	ZoneTolerance float64 `mapstructure:"zone_tolerance" json:"zone_tolerance"`

	// LadderSteps is the number of 1/8 steps on each side of a square
	// root when building a price ladder.
	LadderSteps int `mapstructure:"ladder_steps" json:"ladder_steps"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		TimeCycles:         []int{7, 14, 21, 30, 45, 60, 90},
		PriceSquares:       []int{144, 169, 225},
		AngleRatios:        []string{"1x1", "2x1", "1x2", "4x1", "1x4"},
		PivotWindow:        5,
		CycleTolerance:     0.10,
		MinCycleConfidence: 0.3,
		ZoneTolerance:      0.01,
		LadderSteps:        8,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if len(c.TimeCycles) == 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("time_cycles must not be empty"))
	}
	for _, l := range c.TimeCycles {
		if l < 2 {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("time_cycles entries must be >= 2, got %d", l))
		}
	}
	if len(c.PriceSquares) == 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("price_squares must not be empty"))
	}
	for _, s := range c.PriceSquares {
		if s < 1 {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("price_squares entries must be >= 1, got %d", s))
		}
	}
	if len(c.AngleRatios) == 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("angle_ratios must not be empty"))
	}
	for _, tag := range c.AngleRatios {
		if _, err := parseRatio(tag); err != nil {
			return core.WrapError(core.ErrConfigInvalid, err)
		}
	}
	if c.PivotWindow < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("pivot_window must be >= 1, got %d", c.PivotWindow))
	}
	if c.CycleTolerance <= 0 || c.CycleTolerance >= 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("cycle_tolerance must be in (0, 1), got %f", c.CycleTolerance))
	}
	if c.MinCycleConfidence < 0 || c.MinCycleConfidence > 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("min_cycle_confidence must be in [0, 1], got %f", c.MinCycleConfidence))
	}
	if c.ZoneTolerance <= 0 || c.ZoneTolerance >= 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("zone_tolerance must be in (0, 1), got %f", c.ZoneTolerance))
	}
	if c.LadderSteps < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("ladder_steps must be >= 1, got %d", c.LadderSteps))
	}
	return nil
}

// MaxCycle returns the largest configured cycle length.
func (c Config) MaxCycle() int {
	max := 0
	for _, l := range c.TimeCycles {
		if l > max {
			max = l
		}
	}
	return max
}
