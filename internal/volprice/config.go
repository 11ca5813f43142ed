// Package volprice implements the volume-price relationship engine:
// return/volume correlation, divergence detection at price extremes,
// abnormal volume identification, coordination scoring, trading signal
// generation and letter-grade rating. Like the geometry engine it is
// pure: one immutable Series snapshot in, one Result out.
package volprice

import (
	"fmt"

	"github.com/quantgeo/gannwheel/internal/core"
)

// Config holds the tunables of the volume-price engine.
type Config struct {
	// MAPeriods are the moving-average windows, ascending. The first
	// is the signal crossover average, the last the abnormal-volume
	// baseline window.
	MAPeriods []int `mapstructure:"ma_periods" json:"ma_periods"`

	// VolumeThreshold is the relative-volume ratio above which a bar is
	// a spike; its reciprocal marks a dry bar. Must be > 1.
	VolumeThreshold float64 `mapstructure:"volume_threshold" json:"volume_threshold"`

	// CorrelationPeriod is the trailing window for the return/volume
	// Pearson correlation.
	CorrelationPeriod int `mapstructure:"correlation_period" json:"correlation_period"`

	// DivergenceThreshold is the minimum fractional volume shortfall
	// (or excess) between consecutive price extremes to call divergence.
	DivergenceThreshold float64 `mapstructure:"divergence_threshold" json:"divergence_threshold"`

	// PivotWindow is the look-around window for price extremes.
	PivotWindow int `mapstructure:"pivot_window" json:"pivot_window"`

	// CoordinationCuts split combined strength into low/medium/high.
	CoordinationCuts [2]float64 `mapstructure:"coordination_cuts" json:"coordination_cuts"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MAPeriods:           []int{5, 10, 20, 60},
		VolumeThreshold:     2.0,
		CorrelationPeriod:   20,
		DivergenceThreshold: 0.15,
		PivotWindow:         5,
		CoordinationCuts:    [2]float64{0.4, 0.7},
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if len(c.MAPeriods) == 0 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("ma_periods must not be empty"))
	}
	for i, p := range c.MAPeriods {
		if p < 1 {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("ma_periods entries must be >= 1, got %d", p))
		}
		if i > 0 && p <= c.MAPeriods[i-1] {
			return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("ma_periods must be strictly ascending"))
		}
	}
	if c.VolumeThreshold <= 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("volume_threshold must be > 1, got %f", c.VolumeThreshold))
	}
	if c.CorrelationPeriod <= 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("correlation_period must be > 1, got %d", c.CorrelationPeriod))
	}
	if c.DivergenceThreshold <= 0 || c.DivergenceThreshold >= 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("divergence_threshold must be in (0, 1), got %f", c.DivergenceThreshold))
	}
	if c.PivotWindow < 1 {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("pivot_window must be >= 1, got %d", c.PivotWindow))
	}
	lo, hi := c.CoordinationCuts[0], c.CoordinationCuts[1]
	if lo <= 0 || hi >= 1 || lo >= hi {
		return core.WrapError(core.ErrConfigInvalid, fmt.Errorf("coordination_cuts must satisfy 0 < low < high < 1, got %v", c.CoordinationCuts))
	}
	return nil
}

// ShortPeriod is the crossover moving-average window.
func (c Config) ShortPeriod() int { return c.MAPeriods[0] }

// BaselinePeriod is the abnormal-volume averaging window.
func (c Config) BaselinePeriod() int { return c.MAPeriods[len(c.MAPeriods)-1] }
