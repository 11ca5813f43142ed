package volprice

import (
	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/indicator"
)

// Short-horizon change thresholds for calling a direction.
const (
	priceTrendCut  = 0.02
	volumeTrendCut = 0.2
)

// TrendDirection is the short-horizon price direction.
type TrendDirection string

const (
	TrendUp       TrendDirection = "up"
	TrendDown     TrendDirection = "down"
	TrendSideways TrendDirection = "sideways"
)

// VolumeDirection is the short-horizon volume direction.
type VolumeDirection string

const (
	VolumeIncreasing VolumeDirection = "increasing"
	VolumeDecreasing VolumeDirection = "decreasing"
	VolumeStable     VolumeDirection = "stable"
)

// TrendReport compares the short-horizon price and volume directions.
type TrendReport struct {
	PriceDirection TrendDirection `json:"price_direction"`
	PriceChange    float64        `json:"price_change"`
	// PriceSlope is the fitted per-bar drift over the short window,
	// as a fraction of the window's mean close.
	PriceSlope      float64         `json:"price_slope"`
	VolumeDirection VolumeDirection `json:"volume_direction"`
	VolumeChange    float64         `json:"volume_change"`
	// Sync: price and volume trend in the same direction, rising prices
	// on rising volume or falling prices on falling volume.
	Sync bool `json:"sync"`
}

// AnalyzeTrend measures the price change over the last short window and
// the change in smoothed volume across it, then classifies each against
// fixed cut points.
func AnalyzeTrend(s *core.Series, cfg Config) TrendReport {
	short := cfg.ShortPeriod()
	closes := s.Closes()
	volumes := s.Volumes()

	var report TrendReport
	if len(closes) > short {
		if base := closes[len(closes)-1-short]; base > 0 {
			report.PriceChange = (closes[len(closes)-1] - base) / base
		}
		window := closes[len(closes)-1-short:]
		if m := mean(window); m > 0 {
			report.PriceSlope = indicator.Slope(window) / m
		}
	}
	switch {
	case report.PriceChange > priceTrendCut:
		report.PriceDirection = TrendUp
	case report.PriceChange < -priceTrendCut:
		report.PriceDirection = TrendDown
	default:
		report.PriceDirection = TrendSideways
	}

	// Smooth the volume first so one spike does not flip the direction.
	smoothed := indicator.EMA(volumes, short)
	if len(smoothed) > short {
		recent := smoothed[len(smoothed)-1]
		previous := smoothed[len(smoothed)-1-short]
		if previous > 0 {
			report.VolumeChange = (recent - previous) / previous
		}
	}
	switch {
	case report.VolumeChange > volumeTrendCut:
		report.VolumeDirection = VolumeIncreasing
	case report.VolumeChange < -volumeTrendCut:
		report.VolumeDirection = VolumeDecreasing
	default:
		report.VolumeDirection = VolumeStable
	}

	report.Sync = (report.PriceDirection == TrendUp && report.VolumeDirection == VolumeIncreasing) ||
		(report.PriceDirection == TrendDown && report.VolumeDirection == VolumeDecreasing)
	return report
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
