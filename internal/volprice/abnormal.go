package volprice

import (
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/indicator"
)

// AbnormalVolume lists bars whose volume departed from the rolling
// baseline by the configured threshold.
type AbnormalVolume struct {
	Spikes   []time.Time `json:"spikes,omitempty"`
	Dries    []time.Time `json:"dries,omitempty"`
	AvgRatio float64     `json:"avg_ratio"`
}

// DetectAbnormalVolume flags spike bars (ratio to the rolling baseline
// average at or above the threshold) and dry bars (ratio at or below
// its reciprocal). AvgRatio is the mean ratio over the covered bars.
func DetectAbnormalVolume(s *core.Series, cfg Config) AbnormalVolume {
	period := cfg.BaselinePeriod()
	ratios := indicator.RelativeVolume(s.Volumes(), period)

	var out AbnormalVolume
	if len(ratios) == 0 {
		return out
	}

	sum := 0.0
	for i, r := range ratios {
		bar := s.Bars[i+period-1]
		switch {
		case r >= cfg.VolumeThreshold:
			out.Spikes = append(out.Spikes, bar.Date)
		case r <= 1/cfg.VolumeThreshold:
			// A zero ratio is the driest bar possible, not a gap in
			// coverage: every ratio here has a filled window behind it.
			out.Dries = append(out.Dries, bar.Date)
		}
		sum += r
	}
	out.AvgRatio = sum / float64(len(ratios))
	return out
}

// volumeRatios exposes the per-bar relative volume aligned to the full
// series: index i holds the ratio for bar i, zero where the baseline
// window has not filled yet.
func volumeRatios(s *core.Series, cfg Config) []float64 {
	period := cfg.BaselinePeriod()
	ratios := indicator.RelativeVolume(s.Volumes(), period)
	aligned := make([]float64, s.Len())
	for i, r := range ratios {
		aligned[i+period-1] = r
	}
	return aligned
}
