package volprice

import (
	"sort"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/indicator"
)

// Cut points for the volume pattern scan.
const (
	consolidationCut     = 0.7 // volume below this fraction of its mean
	consolidationMinBars = 3
	runLength            = 5 // bars for decline/increase runs
	declineCut           = 0.3
	increaseCut          = 0.5
	spikeSigma           = 3.0
	recentPatternBars    = 5
)

// PatternKind names one recognized volume pattern.
type PatternKind string

const (
	PatternBreakout      PatternKind = "volume_breakout"
	PatternConsolidation PatternKind = "volume_consolidation"
	PatternSpike         PatternKind = "abnormal_volume_spike"
	PatternDecline       PatternKind = "volume_decline"
	PatternIncrease      PatternKind = "volume_increase"
)

// Pattern is one recognized stretch of volume behavior.
type Pattern struct {
	Kind        PatternKind `json:"kind"`
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	VolumeRatio float64     `json:"volume_ratio,omitempty"`
	PriceChange float64     `json:"price_change,omitempty"`
	Strength    float64     `json:"strength"`
}

// PatternSummary aggregates the scan.
type PatternSummary struct {
	Total       int                 `json:"total"`
	Counts      map[PatternKind]int `json:"counts,omitempty"`
	MostCommon  PatternKind         `json:"most_common,omitempty"`
	AvgStrength float64             `json:"avg_strength"`
}

// PatternReport lists every pattern in order plus the ones still
// active near the end of the series.
type PatternReport struct {
	Patterns []Pattern      `json:"patterns,omitempty"`
	Current  []Pattern      `json:"current,omitempty"`
	Summary  PatternSummary `json:"summary"`
}

// IdentifyPatterns scans the series for breakouts, consolidations,
// abnormal spikes and sustained volume runs. An empty report is a
// valid quiet-series result.
func IdentifyPatterns(s *core.Series, cfg Config) PatternReport {
	var patterns []Pattern
	patterns = append(patterns, findBreakouts(s, cfg)...)
	patterns = append(patterns, findConsolidations(s, cfg)...)
	patterns = append(patterns, findSpikes(s, cfg)...)
	patterns = append(patterns, findVolumeRuns(s, PatternDecline)...)
	patterns = append(patterns, findVolumeRuns(s, PatternIncrease)...)

	sort.SliceStable(patterns, func(i, j int) bool {
		if !patterns[i].Start.Equal(patterns[j].Start) {
			return patterns[i].Start.Before(patterns[j].Start)
		}
		return patterns[i].Kind < patterns[j].Kind
	})

	report := PatternReport{Patterns: patterns, Summary: summarize(patterns)}
	if n := s.Len(); n >= recentPatternBars {
		cutoff := s.Bars[n-recentPatternBars].Date
		for _, p := range patterns {
			if !p.End.Before(cutoff) {
				report.Current = append(report.Current, p)
			}
		}
	}
	return report
}

// findBreakouts scans for bars where volume exceeds its rolling mean
// by the configured threshold while the close clears the price mean.
func findBreakouts(s *core.Series, cfg Config) []Pattern {
	period := cfg.CorrelationPeriod
	volumes := s.Volumes()
	closes := s.Closes()
	volMA := indicator.SMA(volumes, period)
	priceMA := indicator.SMA(closes, period)

	var out []Pattern
	for j := range volMA {
		i := j + period - 1
		if volMA[j] <= 0 || priceMA[j] <= 0 {
			continue
		}
		ratio := volumes[i] / volMA[j]
		if ratio <= cfg.VolumeThreshold {
			continue
		}
		if closes[i] <= priceMA[j]*(1+priceTrendCut) {
			continue
		}
		out = append(out, Pattern{
			Kind:        PatternBreakout,
			Start:       s.Bars[i].Date,
			End:         s.Bars[i].Date,
			VolumeRatio: ratio,
			PriceChange: (closes[i] - priceMA[j]) / priceMA[j],
			Strength:    capAt(ratio/cfg.VolumeThreshold, 2),
		})
	}
	return out
}

// findConsolidations collects stretches where volume sits below a
// fraction of its rolling mean for several consecutive bars.
func findConsolidations(s *core.Series, cfg Config) []Pattern {
	period := cfg.CorrelationPeriod
	volumes := s.Volumes()
	volMA := indicator.SMA(volumes, period)

	var out []Pattern
	runStart := -1
	flush := func(end int) {
		if runStart < 0 {
			return
		}
		if end-runStart+1 >= consolidationMinBars {
			var ratioSum float64
			for i := runStart; i <= end; i++ {
				ratioSum += volumes[i] / volMA[i-period+1]
			}
			out = append(out, Pattern{
				Kind:        PatternConsolidation,
				Start:       s.Bars[runStart].Date,
				End:         s.Bars[end].Date,
				VolumeRatio: ratioSum / float64(end-runStart+1),
				Strength:    1,
			})
		}
		runStart = -1
	}
	for j := range volMA {
		i := j + period - 1
		low := volMA[j] > 0 && volumes[i] < volMA[j]*consolidationCut
		if low && runStart < 0 {
			runStart = i
		}
		if !low {
			flush(i - 1)
		}
	}
	flush(s.Len() - 1)
	return out
}

// findSpikes flags volume above the rolling mean plus three standard
// deviations over the baseline window.
func findSpikes(s *core.Series, cfg Config) []Pattern {
	period := cfg.BaselinePeriod()
	volumes := s.Volumes()
	closes := s.Closes()
	volMA := indicator.SMA(volumes, period)
	volStd := indicator.RollingStd(volumes, period)

	var out []Pattern
	for j := range volMA {
		if j >= len(volStd) {
			break
		}
		i := j + period - 1
		if volMA[j] <= 0 || volumes[i] <= volMA[j]+spikeSigma*volStd[j] {
			continue
		}
		ratio := volumes[i] / volMA[j]
		var change float64
		if i > 0 && closes[i-1] > 0 {
			change = (closes[i] - closes[i-1]) / closes[i-1]
		}
		out = append(out, Pattern{
			Kind:        PatternSpike,
			Start:       s.Bars[i].Date,
			End:         s.Bars[i].Date,
			VolumeRatio: ratio,
			PriceChange: change,
			Strength:    capAt(ratio/spikeSigma, 3),
		})
	}
	return out
}

// findVolumeRuns flags windows where volume moves monotonically in one
// direction by more than the cut for that direction.
func findVolumeRuns(s *core.Series, kind PatternKind) []Pattern {
	volumes := s.Volumes()

	var out []Pattern
	for i := runLength - 1; i < len(volumes); i++ {
		window := volumes[i-runLength+1 : i+1]
		if window[0] <= 0 {
			continue
		}
		monotone := true
		for k := 1; k < len(window); k++ {
			if kind == PatternDecline && window[k] > window[k-1] {
				monotone = false
				break
			}
			if kind == PatternIncrease && window[k] < window[k-1] {
				monotone = false
				break
			}
		}
		if !monotone {
			continue
		}
		change := (window[len(window)-1] - window[0]) / window[0]
		switch kind {
		case PatternDecline:
			if -change <= declineCut {
				continue
			}
			out = append(out, Pattern{
				Kind:     kind,
				Start:    s.Bars[i-runLength+1].Date,
				End:      s.Bars[i].Date,
				Strength: capAt(-change, 1),
			})
		case PatternIncrease:
			if change <= increaseCut {
				continue
			}
			out = append(out, Pattern{
				Kind:     kind,
				Start:    s.Bars[i-runLength+1].Date,
				End:      s.Bars[i].Date,
				Strength: capAt(change, 2),
			})
		}
	}
	return out
}

func summarize(patterns []Pattern) PatternSummary {
	summary := PatternSummary{Total: len(patterns)}
	if len(patterns) == 0 {
		return summary
	}

	counts := make(map[PatternKind]int)
	var strengthSum float64
	for _, p := range patterns {
		counts[p.Kind]++
		strengthSum += p.Strength
	}
	summary.Counts = counts
	summary.AvgStrength = strengthSum / float64(len(patterns))

	for kind, n := range counts {
		if n > counts[summary.MostCommon] || (n == counts[summary.MostCommon] && (summary.MostCommon == "" || kind < summary.MostCommon)) {
			summary.MostCommon = kind
		}
	}
	return summary
}

func capAt(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	return v
}
