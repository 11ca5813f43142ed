package volprice

import (
	"sort"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/indicator"
)

// recentDivergenceBars is how far back an event still counts as the
// current divergence state.
const recentDivergenceBars = 30

// DivergenceKind distinguishes top from bottom divergence.
type DivergenceKind string

const (
	// TopDivergence: price makes a higher high on meaningfully lower
	// volume.
	TopDivergence DivergenceKind = "top"
	// BottomDivergence: price makes a lower low on meaningfully higher
	// volume.
	BottomDivergence DivergenceKind = "bottom"
)

// DivergenceStrength buckets the volume mismatch magnitude.
type DivergenceStrength string

const (
	StrengthNone   DivergenceStrength = "none"
	StrengthWeak   DivergenceStrength = "weak"
	StrengthMedium DivergenceStrength = "medium"
	StrengthStrong DivergenceStrength = "strong"
)

// DivergenceEvent is one confirmed divergence between two consecutive
// same-side price extremes.
type DivergenceEvent struct {
	Date       time.Time      `json:"date"`
	Index      int            `json:"index"`
	Kind       DivergenceKind `json:"kind"`
	Price      float64        `json:"price"`
	Volume     int64          `json:"volume"`
	PrevPrice  float64        `json:"prev_price"`
	PrevVolume int64          `json:"prev_volume"`
	// Strength is the fractional volume mismatch, |Δvolume| / previous
	// extreme volume.
	Strength float64 `json:"strength"`
}

// DivergenceReport summarizes divergence over the series.
type DivergenceReport struct {
	// PriceDivergence: a top divergence fired within the recency window.
	PriceDivergence bool `json:"price_divergence"`
	// VolumeDivergence: a bottom divergence fired within the recency
	// window.
	VolumeDivergence bool               `json:"volume_divergence"`
	Strength         DivergenceStrength `json:"strength"`
	Events           []DivergenceEvent  `json:"events,omitempty"`
}

// extreme is a local price extreme with the volume that printed it.
type extreme struct {
	index  int
	date   time.Time
	price  float64
	volume int64
}

// DetectDivergence finds price extremes and compares volume across
// consecutive same-side extremes: a fresh price high that volume fails
// to confirm is a top divergence, a fresh low on swelling volume a
// bottom divergence. A monotonic series has no extremes and therefore
// no divergence.
func DetectDivergence(s *core.Series, cfg Config) DivergenceReport {
	highs := findExtremes(s.Bars, cfg.PivotWindow, true)
	lows := findExtremes(s.Bars, cfg.PivotWindow, false)

	var events []DivergenceEvent
	for i := 1; i < len(highs); i++ {
		cur, prev := highs[i], highs[i-1]
		if cur.price > prev.price && float64(cur.volume) < float64(prev.volume)*(1-cfg.DivergenceThreshold) {
			events = append(events, newEvent(TopDivergence, cur, prev))
		}
	}
	for i := 1; i < len(lows); i++ {
		cur, prev := lows[i], lows[i-1]
		if cur.price < prev.price && float64(cur.volume) > float64(prev.volume)*(1+cfg.DivergenceThreshold) {
			events = append(events, newEvent(BottomDivergence, cur, prev))
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Index < events[j].Index })

	report := DivergenceReport{Strength: StrengthNone, Events: events}
	cutoff := s.Len() - recentDivergenceBars
	maxRecent := 0.0
	for _, e := range events {
		if e.Index < cutoff {
			continue
		}
		switch e.Kind {
		case TopDivergence:
			report.PriceDivergence = true
		case BottomDivergence:
			report.VolumeDivergence = true
		}
		if e.Strength > maxRecent {
			maxRecent = e.Strength
		}
	}
	if report.PriceDivergence || report.VolumeDivergence {
		report.Strength = bucketStrength(maxRecent, volumeVolatility(s, cfg.CorrelationPeriod))
	}
	return report
}

// volumeVolatility is the trailing coefficient of variation of volume,
// the natural unit for judging how unusual a volume mismatch is.
func volumeVolatility(s *core.Series, period int) float64 {
	volumes := s.Volumes()
	stds := indicator.RollingStd(volumes, period)
	means := indicator.SMA(volumes, period)
	if len(stds) == 0 || len(means) == 0 {
		return 0
	}
	mean := means[len(means)-1]
	if mean <= 0 {
		return 0
	}
	return stds[len(stds)-1] / mean
}

func newEvent(kind DivergenceKind, cur, prev extreme) DivergenceEvent {
	strength := float64(cur.volume-prev.volume) / float64(prev.volume)
	if strength < 0 {
		strength = -strength
	}
	return DivergenceEvent{
		Date:       cur.date,
		Index:      cur.index,
		Kind:       kind,
		Price:      cur.price,
		Volume:     cur.volume,
		PrevPrice:  prev.price,
		PrevVolume: prev.volume,
		Strength:   strength,
	}
}

// bucketStrength grades the mismatch in units of the series' own
// recent volume variability. A mismatch within about one and a half
// units is ordinary fluctuation.
func bucketStrength(strength, volatility float64) DivergenceStrength {
	if volatility <= 0 {
		volatility = 1
	}
	units := strength / volatility
	switch {
	case units >= 3:
		return StrengthStrong
	case units >= 1.5:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}

// findExtremes locates local highs (of High) or lows (of Low) over the
// look-around window, inclusive comparisons on the neighbors.
func findExtremes(bars []core.Bar, window int, wantHigh bool) []extreme {
	if window < 1 || len(bars) < 2*window+1 {
		return nil
	}
	var out []extreme
	for i := window; i < len(bars)-window; i++ {
		ok := true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if wantHigh && bars[j].High > bars[i].High {
				ok = false
				break
			}
			if !wantHigh && bars[j].Low < bars[i].Low {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		e := extreme{index: i, date: bars[i].Date, volume: bars[i].Volume}
		if wantHigh {
			e.price = bars[i].High
		} else {
			e.price = bars[i].Low
		}
		out = append(out, e)
	}
	return out
}
