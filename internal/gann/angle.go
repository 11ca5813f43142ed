package gann

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

// slopeUnit converts an angle ratio into price change per bar: one time
// unit moves the line by ratio percent of the pivot price.
const slopeUnit = 0.01

// AngleLine is a projected speed line from a pivot. Slope is price per
// bar; lines from pivot highs descend, lines from pivot lows ascend.
type AngleLine struct {
	Ratio      string    `json:"ratio"`
	PivotIndex int       `json:"pivot_index"`
	PivotDate  time.Time `json:"pivot_date"`
	PivotPrice float64   `json:"pivot_price"`
	PivotKind  PivotKind `json:"pivot_kind"`
	Slope      float64   `json:"slope"`
}

// PriceAt returns the projected price of the line at a bar index.
func (l AngleLine) PriceAt(index int) float64 {
	return l.PivotPrice + l.Slope*float64(index-l.PivotIndex)
}

// Trend is the binary directional call read off the 1x1 line.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// AngleReport carries the projected lines and the trend call they imply.
type AngleReport struct {
	Lines    []AngleLine `json:"lines"`     // fanned from the dominant pivot
	AllLines []AngleLine `json:"all_lines"` // recent high and low fans
	Trend    Trend       `json:"trend"`
	Support  float64     `json:"support,omitempty"` // nearest line at or below the last close
}

// parseRatio converts a ratio tag like "2x1" into price units per time
// unit. "2x1" is 2.0, "1x4" is 0.25.
func parseRatio(tag string) (float64, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(tag)), "x")
	if len(parts) != 2 {
		return 0, fmt.Errorf("angle ratio %q must have the form PRICExTIME", tag)
	}
	price, err := strconv.Atoi(parts[0])
	if err != nil || price < 1 {
		return 0, fmt.Errorf("angle ratio %q has invalid price part", tag)
	}
	t, err := strconv.Atoi(parts[1])
	if err != nil || t < 1 {
		return 0, fmt.Errorf("angle ratio %q has invalid time part", tag)
	}
	return float64(price) / float64(t), nil
}

// ProjectAngles fans the configured ratios from the most recent pivot
// high and pivot low, then derives the trend from the 1x1 line of the
// latest low pivot. When no pivots exist (monotonic series) synthetic
// pivots at the global extremes are used so the trend call still holds.
func ProjectAngles(s *core.Series, pivots []Pivot, cfg Config) AngleReport {
	high := lastPivot(pivots, PivotHigh)
	low := lastPivot(pivots, PivotLow)
	if high == nil {
		high = syntheticPivot(s.Bars, PivotHigh)
	}
	if low == nil {
		low = syntheticPivot(s.Bars, PivotLow)
	}

	var all []AngleLine
	all = append(all, fanLines(*low, cfg.AngleRatios)...)
	all = append(all, fanLines(*high, cfg.AngleRatios)...)

	dominant := dominantPivot(s, *high, *low)
	report := AngleReport{
		Lines:    fanLines(dominant, cfg.AngleRatios),
		AllLines: all,
		Trend:    trendFrom(s, *low),
	}

	lastIdx := s.Len() - 1
	close := s.Last().Close
	support := 0.0
	for _, l := range all {
		if v := l.PriceAt(lastIdx); v > 0 && v <= close && v > support {
			support = v
		}
	}
	report.Support = support
	return report
}

func fanLines(p Pivot, ratios []string) []AngleLine {
	lines := make([]AngleLine, 0, len(ratios))
	for _, tag := range ratios {
		ratio, err := parseRatio(tag)
		if err != nil {
			continue // rejected by Config.Validate before we get here
		}
		slope := ratio * p.Price * slopeUnit
		if p.Kind == PivotHigh {
			slope = -slope
		}
		lines = append(lines, AngleLine{
			Ratio:      tag,
			PivotIndex: p.Index,
			PivotDate:  p.Date,
			PivotPrice: p.Price,
			PivotKind:  p.Kind,
			Slope:      slope,
		})
	}
	return lines
}

// dominantPivot picks the pivot with the larger reversal magnitude
// relative to the current close, breaking ties toward recency.
func dominantPivot(s *core.Series, high, low Pivot) Pivot {
	close := s.Last().Close
	dh := abs(close - high.Price)
	dl := abs(close - low.Price)
	if dh > dl {
		return high
	}
	if dl > dh {
		return low
	}
	if high.Index > low.Index {
		return high
	}
	return low
}

// trendFrom reads the trend off the 1x1 line from the latest low pivot:
// close at or above the rising line is up, otherwise down.
func trendFrom(s *core.Series, low Pivot) Trend {
	rising := AngleLine{PivotIndex: low.Index, PivotPrice: low.Price, Slope: low.Price * slopeUnit}
	if s.Last().Close >= rising.PriceAt(s.Len()-1) {
		return TrendUp
	}
	return TrendDown
}

// syntheticPivot builds a stand-in pivot at the global extreme for
// series where the window finds no local extrema.
func syntheticPivot(bars []core.Bar, kind PivotKind) *Pivot {
	best := 0
	for i, b := range bars {
		switch kind {
		case PivotHigh:
			if b.High > bars[best].High {
				best = i
			}
		case PivotLow:
			if b.Low < bars[best].Low {
				best = i
			}
		}
	}
	p := Pivot{Index: best, Date: bars[best].Date, Kind: kind}
	if kind == PivotHigh {
		p.Price = bars[best].High
	} else {
		p.Price = bars[best].Low
	}
	return &p
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
