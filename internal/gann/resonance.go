package gann

import (
	"math"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

// turnDateSlack is how many calendar days a bar may sit from a
// projected turning date and still represent it.
const turnDateSlack = 2

// Resonance is the coincidence score between projected cycle turning
// points and the price geometry (zones and angle lines).
type Resonance struct {
	Score  float64     `json:"score"` // [0, 1]
	Points []time.Time `json:"points,omitempty"`
}

// ScoreResonance walks the historical turning dates implied by the
// current cycle and counts those whose nearby closes touch a zone or an
// angle line. Score is matched turning points over the number checked,
// zero when no cycle is current.
func ScoreResonance(s *core.Series, cycles CycleReport, zones []Zone, lines []AngleLine, tolerance float64) Resonance {
	if cycles.Current == nil || cycles.Current.Matches == 0 {
		return Resonance{}
	}

	length := cycles.Current.Length
	anchor := cycles.Current.LastPivot
	first := s.Bars[0].Date

	checked := 0
	var points []time.Time
	for turn := anchor; !turn.Before(first); turn = turn.AddDate(0, 0, -length) {
		idx, ok := nearestBar(s.Bars, turn)
		if !ok {
			continue
		}
		checked++
		if touchesGeometry(s, idx, zones, lines, tolerance) {
			points = append(points, s.Bars[idx].Date)
		}
	}
	if checked == 0 {
		return Resonance{}
	}

	// Chronological order; the walk above runs newest to oldest.
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return Resonance{Score: float64(len(points)) / float64(checked), Points: points}
}

// touchesGeometry reports whether any close within one bar of idx falls
// inside a zone or within tolerance of an angle line at that bar.
func touchesGeometry(s *core.Series, idx int, zones []Zone, lines []AngleLine, tolerance float64) bool {
	for i := idx - 1; i <= idx+1; i++ {
		if i < 0 || i >= s.Len() {
			continue
		}
		c := s.Bars[i].Close
		pad := tolerance * c
		for _, z := range zones {
			if c >= z.Low-pad && c <= z.High+pad {
				return true
			}
		}
		for _, l := range lines {
			if math.Abs(l.PriceAt(i)-c) <= pad {
				return true
			}
		}
	}
	return false
}

// nearestBar finds the bar whose date is closest to target, rejecting
// matches further than the slack window.
func nearestBar(bars []core.Bar, target time.Time) (int, bool) {
	best := -1
	bestDays := turnDateSlack + 1
	for i, b := range bars {
		d := daysBetween(b.Date, target)
		if d < 0 {
			d = -d
		}
		if d < bestDays {
			bestDays = d
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
