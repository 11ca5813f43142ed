package gann

import (
	"math"
	"sort"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

// maxCycleMultiple bounds how many whole cycle lengths a pivot spacing
// may span and still count as a match.
const maxCycleMultiple = 3

// CycleCandidate describes how well pivot spacings recur at one
// configured cycle length.
type CycleCandidate struct {
	Length      int       `json:"length"`
	PhaseOffset float64   `json:"phase_offset"` // position within the cycle, [0, 1)
	Confidence  float64   `json:"confidence"`
	Matches     int       `json:"matches"`
	TotalDeltas int       `json:"total_deltas"`
	LastPivot   time.Time `json:"last_pivot"`
	NextTurn    time.Time `json:"next_turn"`
}

// CycleReport is the outcome of time-cycle detection. Candidates only
// contains cycles above the confidence threshold; an empty list is a
// valid low-confidence result, not an error.
type CycleReport struct {
	Candidates []CycleCandidate `json:"candidates"`
	Current    *CycleCandidate  `json:"current,omitempty"`
}

// pivotDelta is the calendar-day spacing between two consecutive
// same-kind pivots, tagged with the later pivot for phase anchoring.
type pivotDelta struct {
	days  int
	pivot Pivot
}

// DetectCycles measures, for each configured cycle length, how many
// consecutive same-kind pivot spacings fall within tolerance of the
// length or a small whole multiple of it. Confidence is the matched
// fraction of all spacings.
func DetectCycles(s *core.Series, pivots []Pivot, cfg Config) CycleReport {
	deltas := collectDeltas(pivots)
	if len(deltas) == 0 {
		return CycleReport{}
	}

	asOf := s.Last().Date
	var candidates []CycleCandidate
	for _, length := range cfg.TimeCycles {
		c := scoreCycle(deltas, length, cfg.CycleTolerance, asOf)
		if c.Confidence >= cfg.MinCycleConfidence {
			candidates = append(candidates, c)
		}
	}

	// Highest confidence first; equal confidence prefers the shorter
	// length, which more spacings can support.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Length < candidates[j].Length
	})

	report := CycleReport{Candidates: candidates}
	if len(candidates) > 0 {
		current := candidates[0]
		report.Current = &current
	}
	return report
}

func collectDeltas(pivots []Pivot) []pivotDelta {
	var deltas []pivotDelta
	for _, kind := range []PivotKind{PivotHigh, PivotLow} {
		same := filterPivots(pivots, kind)
		for i := 1; i < len(same); i++ {
			days := daysBetween(same[i-1].Date, same[i].Date)
			if days > 0 {
				deltas = append(deltas, pivotDelta{days: days, pivot: same[i]})
			}
		}
	}
	return deltas
}

func scoreCycle(deltas []pivotDelta, length int, tolerance float64, asOf time.Time) CycleCandidate {
	matches := 0
	var lastMatch Pivot
	for _, d := range deltas {
		for m := 1; m <= maxCycleMultiple; m++ {
			target := float64(m * length)
			if math.Abs(float64(d.days)-target) <= tolerance*target {
				matches++
				if d.pivot.Date.After(lastMatch.Date) {
					lastMatch = d.pivot
				}
				break
			}
		}
	}

	confidence := float64(matches) / float64(len(deltas))
	if confidence > 1 {
		confidence = 1
	}

	c := CycleCandidate{
		Length:      length,
		Confidence:  confidence,
		Matches:     matches,
		TotalDeltas: len(deltas),
	}
	if matches == 0 {
		return c
	}

	c.LastPivot = lastMatch.Date
	daysSince := daysBetween(lastMatch.Date, asOf)
	c.PhaseOffset = math.Mod(float64(daysSince)/float64(length), 1)

	// Project the next turn past the as-of date by whole cycles.
	next := lastMatch.Date.AddDate(0, 0, length)
	for !next.After(asOf) {
		next = next.AddDate(0, 0, length)
	}
	c.NextTurn = next
	return c
}

func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

// TimeFrameFor buckets a cycle length into a prediction horizon.
func TimeFrameFor(length int) core.TimeFrame {
	switch {
	case length <= 14:
		return core.TimeFrameShort
	case length <= 60:
		return core.TimeFrameMedium
	default:
		return core.TimeFrameLong
	}
}
