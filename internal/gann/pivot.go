package gann

import (
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

// PivotKind distinguishes swing highs from swing lows.
type PivotKind string

const (
	PivotHigh PivotKind = "high"
	PivotLow  PivotKind = "low"
)

// Pivot is a local price extreme over the look-around window.
type Pivot struct {
	Index int       `json:"index"`
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
	Kind  PivotKind `json:"kind"`
}

// FindPivots locates local extrema: a bar is a pivot high when its high
// is >= every high within window bars on both sides, and a pivot low
// when its low is <= every low in the same neighborhood. Results are in
// chronological order; a bar can be both kinds on flat stretches.
func FindPivots(bars []core.Bar, window int) []Pivot {
	if window < 1 || len(bars) < 2*window+1 {
		return nil
	}

	var pivots []Pivot
	for i := window; i < len(bars)-window; i++ {
		isHigh := true
		isLow := true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			if bars[j].High > bars[i].High {
				isHigh = false
			}
			if bars[j].Low < bars[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			pivots = append(pivots, Pivot{Index: i, Date: bars[i].Date, Price: bars[i].High, Kind: PivotHigh})
		}
		if isLow {
			pivots = append(pivots, Pivot{Index: i, Date: bars[i].Date, Price: bars[i].Low, Kind: PivotLow})
		}
	}
	return pivots
}

// filterPivots returns the pivots of one kind, preserving order.
func filterPivots(pivots []Pivot, kind PivotKind) []Pivot {
	var out []Pivot
	for _, p := range pivots {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// lastPivot returns the most recent pivot of the given kind, or nil.
func lastPivot(pivots []Pivot, kind PivotKind) *Pivot {
	for i := len(pivots) - 1; i >= 0; i-- {
		if pivots[i].Kind == kind {
			p := pivots[i]
			return &p
		}
	}
	return nil
}
