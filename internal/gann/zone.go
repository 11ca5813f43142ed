package gann

import (
	"math"
	"sort"
)

// ZoneKind marks which side of the current close a zone sits on.
type ZoneKind string

const (
	ZoneSupport    ZoneKind = "support"
	ZoneResistance ZoneKind = "resistance"
)

// Level is one candidate support/resistance price with its origin tag,
// e.g. "square:144", "angle:1x1", "fib:0.618", "extreme:high".
type Level struct {
	Price  float64 `json:"price"`
	Source string  `json:"source"`
}

// Zone is a merged band of nearby candidate levels. Zones returned by
// MergeZones never overlap.
type Zone struct {
	Low     float64  `json:"low"`
	High    float64  `json:"high"`
	Kind    ZoneKind `json:"kind"`
	Weight  int      `json:"weight"`
	Sources []string `json:"sources"`
}

// Mid returns the zone midpoint.
func (z Zone) Mid() float64 { return (z.Low + z.High) / 2 }

// MergeZones sorts the candidate levels and greedily merges neighbors
// whose spacing is within tolerance of the running zone high. A zone
// straddling the close is classified by its midpoint. Output is sorted
// by distance from close, ties broken by higher weight.
func MergeZones(levels []Level, close, tolerance float64) []Zone {
	var kept []Level
	for _, l := range levels {
		if l.Price > 0 {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Price < kept[j].Price })

	var zones []Zone
	cur := Zone{Low: kept[0].Price, High: kept[0].Price, Weight: 1, Sources: []string{kept[0].Source}}
	for _, l := range kept[1:] {
		if l.Price-cur.High <= tolerance*cur.High {
			cur.High = l.Price
			cur.Weight++
			cur.Sources = appendSource(cur.Sources, l.Source)
			continue
		}
		zones = append(zones, cur)
		cur = Zone{Low: l.Price, High: l.Price, Weight: 1, Sources: []string{l.Source}}
	}
	zones = append(zones, cur)

	for i := range zones {
		if zones[i].Mid() < close {
			zones[i].Kind = ZoneSupport
		} else {
			zones[i].Kind = ZoneResistance
		}
	}

	sort.SliceStable(zones, func(i, j int) bool {
		di := math.Abs(zones[i].Mid() - close)
		dj := math.Abs(zones[j].Mid() - close)
		if di != dj {
			return di < dj
		}
		return zones[i].Weight > zones[j].Weight
	})
	return zones
}

func appendSource(sources []string, s string) []string {
	for _, have := range sources {
		if have == s {
			return sources
		}
	}
	return append(sources, s)
}

// nearestZone returns the closest zone of the given kind by midpoint
// distance to price, or nil.
func nearestZone(zones []Zone, kind ZoneKind, price float64) *Zone {
	var best *Zone
	bestDist := math.Inf(1)
	for i := range zones {
		if zones[i].Kind != kind {
			continue
		}
		if d := math.Abs(zones[i].Mid() - price); d < bestDist {
			bestDist = d
			best = &zones[i]
		}
	}
	return best
}
