// Package series normalizes raw bar sequences into validated Series
// values that the analysis engines can trust: ascending dates, no
// duplicates, positive prices, non-negative volume.
package series

import (
	"fmt"
	"sort"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

// MinBarsFloor is the smallest series either engine will accept,
// regardless of configured cycle lengths.
const MinBarsFloor = 60

// MinBars returns the minimum series length for a set of candidate
// cycle lengths: twice the largest cycle, with a floor of MinBarsFloor.
func MinBars(timeCycles []int) int {
	min := MinBarsFloor
	for _, c := range timeCycles {
		if 2*c > min {
			min = 2 * c
		}
	}
	return min
}

// Validate normalizes and validates a raw bar sequence into a Series.
// Bars are sorted ascending by date; the input slice is not modified.
// It fails with core.ErrDataValidation naming the first offending bar,
// or core.ErrInsufficientHistory when fewer than minBars remain.
func Validate(symbol string, period core.Period, bars []core.Bar, minBars int) (*core.Series, error) {
	if minBars < MinBarsFloor {
		minBars = MinBarsFloor
	}
	if len(bars) < minBars {
		return nil, core.WrapError(core.ErrInsufficientHistory,
			fmt.Errorf("%s: got %d bars, need at least %d", symbol, len(bars), minBars))
	}

	sorted := make([]core.Bar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	var gaps []core.Gap
	for i, b := range sorted {
		if !b.IsValid() {
			return nil, core.WrapError(core.ErrDataValidation,
				fmt.Errorf("%s: bar %d (%s): invalid OHLCV values", symbol, i, b.Date.Format("2006-01-02")))
		}
		if i == 0 {
			continue
		}
		days := calendarDays(sorted[i-1].Date, b.Date)
		if days == 0 {
			return nil, core.WrapError(core.ErrDataValidation,
				fmt.Errorf("%s: bar %d (%s): duplicate date", symbol, i, b.Date.Format("2006-01-02")))
		}
		if days > 1 {
			gaps = append(gaps, core.Gap{Index: i, Days: days})
		}
	}

	return &core.Series{
		Symbol: symbol,
		Period: period,
		Bars:   sorted,
		Gaps:   gaps,
	}, nil
}

// calendarDays returns whole calendar days from a to b, ignoring the
// time-of-day component.
func calendarDays(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
