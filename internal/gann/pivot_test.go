package gann

import (
	"math"
	"testing"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

// sineBars builds n daily bars whose price oscillates with the given
// period in bars. Volume oscillates in phase with price.
func sineBars(n, period int) []core.Bar {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]core.Bar, n)
	for i := range bars {
		phase := 2 * math.Pi * float64(i) / float64(period)
		price := 100 + 10*math.Sin(phase)
		bars[i] = core.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: int64(50000 + 20000*math.Sin(phase)),
		}
	}
	return bars
}

// risingBars builds n daily bars with compounding growth and flat
// volume. The growth rate outruns the 1x1 line from the first bar.
func risingBars(n int) []core.Bar {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]core.Bar, n)
	price := 100.0
	for i := range bars {
		bars[i] = core.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price * 1.005,
			Low:    price * 0.995,
			Close:  price,
			Volume: 50000,
		}
		price *= 1.02
	}
	return bars
}

func sineSeries(n, period int) *core.Series {
	return &core.Series{Symbol: "TEST", Period: core.PeriodDaily, Bars: sineBars(n, period)}
}

func TestFindPivots_Sinusoid(t *testing.T) {
	bars := sineBars(260, 21)
	pivots := FindPivots(bars, 5)
	if len(pivots) == 0 {
		t.Fatal("expected pivots on an oscillating series")
	}

	highs := filterPivots(pivots, PivotHigh)
	lows := filterPivots(pivots, PivotLow)
	if len(highs) < 10 || len(lows) < 10 {
		t.Fatalf("expected ~12 pivots per kind over 260 bars, got %d highs %d lows", len(highs), len(lows))
	}

	// Consecutive same-kind pivots must be one full period apart.
	for i := 1; i < len(highs); i++ {
		days := daysBetween(highs[i-1].Date, highs[i].Date)
		if days != 21 {
			t.Errorf("high pivot spacing = %d days, want 21", days)
		}
	}
}

func TestFindPivots_Monotonic(t *testing.T) {
	if pivots := FindPivots(risingBars(100), 5); len(pivots) != 0 {
		t.Errorf("expected no local extrema on a monotonic series, got %d", len(pivots))
	}
}

func TestFindPivots_TooShort(t *testing.T) {
	if pivots := FindPivots(sineBars(8, 21), 5); pivots != nil {
		t.Errorf("expected nil for series shorter than 2*window+1, got %v", pivots)
	}
}

func TestLastPivot(t *testing.T) {
	pivots := FindPivots(sineBars(260, 21), 5)
	low := lastPivot(pivots, PivotLow)
	if low == nil {
		t.Fatal("expected a low pivot")
	}
	for _, p := range pivots {
		if p.Kind == PivotLow && p.Index > low.Index {
			t.Fatalf("lastPivot returned index %d but a later low exists at %d", low.Index, p.Index)
		}
	}
}
