package volprice

import (
	"testing"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

// flatSeries builds n bars at price 100 on 50000 volume, then applies
// the edits.
func flatSeries(n int, edit func(i int, b *core.Bar)) *core.Series {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]core.Bar, n)
	for i := range bars {
		bars[i] = core.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   100,
			High:   100.5,
			Low:    99.5,
			Close:  100,
			Volume: 50000,
		}
		if edit != nil {
			edit(i, &bars[i])
		}
	}
	return &core.Series{Symbol: "TEST", Period: core.PeriodDaily, Bars: bars}
}

func countKind(patterns []Pattern, kind PatternKind) int {
	n := 0
	for _, p := range patterns {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func TestIdentifyPatterns_Breakout(t *testing.T) {
	s := flatSeries(120, func(i int, b *core.Bar) {
		if i == 80 {
			b.Close = 105
			b.High = 105.5
			b.Volume = 150000
		}
	})
	report := IdentifyPatterns(s, DefaultConfig())

	if countKind(report.Patterns, PatternBreakout) == 0 {
		t.Fatal("expected a volume breakout when price and volume jump together")
	}
	for _, p := range report.Patterns {
		if p.Kind == PatternBreakout {
			if !p.Start.Equal(s.Bars[80].Date) {
				t.Errorf("breakout at %s, want %s", p.Start, s.Bars[80].Date)
			}
			if p.Strength <= 0 || p.Strength > 2 {
				t.Errorf("breakout strength %f outside (0, 2]", p.Strength)
			}
		}
	}
}

func TestIdentifyPatterns_Consolidation(t *testing.T) {
	s := flatSeries(120, func(i int, b *core.Bar) {
		if i >= 60 && i <= 65 {
			b.Volume = 20000
		}
	})
	report := IdentifyPatterns(s, DefaultConfig())

	var found *Pattern
	for i, p := range report.Patterns {
		if p.Kind == PatternConsolidation {
			found = &report.Patterns[i]
		}
	}
	if found == nil {
		t.Fatal("expected a consolidation for a sustained low-volume stretch")
	}
	if !found.Start.Equal(s.Bars[60].Date) || !found.End.Equal(s.Bars[65].Date) {
		t.Errorf("consolidation [%s, %s], want [%s, %s]",
			found.Start, found.End, s.Bars[60].Date, s.Bars[65].Date)
	}
	if found.VolumeRatio >= consolidationCut {
		t.Errorf("avg volume ratio %f, want below %f", found.VolumeRatio, consolidationCut)
	}
}

func TestIdentifyPatterns_IncreaseRun(t *testing.T) {
	ramp := []int64{50000, 60000, 72000, 86400, 103680}
	s := flatSeries(120, func(i int, b *core.Bar) {
		if i >= 100 && i < 100+len(ramp) {
			b.Volume = ramp[i-100]
		}
	})
	report := IdentifyPatterns(s, DefaultConfig())

	if countKind(report.Patterns, PatternIncrease) == 0 {
		t.Fatal("expected a volume increase run for steadily doubling volume")
	}
}

func TestIdentifyPatterns_QuietSeries(t *testing.T) {
	report := IdentifyPatterns(risingFlatVolume(120), DefaultConfig())
	if len(report.Patterns) != 0 {
		t.Errorf("flat volume produced %d patterns", len(report.Patterns))
	}
	if report.Summary.Total != 0 || len(report.Current) != 0 {
		t.Errorf("quiet series summary = %+v, current = %v", report.Summary, report.Current)
	}
}

func TestIdentifyPatterns_CurrentAndSummary(t *testing.T) {
	s := flatSeries(120, func(i int, b *core.Bar) {
		if i == 119 {
			b.Close = 105
			b.High = 105.5
			b.Volume = 150000
		}
	})
	report := IdentifyPatterns(s, DefaultConfig())

	if len(report.Current) == 0 {
		t.Error("a pattern on the last bar must be current")
	}
	if report.Summary.Total != len(report.Patterns) {
		t.Errorf("summary total %d, want %d", report.Summary.Total, len(report.Patterns))
	}
	if report.Summary.MostCommon == "" {
		t.Error("expected a most common pattern kind")
	}
	if report.Summary.AvgStrength <= 0 {
		t.Errorf("avg strength %f, want positive", report.Summary.AvgStrength)
	}
}

func TestIdentifyPatterns_Ordered(t *testing.T) {
	s := flatSeries(120, func(i int, b *core.Bar) {
		if i == 70 || i == 100 {
			b.Close = 105
			b.High = 105.5
			b.Volume = 150000
		}
		if i >= 30 && i <= 35 {
			b.Volume = 20000
		}
	})
	report := IdentifyPatterns(s, DefaultConfig())

	for i := 1; i < len(report.Patterns); i++ {
		if report.Patterns[i].Start.Before(report.Patterns[i-1].Start) {
			t.Fatalf("patterns not ordered by start date at %d", i)
		}
	}
}
