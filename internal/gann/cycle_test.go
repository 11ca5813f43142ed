package gann

import (
	"testing"

	"github.com/quantgeo/gannwheel/internal/core"
)

func TestDetectCycles_Sinusoid(t *testing.T) {
	s := sineSeries(260, 21)
	cfg := DefaultConfig()
	pivots := FindPivots(s.Bars, cfg.PivotWindow)

	report := DetectCycles(s, pivots, cfg)
	if report.Current == nil {
		t.Fatal("expected a current cycle on a clean 21-bar oscillation")
	}

	var found *CycleCandidate
	for i := range report.Candidates {
		if report.Candidates[i].Length == 21 {
			found = &report.Candidates[i]
			break
		}
	}
	if found == nil {
		t.Fatal("cycle length 21 not detected")
	}
	if found.Confidence <= 0.3 {
		t.Errorf("confidence = %f, want > 0.3", found.Confidence)
	}
	if found.PhaseOffset < 0 || found.PhaseOffset >= 1 {
		t.Errorf("phase offset %f outside [0, 1)", found.PhaseOffset)
	}
	if !found.NextTurn.After(s.Last().Date) {
		t.Errorf("next turn %s not after as-of %s", found.NextTurn, s.Last().Date)
	}
}

func TestDetectCycles_NoPivots(t *testing.T) {
	s := &core.Series{Symbol: "TEST", Period: core.PeriodDaily, Bars: risingBars(100)}
	report := DetectCycles(s, nil, DefaultConfig())
	if report.Current != nil || len(report.Candidates) != 0 {
		t.Errorf("expected empty report without pivots, got %+v", report)
	}
}

func TestDetectCycles_ConfidenceOrdering(t *testing.T) {
	s := sineSeries(260, 21)
	cfg := DefaultConfig()
	report := DetectCycles(s, FindPivots(s.Bars, cfg.PivotWindow), cfg)

	for i := 1; i < len(report.Candidates); i++ {
		prev, cur := report.Candidates[i-1], report.Candidates[i]
		if prev.Confidence < cur.Confidence {
			t.Fatalf("candidates not sorted by confidence: %f before %f", prev.Confidence, cur.Confidence)
		}
		if prev.Confidence == cur.Confidence && prev.Length > cur.Length {
			t.Fatalf("equal confidence must prefer shorter length: %d before %d", prev.Length, cur.Length)
		}
	}
	for _, c := range report.Candidates {
		if c.Confidence < cfg.MinCycleConfidence {
			t.Errorf("candidate %d below threshold with confidence %f", c.Length, c.Confidence)
		}
	}
}
