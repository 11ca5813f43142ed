package gann

import "testing"

func TestScoreResonance_Bounds(t *testing.T) {
	s := sineSeries(260, 21)
	cfg := DefaultConfig()
	pivots := FindPivots(s.Bars, cfg.PivotWindow)
	cycles := DetectCycles(s, pivots, cfg)
	angles := ProjectAngles(s, pivots, cfg)
	anchor := anchorPrice(pivots, s.Last().Close)
	squares := BuildSquares(cfg.PriceSquares, cfg.LadderSteps, anchor, s.Last().Close)
	zones := MergeZones(collectLevels(s, squares, angles.AllLines), s.Last().Close, cfg.ZoneTolerance)

	res := ScoreResonance(s, cycles, zones, angles.AllLines, cfg.ZoneTolerance)
	if res.Score < 0 || res.Score > 1 {
		t.Errorf("score %f outside [0, 1]", res.Score)
	}
	if len(res.Points) > 0 {
		for i := 1; i < len(res.Points); i++ {
			if !res.Points[i-1].Before(res.Points[i]) {
				t.Fatalf("resonance points not chronological at %d", i)
			}
		}
	}
}

func TestScoreResonance_NoCycle(t *testing.T) {
	s := sineSeries(260, 21)
	res := ScoreResonance(s, CycleReport{}, nil, nil, 0.01)
	if res.Score != 0 {
		t.Errorf("score = %f, want 0 without a current cycle", res.Score)
	}
	if len(res.Points) != 0 {
		t.Errorf("expected no points, got %d", len(res.Points))
	}
}
