package gann

import (
	"fmt"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/series"
)

// fibRatios are the retracement fractions applied between the dominant
// swing extremes when assembling candidate levels.
var fibRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786}

// Result is everything the geometry engine derives from one series.
type Result struct {
	Symbol       string        `json:"symbol"`
	Period       core.Period   `json:"period"`
	AsOf         time.Time     `json:"as_of"`
	Close        float64       `json:"close"`
	TimeCycles   CycleReport   `json:"time_cycles"`
	PriceSquares []PriceSquare `json:"price_squares"`
	CurrentSquare *PriceSquare `json:"current_square,omitempty"`
	Angles       AngleReport   `json:"gann_angles"`
	Zones        []Zone        `json:"zones"`
	Resonance    Resonance     `json:"resonance"`
	Prediction   Prediction    `json:"prediction"`
}

// Analyzer runs the full geometry pipeline with a fixed configuration.
// It is stateless and safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer validates the configuration once up front so Analyze can
// never fail on config.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Analyze derives cycles, squares, angles, zones, resonance and the
// prediction from one validated series. It is pure: the same series and
// config always produce the same result.
func (a *Analyzer) Analyze(s *core.Series) (*Result, error) {
	if min := series.MinBars(a.cfg.TimeCycles); s.Len() < min {
		return nil, core.WrapError(core.ErrInsufficientHistory,
			fmt.Errorf("%s: got %d bars, need at least %d", s.Symbol, s.Len(), min))
	}

	last := s.Last()
	close := last.Close

	pivots := FindPivots(s.Bars, a.cfg.PivotWindow)
	cycles := DetectCycles(s, pivots, a.cfg)
	angles := ProjectAngles(s, pivots, a.cfg)

	anchor := anchorPrice(pivots, close)
	squares := BuildSquares(a.cfg.PriceSquares, a.cfg.LadderSteps, anchor, close)

	levels := collectLevels(s, squares, angles.AllLines)
	zones := MergeZones(levels, close, a.cfg.ZoneTolerance)

	res := ScoreResonance(s, cycles, zones, angles.AllLines, a.cfg.ZoneTolerance)
	pred := Synthesize(close, angles, cycles, zones, res)

	return &Result{
		Symbol:        s.Symbol,
		Period:        s.Period,
		AsOf:          last.Date,
		Close:         close,
		TimeCycles:    cycles,
		PriceSquares:  squares,
		CurrentSquare: TightestSquare(squares, close),
		Angles:        angles,
		Zones:         zones,
		Resonance:     res,
		Prediction:    pred,
	}, nil
}

// anchorPrice is the most recent pivot price, falling back to the close
// when the series produced no pivots.
func anchorPrice(pivots []Pivot, close float64) float64 {
	if len(pivots) == 0 {
		return close
	}
	return pivots[len(pivots)-1].Price
}

// collectLevels assembles the zone candidates: square ladder rungs,
// angle line values at the as-of bar, fibonacci retracements between
// the historical extremes, and the extremes themselves.
func collectLevels(s *core.Series, squares []PriceSquare, lines []AngleLine) []Level {
	var levels []Level
	for _, sq := range squares {
		src := fmt.Sprintf("square:%d", sq.SquareNumber)
		for _, p := range sq.Levels {
			levels = append(levels, Level{Price: p, Source: src})
		}
	}

	lastIdx := s.Len() - 1
	for _, l := range lines {
		if v := l.PriceAt(lastIdx); v > 0 {
			levels = append(levels, Level{Price: v, Source: "angle:" + l.Ratio})
		}
	}

	lo, hi := extremes(s.Bars)
	levels = append(levels,
		Level{Price: lo, Source: "extreme:low"},
		Level{Price: hi, Source: "extreme:high"},
	)
	for _, r := range fibRatios {
		levels = append(levels, Level{
			Price:  hi - (hi-lo)*r,
			Source: fmt.Sprintf("fib:%.3f", r),
		})
	}
	return levels
}

func extremes(bars []core.Bar) (lo, hi float64) {
	lo, hi = bars[0].Low, bars[0].High
	for _, b := range bars[1:] {
		if b.Low < lo {
			lo = b.Low
		}
		if b.High > hi {
			hi = b.High
		}
	}
	return lo, hi
}
