package volprice

import (
	"fmt"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/indicator"
	"github.com/quantgeo/gannwheel/internal/series"
)

// Result is everything the volume-price engine derives from one series.
type Result struct {
	Symbol         string           `json:"symbol"`
	Period         core.Period      `json:"period"`
	AsOf           time.Time        `json:"as_of"`
	Correlation    float64          `json:"correlation"`
	Divergence     DivergenceReport `json:"divergence"`
	AbnormalVolume AbnormalVolume   `json:"abnormal_volume"`
	Patterns       PatternReport    `json:"patterns"`
	Trend          TrendReport      `json:"trend"`
	VWAP           float64          `json:"vwap"`
	Coordination   Coordination     `json:"coordination"`
	Signals        []Signal         `json:"signals"`
	Rating         Rating           `json:"rating"`
}

// Analyzer runs the volume-price pipeline with a fixed configuration.
// It is stateless and safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// NewAnalyzer validates the configuration once up front.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Analyzer{cfg: cfg}, nil
}

// Analyze derives correlation, divergence, abnormal volume, trend,
// coordination, signals and the rating from one validated series. It
// is pure: the same series and config always produce the same result.
func (a *Analyzer) Analyze(s *core.Series) (*Result, error) {
	if s.Len() < series.MinBarsFloor {
		return nil, core.WrapError(core.ErrInsufficientHistory,
			fmt.Errorf("%s: got %d bars, need at least %d", s.Symbol, s.Len(), series.MinBarsFloor))
	}

	correlation := Correlation(s, a.cfg.CorrelationPeriod)
	div := DetectDivergence(s, a.cfg)
	abnormal := DetectAbnormalVolume(s, a.cfg)
	patterns := IdentifyPatterns(s, a.cfg)
	trend := AnalyzeTrend(s, a.cfg)
	coord := ScoreCoordination(correlation, trend, div, a.cfg)
	signals := GenerateSignals(s, div, coord, a.cfg)
	rating := Rate(correlation, coord, div)
	vwap := currentVWAP(s)

	return &Result{
		Symbol:         s.Symbol,
		Period:         s.Period,
		AsOf:           s.Last().Date,
		Correlation:    correlation,
		Divergence:     div,
		AbnormalVolume: abnormal,
		Patterns:       patterns,
		Trend:          trend,
		VWAP:           vwap,
		Coordination:   coord,
		Signals:        signals,
		Rating:         rating,
	}, nil
}

// currentVWAP is the cumulative volume-weighted average price at the
// last bar.
func currentVWAP(s *core.Series) float64 {
	highs := make([]float64, s.Len())
	lows := make([]float64, s.Len())
	for i, b := range s.Bars {
		highs[i] = b.High
		lows[i] = b.Low
	}
	vwap := indicator.VWAP(highs, lows, s.Closes(), s.Volumes())
	if len(vwap) == 0 {
		return 0
	}
	return vwap[len(vwap)-1]
}
