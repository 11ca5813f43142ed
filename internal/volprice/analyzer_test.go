package volprice

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/quantgeo/gannwheel/internal/core"
)

func dailyStart() time.Time {
	return time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
}

// risingFlatVolume builds n bars of steadily rising price on constant
// volume.
func risingFlatVolume(n int) *core.Series {
	bars := make([]core.Bar, n)
	price := 100.0
	for i := range bars {
		bars[i] = core.Bar{
			Date:   dailyStart().AddDate(0, 0, i),
			Open:   price,
			High:   price * 1.005,
			Low:    price * 0.995,
			Close:  price,
			Volume: 50000,
		}
		price *= 1.01
	}
	return &core.Series{Symbol: "TEST", Period: core.PeriodDaily, Bars: bars}
}

// oscillating builds n bars with a price and volume oscillation of the
// given period.
func oscillating(n, period int) *core.Series {
	bars := make([]core.Bar, n)
	for i := range bars {
		phase := 2 * math.Pi * float64(i) / float64(period)
		price := 100 + 10*math.Sin(phase)
		bars[i] = core.Bar{
			Date:   dailyStart().AddDate(0, 0, i),
			Open:   price,
			High:   price + 0.5,
			Low:    price - 0.5,
			Close:  price,
			Volume: int64(50000 + 20000*math.Sin(phase)),
		}
	}
	return &core.Series{Symbol: "TEST", Period: core.PeriodDaily, Bars: bars}
}

func TestNewAnalyzer_RejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VolumeThreshold = 0.5
	if _, err := NewAnalyzer(cfg); !errors.Is(err, core.ErrConfigInvalid) {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestAnalyze_RisingFlatVolume(t *testing.T) {
	a, err := NewAnalyzer(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	result, err := a.Analyze(risingFlatVolume(200))
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Divergence.VolumeDivergence {
		t.Error("flat volume must not report volume divergence")
	}
	if result.Divergence.PriceDivergence {
		t.Error("flat volume must not report price divergence")
	}
	if result.Trend.PriceDirection != TrendUp {
		t.Errorf("trend direction = %s, want up", result.Trend.PriceDirection)
	}
}

func TestAnalyze_VolumeSpike(t *testing.T) {
	s := risingFlatVolume(200)
	spikeIdx := 150
	s.Bars[spikeIdx].Volume = 500000 // 10x the trailing average

	a, err := NewAnalyzer(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	result, err := a.Analyze(s)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	found := false
	for _, d := range result.AbnormalVolume.Spikes {
		if d.Equal(s.Bars[spikeIdx].Date) {
			found = true
		}
	}
	if !found {
		t.Errorf("10x volume bar at %s missing from spikes %v",
			s.Bars[spikeIdx].Date.Format("2006-01-02"), result.AbnormalVolume.Spikes)
	}
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	a, err := NewAnalyzer(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Analyze(risingFlatVolume(10)); !errors.Is(err, core.ErrInsufficientHistory) {
		t.Errorf("expected insufficient history error, got %v", err)
	}
}

func TestAnalyze_CorrelationBounds(t *testing.T) {
	a, err := NewAnalyzer(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []*core.Series{risingFlatVolume(200), oscillating(260, 21)} {
		result, err := a.Analyze(s)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		if result.Correlation < -1 || result.Correlation > 1 {
			t.Errorf("correlation %f outside [-1, 1]", result.Correlation)
		}
		if result.Coordination.CombinedStrength < 0 || result.Coordination.CombinedStrength > 1 {
			t.Errorf("combined strength %f outside [0, 1]", result.Coordination.CombinedStrength)
		}
		if result.VWAP <= 0 {
			t.Errorf("vwap %f, want positive", result.VWAP)
		}
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a, err := NewAnalyzer(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	first, err := a.Analyze(oscillating(260, 21))
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze(oscillating(260, 21))
	if err != nil {
		t.Fatal(err)
	}

	b1, _ := json.Marshal(first)
	b2, _ := json.Marshal(second)
	if string(b1) != string(b2) {
		t.Error("identical input must produce byte-identical results")
	}
}

func TestAnalyze_SignalsOrdered(t *testing.T) {
	a, err := NewAnalyzer(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	result, err := a.Analyze(oscillating(260, 21))
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(result.Signals); i++ {
		if result.Signals[i-1].Date.After(result.Signals[i].Date) {
			t.Fatal("signals out of chronological order")
		}
	}
	for _, sig := range result.Signals {
		if sig.Confidence < 0 || sig.Confidence > 1 {
			t.Errorf("signal confidence %f outside [0, 1]", sig.Confidence)
		}
		if len(sig.Tags) == 0 {
			t.Error("signal without rationale tags")
		}
	}
}
