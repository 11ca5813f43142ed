package core

import "time"

// Period identifies the bar interval of a series.
type Period string

const (
	PeriodDaily  Period = "daily"
	PeriodWeekly Period = "weekly"
)

// Bar represents one OHLCV bar of a daily (or coarser) series.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
	Amount float64   `json:"amount,omitempty"` // turnover, optional
}

// IsValid checks the per-bar invariants: positive prices, a coherent
// high/low range and non-negative volume and amount.
func (b Bar) IsValid() bool {
	if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
		return false
	}
	if b.High < b.Low {
		return false
	}
	return b.Volume >= 0 && b.Amount >= 0
}

// Gap marks a calendar break inside a series: the bar at Index follows
// its predecessor by Days calendar days (Days > 1).
type Gap struct {
	Index int `json:"index"`
	Days  int `json:"days"`
}

// Series is a validated, ascending-by-date bar sequence. It is owned by
// a single analysis request and must not be mutated after validation.
type Series struct {
	Symbol string `json:"symbol"`
	Period Period `json:"period"`
	Bars   []Bar  `json:"bars"`
	Gaps   []Gap  `json:"gaps,omitempty"`
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// Last returns the most recent bar. The series must be non-empty.
func (s *Series) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Closes returns the close prices in order.
func (s *Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volumes in order, as floats for indicator math.
func (s *Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = float64(b.Volume)
	}
	return out
}

// Direction is an overall directional call for a prediction.
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// TimeFrame buckets a prediction horizon by the dominant cycle length.
type TimeFrame string

const (
	TimeFrameShort  TimeFrame = "short_term"  // dominant cycle <= 14 bars
	TimeFrameMedium TimeFrame = "medium_term" // <= 60 bars
	TimeFrameLong   TimeFrame = "long_term"
)
