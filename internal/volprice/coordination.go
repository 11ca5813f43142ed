package volprice

import "math"

// Blend weights for the combined coordination strength.
const (
	weightCorrelation = 0.5
	weightTrendSync   = 0.25
	weightDivergence  = 0.25
)

// CoordinationLevel buckets combined strength.
type CoordinationLevel string

const (
	CoordinationLow    CoordinationLevel = "low"
	CoordinationMedium CoordinationLevel = "medium"
	CoordinationHigh   CoordinationLevel = "high"
)

// Coordination is how well price and volume move together.
type Coordination struct {
	CombinedStrength float64           `json:"combined_strength"` // [0, 1]
	Level            CoordinationLevel `json:"level"`
}

// ScoreCoordination blends |correlation|, the trend-sync flag and the
// inverse divergence strength into one strength in [0, 1], then maps it
// to a level through the configured cut points.
func ScoreCoordination(correlation float64, trend TrendReport, div DivergenceReport, cfg Config) Coordination {
	sync := 0.0
	if trend.Sync {
		sync = 1
	}

	combined := weightCorrelation*math.Abs(correlation) +
		weightTrendSync*sync +
		weightDivergence*(1-divergencePenalty(div))
	if combined < 0 {
		combined = 0
	}
	if combined > 1 {
		combined = 1
	}

	level := CoordinationHigh
	switch {
	case combined < cfg.CoordinationCuts[0]:
		level = CoordinationLow
	case combined < cfg.CoordinationCuts[1]:
		level = CoordinationMedium
	}
	return Coordination{CombinedStrength: combined, Level: level}
}

// divergencePenalty maps the current divergence strength bucket to a
// fraction of the coordination weight it forfeits.
func divergencePenalty(div DivergenceReport) float64 {
	switch div.Strength {
	case StrengthStrong:
		return 1
	case StrengthMedium:
		return 0.6
	case StrengthWeak:
		return 0.3
	default:
		return 0
	}
}
