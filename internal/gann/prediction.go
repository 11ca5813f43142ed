package gann

import "github.com/quantgeo/gannwheel/internal/core"

// Prediction is the synthesized directional call.
type Prediction struct {
	Direction  core.Direction `json:"direction"`
	Confidence float64        `json:"confidence"` // [0, 1]
	Target     float64        `json:"target_price"`
	TimeFrame  core.TimeFrame `json:"time_frame"`
}

// Confidence blend weights for cycle, angle alignment and resonance.
const (
	weightCycle     = 0.4
	weightAngle     = 0.3
	weightResonance = 0.3
)

// Synthesize combines the trend call, the cycle phase and the resonance
// score into a direction by simple majority, with a weighted confidence.
// Without a current cycle the confidence is forced to zero.
func Synthesize(close float64, angles AngleReport, cycles CycleReport, zones []Zone, res Resonance) Prediction {
	trendVote := 1
	if angles.Trend == TrendDown {
		trendVote = -1
	}

	votes := trendVote
	cycleVote := 0
	if cycles.Current != nil {
		// Early in the cycle the move runs with the trend, late in the
		// cycle a turn against it is due.
		cycleVote = trendVote
		if cycles.Current.PhaseOffset >= 0.5 {
			cycleVote = -trendVote
		}
		votes += cycleVote
	}
	if res.Score >= 0.5 && cycleVote != 0 {
		votes += cycleVote
	} else if res.Score > 0 {
		votes += trendVote
	}

	direction := core.DirectionNeutral
	switch {
	case votes > 0:
		direction = core.DirectionBullish
	case votes < 0:
		direction = core.DirectionBearish
	}

	p := Prediction{Direction: direction, TimeFrame: core.TimeFrameMedium, Target: close}
	if cycles.Current == nil {
		return p
	}

	align := 0.0
	if (direction == core.DirectionBullish && angles.Trend == TrendUp) ||
		(direction == core.DirectionBearish && angles.Trend == TrendDown) {
		align = 1
	}
	p.Confidence = weightCycle*cycles.Current.Confidence + weightAngle*align + weightResonance*res.Score
	p.TimeFrame = TimeFrameFor(cycles.Current.Length)

	switch direction {
	case core.DirectionBullish:
		if z := nearestZone(zones, ZoneResistance, close); z != nil {
			p.Target = z.Mid()
		}
	case core.DirectionBearish:
		if z := nearestZone(zones, ZoneSupport, close); z != nil {
			p.Target = z.Mid()
		}
	}
	return p
}
