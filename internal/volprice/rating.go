package volprice

import "math"

// Rating score weights: correlation, coordination, divergence
// cleanliness.
const (
	ratingWeightCorrelation  = 0.4
	ratingWeightCoordination = 0.3
	ratingWeightCleanliness  = 0.3
)

// Rating is the headline grade of the volume-price relationship.
type Rating struct {
	Score float64 `json:"score"` // [0, 100]
	Grade string  `json:"grade"` // A+ .. D-
}

// gradeCut maps a minimum score to a letter grade, best first.
type gradeCut struct {
	min   float64
	grade string
}

var gradeCuts = []gradeCut{
	{90, "A+"},
	{80, "A"},
	{75, "A-"},
	{70, "B+"},
	{65, "B"},
	{60, "B-"},
	{55, "C+"},
	{50, "C"},
	{45, "C-"},
	{40, "D+"},
	{35, "D"},
	{30, "D-"},
}

// Rate combines |correlation|, coordination strength and the absence of
// unresolved divergence into a 0-100 score, then maps it through fixed
// cut points. The score is monotonic in coordination strength.
func Rate(correlation float64, coord Coordination, div DivergenceReport) Rating {
	cleanliness := 1 - divergencePenalty(div)

	score := 100 * (ratingWeightCorrelation*math.Abs(correlation) +
		ratingWeightCoordination*coord.CombinedStrength +
		ratingWeightCleanliness*cleanliness)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	grade := "D-"
	for _, c := range gradeCuts {
		if score >= c.min {
			grade = c.grade
			break
		}
	}
	return Rating{Score: score, Grade: grade}
}
