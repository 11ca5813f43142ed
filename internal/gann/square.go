package gann

import "math"

// ladderDivision is the square-root step between adjacent ladder levels.
const ladderDivision = 0.125

// PriceSquare is the level ladder derived from one square number,
// rescaled so the square's own level sits at the anchor price.
type PriceSquare struct {
	SquareNumber int       `json:"square_number"`
	Levels       []float64 `json:"levels"` // ascending
	Bracket      [2]float64 `json:"bracket,omitempty"` // consecutive levels around the reference close
}

// BuildSquares constructs a ladder for every configured square number.
// Each ladder is anchored so that the level at step zero equals the
// anchor price; levels are (sqrt(S) + k*0.125)^2 scaled by anchor/S for
// k in [-steps, steps].
func BuildSquares(squares []int, steps int, anchor, close float64) []PriceSquare {
	out := make([]PriceSquare, 0, len(squares))
	for _, sq := range squares {
		ps := buildSquare(sq, steps, anchor)
		ps.Bracket = bracketLevels(ps.Levels, close)
		out = append(out, ps)
	}
	return out
}

func buildSquare(square, steps int, anchor float64) PriceSquare {
	root := math.Sqrt(float64(square))
	scale := anchor / float64(square)
	levels := make([]float64, 0, 2*steps+1)
	for k := -steps; k <= steps; k++ {
		r := root + float64(k)*ladderDivision
		if r <= 0 {
			continue
		}
		levels = append(levels, r*r*scale)
	}
	return PriceSquare{SquareNumber: square, Levels: levels}
}

// bracketLevels returns the consecutive pair of ladder levels that
// straddles price, or the zero pair when price falls outside the ladder.
func bracketLevels(levels []float64, price float64) [2]float64 {
	for i := 1; i < len(levels); i++ {
		if levels[i-1] <= price && price <= levels[i] {
			return [2]float64{levels[i-1], levels[i]}
		}
	}
	return [2]float64{}
}

// TightestSquare picks the ladder currently "in control" of price:
// among ladders that bracket it, the one with the narrowest bracket;
// when none brackets it, the one whose nearest rung is closest. The
// returned square carries the bracket recomputed for price. Returns
// nil only when no ladder has levels.
func TightestSquare(squares []PriceSquare, price float64) *PriceSquare {
	var best *PriceSquare
	bestWidth := math.Inf(1)
	for i := range squares {
		b := bracketLevels(squares[i].Levels, price)
		if b[0] == 0 && b[1] == 0 {
			continue
		}
		if w := b[1] - b[0]; w < bestWidth {
			bestWidth = w
			best = &squares[i]
		}
	}
	if best == nil {
		bestDist := math.Inf(1)
		for i := range squares {
			for _, lvl := range squares[i].Levels {
				if d := math.Abs(lvl - price); d < bestDist {
					bestDist = d
					best = &squares[i]
				}
			}
		}
	}
	if best == nil {
		return nil
	}
	current := *best
	current.Bracket = bracketLevels(current.Levels, price)
	return &current
}
