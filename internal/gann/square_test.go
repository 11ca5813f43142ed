package gann

import (
	"math"
	"testing"
)

func TestBuildSquares_AnchoredAtZeroStep(t *testing.T) {
	squares := BuildSquares([]int{144}, 8, 52.0, 52.5)
	if len(squares) != 1 {
		t.Fatalf("expected one ladder, got %d", len(squares))
	}
	sq := squares[0]
	if len(sq.Levels) != 17 {
		t.Fatalf("expected 17 levels for 8 steps, got %d", len(sq.Levels))
	}

	// The k=0 rung must land exactly on the anchor.
	mid := sq.Levels[8]
	if math.Abs(mid-52.0) > 1e-9 {
		t.Errorf("middle level = %f, want anchor 52.0", mid)
	}

	for i := 1; i < len(sq.Levels); i++ {
		if sq.Levels[i] <= sq.Levels[i-1] {
			t.Fatalf("levels not strictly ascending at %d", i)
		}
	}
}

func TestBuildSquares_BracketsClose(t *testing.T) {
	squares := BuildSquares([]int{144, 169, 225}, 8, 52.0, 52.5)
	for _, sq := range squares {
		b := sq.Bracket
		if b[0] == 0 && b[1] == 0 {
			continue
		}
		if !(b[0] <= 52.5 && 52.5 <= b[1]) {
			t.Errorf("square %d bracket [%f, %f] does not straddle 52.5", sq.SquareNumber, b[0], b[1])
		}
	}
}

func TestTightestSquare(t *testing.T) {
	squares := BuildSquares([]int{144, 169, 225}, 8, 52.0, 52.5)
	best := TightestSquare(squares, 52.5)
	if best == nil {
		t.Fatal("expected a bracketing square")
	}
	width := best.Bracket[1] - best.Bracket[0]
	for _, sq := range squares {
		b := sq.Bracket
		if b[0] == 0 && b[1] == 0 {
			continue
		}
		if w := b[1] - b[0]; w < width {
			t.Errorf("square %d has tighter bracket %f than selected %f", sq.SquareNumber, w, width)
		}
	}
}

func TestTightestSquare_BracketFollowsPrice(t *testing.T) {
	// Ladders built against one close must still bracket a different
	// query price.
	squares := BuildSquares([]int{144, 169, 225}, 8, 52.0, 52.5)
	best := TightestSquare(squares, 55.0)
	if best == nil {
		t.Fatal("expected a square for an in-ladder price")
	}
	b := best.Bracket
	if !(b[0] <= 55.0 && 55.0 <= b[1]) {
		t.Errorf("bracket [%f, %f] does not straddle 55.0", b[0], b[1])
	}
}

func TestTightestSquare_OffLadderNearest(t *testing.T) {
	// A price outside every ladder still gets the nearest square.
	squares := BuildSquares([]int{144}, 2, 52.0, 52.0)
	best := TightestSquare(squares, 500.0)
	if best == nil {
		t.Fatal("expected nearest square for an off-ladder price")
	}
	if best.SquareNumber != 144 {
		t.Errorf("got square %d, want 144", best.SquareNumber)
	}
	if b := best.Bracket; b[0] != 0 || b[1] != 0 {
		t.Errorf("expected zero bracket off ladder, got [%f, %f]", b[0], b[1])
	}
}

func TestTightestSquare_Empty(t *testing.T) {
	if best := TightestSquare(nil, 50.0); best != nil {
		t.Errorf("expected nil for no ladders, got square %d", best.SquareNumber)
	}
}
