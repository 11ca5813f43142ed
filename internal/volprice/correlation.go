package volprice

import (
	"github.com/quantgeo/gannwheel/internal/core"
	"github.com/quantgeo/gannwheel/internal/indicator"
)

// Correlation computes the Pearson correlation between close-to-close
// returns and volume percentage changes over the trailing window ending
// at the last bar. Degenerate windows (too short, zero variance)
// return 0.
func Correlation(s *core.Series, period int) float64 {
	returns := indicator.PctChange(s.Closes())
	volChanges := indicator.PctChange(s.Volumes())
	if len(returns) < 2 {
		return 0
	}
	if len(returns) > period {
		returns = returns[len(returns)-period:]
		volChanges = volChanges[len(volChanges)-period:]
	}
	return indicator.Pearson(returns, volChanges)
}
