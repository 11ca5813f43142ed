package indicator

// RelativeVolume calculates volume divided by its rolling mean.
// Returns slice of length: len(volumes) - period + 1
func RelativeVolume(volumes []float64, period int) []float64 {
	ma := SMA(volumes, period)
	if len(ma) == 0 {
		return []float64{}
	}

	result := make([]float64, len(ma))
	for j := range ma {
		if ma[j] == 0 {
			result[j] = 0
			continue
		}
		result[j] = volumes[j+period-1] / ma[j]
	}
	return result
}

// VWAP calculates the cumulative volume-weighted average price from
// typical prices (H+L+C)/3. Returns a slice the length of the inputs.
// Bars with zero cumulative volume carry the typical price through.
func VWAP(highs, lows, closes, volumes []float64) []float64 {
	n := len(closes)
	if n == 0 || len(highs) != n || len(lows) != n || len(volumes) != n {
		return []float64{}
	}

	result := make([]float64, n)
	var cumPV, cumV float64
	for i := 0; i < n; i++ {
		typical := (highs[i] + lows[i] + closes[i]) / 3
		cumPV += typical * volumes[i]
		cumV += volumes[i]
		if cumV == 0 {
			result[i] = typical
			continue
		}
		result[i] = cumPV / cumV
	}
	return result
}
