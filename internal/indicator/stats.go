package indicator

import "math"

// Rolling slices returned by this package are aligned to the end of the
// input: out[j] covers the window ending at input index j+period-1.

// RollingStd calculates the rolling sample standard deviation.
// Returns slice of length: len(values) - period + 1
func RollingStd(values []float64, period int) []float64 {
	if period <= 1 || len(values) < period {
		return []float64{}
	}

	result := make([]float64, 0, len(values)-period+1)
	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]

		var sum float64
		for _, v := range window {
			sum += v
		}
		mean := sum / float64(period)

		var variance float64
		for _, v := range window {
			variance += (v - mean) * (v - mean)
		}
		result = append(result, math.Sqrt(variance/float64(period-1)))
	}
	return result
}

// PctChange calculates the fractional change between consecutive values.
// Returns slice of length: len(values) - 1; a zero base yields 0.
func PctChange(values []float64) []float64 {
	if len(values) < 2 {
		return []float64{}
	}

	result := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			result = append(result, 0)
			continue
		}
		result = append(result, (values[i]-values[i-1])/values[i-1])
	}
	return result
}

// Pearson calculates the Pearson correlation coefficient between two
// equal-length samples. Degenerate inputs (short, mismatched, or zero
// variance) return 0.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 2 {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0
	}

	r := cov / math.Sqrt(varX*varY)
	// Guard against floating point drift outside [-1, 1]
	return math.Max(-1, math.Min(1, r))
}

// Slope fits a least-squares line through values indexed 0..n-1 and
// returns its slope in value units per step.
func Slope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sumX, sumY float64
	for i, v := range values {
		sumX += float64(i)
		sumY += v
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var num, den float64
	for i, v := range values {
		dx := float64(i) - meanX
		num += dx * (v - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}
