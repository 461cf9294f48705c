// Package vector provides the reductions and smoothing shared by the risk and
// attribution calculators.
package vector

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrLengthMismatch is returned when two series that must be index-aligned differ in length.
var ErrLengthMismatch = errors.New("series length mismatch")

// Sum returns Σv. The sum of an empty series is 0.
func Sum(v []float64) float64 {
	return floats.Sum(v)
}

// Mean returns the arithmetic mean of v.
// 빈 입력은 오류가 아니라 0 (명시적 특수 케이스)
func Mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Sum(v) / float64(len(v))
}

// DotProduct returns Σa[i]*b[i].
func DotProduct(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(a), len(b))
	}
	return floats.Dot(a, b), nil
}

// ExponentialMovingAverage smooths values with weight alpha on the newest
// observation:
//
//	ema[0] = values[0]
//	ema[i] = alpha*values[i] + (1-alpha)*ema[i-1]
//
// The result has the same length as values; an empty input yields an empty
// (non-nil) slice. alpha = 1 reproduces the input, alpha = 0 holds values[0].
func ExponentialMovingAverage(values []float64, alpha float64) []float64 {
	ema := make([]float64, len(values))
	if len(values) == 0 {
		return ema
	}

	ema[0] = values[0]
	for i := 1; i < len(values); i++ {
		ema[i] = alpha*values[i] + (1-alpha)*ema[i-1]
	}
	return ema
}
