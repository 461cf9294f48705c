package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 10.0, Sum([]float64{1, 2, 3, 4}))
	assert.Equal(t, -1.5, Sum([]float64{-3, 1.5}))
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty is zero", nil, 0},
		{"single", []float64{7}, 7},
		{"mixed signs", []float64{-2, 2, 6}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mean(tt.values))
		})
	}
}

func TestDotProduct(t *testing.T) {
	got, err := DotProduct([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 32.0, got)

	got, err = DotProduct(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)

	_, err = DotProduct([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestExponentialMovingAverage(t *testing.T) {
	t.Run("single value for any alpha", func(t *testing.T) {
		for _, alpha := range []float64{0, 0.25, 0.5, 1} {
			assert.Equal(t, []float64{10}, ExponentialMovingAverage([]float64{10}, alpha))
		}
	})

	t.Run("alpha one is identity", func(t *testing.T) {
		assert.Equal(t, []float64{10, 20}, ExponentialMovingAverage([]float64{10, 20}, 1.0))
	})

	t.Run("alpha zero holds first value", func(t *testing.T) {
		assert.Equal(t, []float64{3, 3, 3}, ExponentialMovingAverage([]float64{3, 9, 27}, 0))
	})

	t.Run("half smoothing", func(t *testing.T) {
		got := ExponentialMovingAverage([]float64{10, 20, 30}, 0.5)
		require.Len(t, got, 3)
		assert.InDelta(t, 10.0, got[0], 1e-12)
		assert.InDelta(t, 15.0, got[1], 1e-12)
		assert.InDelta(t, 22.5, got[2], 1e-12)
	})

	t.Run("empty input", func(t *testing.T) {
		got := ExponentialMovingAverage(nil, 0.3)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []float64{1, 2, 3}
		_ = ExponentialMovingAverage(in, 0.4)
		assert.Equal(t, []float64{1, 2, 3}, in)
	})
}
