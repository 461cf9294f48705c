package bridge

import (
	"bytes"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aegis/v13/attribution/internal/attribution"
	"github.com/wonny/aegis/v13/attribution/internal/buffer"
	"github.com/wonny/aegis/v13/attribution/internal/risk"
	"github.com/wonny/aegis/v13/attribution/internal/vector"
	"github.com/wonny/aegis/v13/attribution/pkg/config"
	"github.com/wonny/aegis/v13/attribution/pkg/logger"
	"github.com/wonny/aegis/v13/attribution/pkg/metrics"
)

func readAndRelease(t *testing.T, b *Bridge, h buffer.Handle) []float64 {
	t.Helper()
	values, err := b.Read(h)
	require.NoError(t, err)
	require.NoError(t, b.Release(h))
	return values
}

func TestHoldingAttribution(t *testing.T) {
	b := New(nil, nil)

	h, err := b.HoldingAttribution([]float64{600, 400}, []float64{100, 100}, []float64{120, 90}, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Outstanding())

	stride, err := b.Stride(h)
	require.NoError(t, err)
	assert.Equal(t, attribution.HoldingStride, stride)

	values := readAndRelease(t, b, h)
	require.Len(t, values, 12)
	assert.InDelta(t, 60.0, values[0], 1e-9)
	assert.InDelta(t, 12.0, values[2], 1e-9)
	assert.InDelta(t, 240.0, values[3], 1e-9)
	assert.InDelta(t, -4.0, values[8], 1e-9)
	assert.Equal(t, 400.0, values[11])
	assert.Zero(t, b.Outstanding())
}

func TestHoldingAttribution_LengthMismatch(t *testing.T) {
	b := New(nil, nil)

	_, err := b.HoldingAttribution([]float64{1, 2}, []float64{1}, []float64{1, 2}, 5)
	assert.ErrorIs(t, err, vector.ErrLengthMismatch)
	assert.Zero(t, b.Outstanding())
}

func TestSectorAttribution(t *testing.T) {
	b := New(nil, nil)

	hh, err := b.HoldingAttribution(
		[]float64{300, 200, 400, 100},
		[]float64{100, 100, 100, 100},
		[]float64{110, 90, 105, 100},
		3,
	)
	require.NoError(t, err)
	holdings := readAndRelease(t, b, hh)

	// 필드 오프셋: 종목 0 → 0, 종목 2 → 12
	hs, err := b.SectorAttribution(holdings, []int{0, 12}, []float64{40, 60})
	require.NoError(t, err)

	values := readAndRelease(t, b, hs)
	require.Len(t, values, 2*attribution.SectorStride)
	assert.InDelta(t, 50.0, values[0], 1e-9)
	assert.InDelta(t, 2.0, values[1], 1e-9)
	assert.InDelta(t, 1.0, values[2], 1e-9)
	assert.InDelta(t, 2.0, values[3], 1e-9)
	assert.InDelta(t, -1.0, values[4], 1e-9)
	assert.InDelta(t, 1.0, values[5], 1e-9)
	assert.InDelta(t, -4.0, values[9], 1e-9)
	assert.InDelta(t, 6.0, values[10], 1e-9)
}

func TestSectorAttribution_Rejects(t *testing.T) {
	b := New(nil, nil)
	holdings := make([]float64, 2*attribution.HoldingStride)

	tests := []struct {
		name     string
		holdings []float64
		offsets  []int
		want     error
	}{
		{"offset not on record boundary", holdings, []int{0, 3}, attribution.ErrInvalidSectorMapping},
		{"offset past end", holdings, []int{18}, attribution.ErrInvalidSectorMapping},
		{"ragged holdings buffer", holdings[:7], []int{0}, attribution.ErrLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.SectorAttribution(tt.holdings, tt.offsets, nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, b.Outstanding())
}

func TestBrinsonFachler(t *testing.T) {
	b := New(nil, nil)

	h, err := b.BrinsonFachler(0.6, 0.5, 0.08, 0.05)
	require.NoError(t, err)

	// selection = portfolio_weight × return_diff = 0.018
	assert.Equal(t, []float64{0.01, 0.02, 0, 0.03}, readAndRelease(t, b, h))
}

func TestBrinsonFachler_NonFinite(t *testing.T) {
	tests := []struct {
		name           string
		pw, bw, pr, br float64
	}{
		{"positive infinity", 0.6, 0.5, math.Inf(1), 0.05},
		{"negative infinity", 0.6, math.Inf(-1), 0.08, 0.05},
		{"NaN", math.NaN(), 0.5, 0.08, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(nil, nil)

			var err error
			require.NotPanics(t, func() { _, err = b.BrinsonFachler(tt.pw, tt.bw, tt.pr, tt.br) })
			assert.ErrorIs(t, err, ErrNonFiniteInput)
			assert.Zero(t, b.Outstanding())
		})
	}
}

func TestExponentialMovingAverage(t *testing.T) {
	b := New(nil, nil)

	h, err := b.ExponentialMovingAverage([]float64{10, 20, 30}, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 15, 22.5}, readAndRelease(t, b, h))

	h, err = b.ExponentialMovingAverage(nil, 0.3)
	require.NoError(t, err)
	assert.Empty(t, readAndRelease(t, b, h))

	_, err = b.ExponentialMovingAverage([]float64{1}, 1.5)
	assert.ErrorIs(t, err, ErrInvalidAlpha)
	_, err = b.ExponentialMovingAverage([]float64{1}, -0.1)
	assert.ErrorIs(t, err, ErrInvalidAlpha)
}

func TestScalarOperations(t *testing.T) {
	b := New(nil, nil)

	corr, err := b.Correlation([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, corr, 1e-12)

	sd, err := b.StandardDeviation([]float64{5, 5, 5, 5})
	require.NoError(t, err)
	assert.Zero(t, sd)

	beta, err := b.Beta([]float64{1, 2, 3}, []float64{4, 4, 4})
	require.NoError(t, err)
	assert.Equal(t, risk.NeutralBeta, beta)

	sharpe, err := b.SharpeRatio([]float64{5, 5, 5, 5}, 0.02)
	require.NoError(t, err)
	assert.Equal(t, risk.ZeroSharpe, sharpe)

	mdd, err := b.MaxDrawdown([]float64{100, 120, 60, 130})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mdd, 1e-12)

	dot, err := b.DotProduct([]float64{1, 2, 3}, []float64{4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, 32.0, dot)

	assert.Equal(t, 6.0, b.Sum([]float64{1, 2, 3}))
	assert.Equal(t, 2.0, b.Mean([]float64{1, 2, 3}))
	assert.Zero(t, b.Mean(nil))
}

func TestScalarOperations_Errors(t *testing.T) {
	b := New(nil, nil)

	_, err := b.MaxDrawdown(nil)
	assert.ErrorIs(t, err, risk.ErrEmptySeries)

	_, err = b.Correlation([]float64{1}, []float64{1, 2})
	assert.ErrorIs(t, err, risk.ErrLengthMismatch)

	_, err = b.DotProduct([]float64{1}, nil)
	assert.ErrorIs(t, err, vector.ErrLengthMismatch)
}

func TestRelease_Misuse(t *testing.T) {
	b := New(nil, nil)

	h, err := b.BrinsonFachler(1, 1, 1, 1)
	require.NoError(t, err)
	require.NoError(t, b.Release(h))

	assert.ErrorIs(t, b.Release(h), buffer.ErrAlreadyReleased)
	_, err = b.Read(h)
	assert.ErrorIs(t, err, buffer.ErrAlreadyReleased)
	assert.ErrorIs(t, b.Release(h+100), buffer.ErrUnknownHandle)

	_, err = b.Stride(h)
	assert.ErrorIs(t, err, buffer.ErrAlreadyReleased)
}

func TestReadReturnsCopy(t *testing.T) {
	b := New(nil, nil)

	h, err := b.ExponentialMovingAverage([]float64{1, 2}, 1)
	require.NoError(t, err)

	first, err := b.Read(h)
	require.NoError(t, err)
	first[0] = 99

	assert.Equal(t, []float64{1, 2}, readAndRelease(t, b, h))
}

func TestRejectionIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, &config.Config{Env: "test", LogLevel: "warn", LogFormat: "json"})
	b := New(log, nil)

	_, err := b.StandardDeviation(nil)
	require.Error(t, err)

	assert.Contains(t, buf.String(), `"operation":"standard_deviation"`)
	assert.Contains(t, buf.String(), `"component":"bridge"`)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New()
	require.NoError(t, m.Register(reg))
	b := New(nil, m)

	h, err := b.ExponentialMovingAverage([]float64{1, 2, 3}, 0.5)
	require.NoError(t, err)
	_, err = b.Beta([]float64{1, 2}, []float64{1, 3})
	require.NoError(t, err)
	_, err = b.MaxDrawdown(nil)
	require.Error(t, err)

	_, err = b.BrinsonFachler(0.6, 0.5, math.Inf(1), 0.05)
	require.Error(t, err)
	assert.Equal(t, 6.0, b.Sum([]float64{1, 2, 3}))
	assert.Equal(t, 2.0, b.Mean([]float64{1, 2, 3}))

	require.NoError(t, b.Release(h))
	require.Error(t, b.Release(h))
	_, err = b.Stride(h)
	require.Error(t, err)

	samples, err := metrics.Snapshot(reg)
	require.NoError(t, err)
	got := make(map[string]float64, len(samples))
	for _, s := range samples {
		got[s.Name] = s.Value
	}

	assert.Equal(t, 1.0, got["aegis_attribution_calculations_total{operation=ema}"])
	assert.Equal(t, 1.0, got["aegis_attribution_calculations_total{operation=beta}"])
	assert.Equal(t, 1.0, got["aegis_attribution_calculations_total{operation=sum}"])
	assert.Equal(t, 1.0, got["aegis_attribution_calculations_total{operation=mean}"])
	assert.Equal(t, 1.0, got["aegis_attribution_rejections_total{operation=max_drawdown}"])
	assert.Equal(t, 1.0, got["aegis_attribution_rejections_total{operation=brinson_fachler}"])
	assert.Equal(t, 1.0, got["aegis_attribution_buffer_allocated_total"])
	assert.Equal(t, 1.0, got["aegis_attribution_buffer_released_total"])
	assert.Equal(t, 0.0, got["aegis_attribution_buffer_outstanding"])
	// Release 1회 + Stride 1회
	assert.Equal(t, 2.0, got["aegis_attribution_buffer_misuse_total"])
}

func TestStrideMisuseIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, &config.Config{Env: "test", LogLevel: "warn", LogFormat: "json"})
	b := New(log, nil)

	_, err := b.Stride(9)
	require.ErrorIs(t, err, buffer.ErrUnknownHandle)

	assert.Contains(t, buf.String(), "buffer stride rejected")
}
