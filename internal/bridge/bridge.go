// Package bridge exposes the attribution and risk calculators through flat
// float64 slices. Producing operations return a buffer.Handle that the host
// must Release exactly once; scalar operations return plain values.
package bridge

import (
	"errors"
	"fmt"

	"github.com/wonny/aegis/v13/attribution/internal/attribution"
	"github.com/wonny/aegis/v13/attribution/internal/buffer"
	"github.com/wonny/aegis/v13/attribution/internal/risk"
	"github.com/wonny/aegis/v13/attribution/internal/vector"
	"github.com/wonny/aegis/v13/attribution/pkg/logger"
	"github.com/wonny/aegis/v13/attribution/pkg/metrics"
)

// ErrInvalidAlpha EMA 평활 계수가 [0, 1] 범위 밖
var ErrInvalidAlpha = errors.New("alpha must be within [0, 1]")

// ErrNonFiniteInput 입력에 ±Inf 또는 NaN
var ErrNonFiniteInput = errors.New("input must be finite")

// Bridge flat 경계
// ⭐ SSOT: 핸들 발급/해제는 여기서만
type Bridge struct {
	pool    *buffer.Pool
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New 새 Bridge 생성
// log가 nil이면 출력 없음, m이 nil이면 등록되지 않은 지표를 사용
func New(log *logger.Logger, m *metrics.Metrics) *Bridge {
	if log == nil {
		log = logger.Nop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Bridge{
		pool:    buffer.NewPool(),
		log:     log.WithField("component", "bridge"),
		metrics: m,
	}
}

// =============================================================================
// Producing operations (handle 반환)
// =============================================================================

// HoldingAttribution 종목별 기여도 → 6 × N flat 버퍼
func (b *Bridge) HoldingAttribution(currentValues, avgCosts, currentPrices []float64, periodReturn float64) (buffer.Handle, error) {
	results, err := attribution.CalculateHoldings(attribution.Holdings{
		CurrentValues: currentValues,
		AvgCosts:      avgCosts,
		CurrentPrices: currentPrices,
	}, periodReturn)
	if err != nil {
		return 0, b.reject("holding_attribution", err)
	}

	return b.allocate("holding_attribution", attribution.FlattenHoldings(results), attribution.HoldingStride)
}

// SectorAttribution 섹터 집계 → 6 × sectorCount flat 버퍼
//
// holdings는 HoldingAttribution이 만든 flat 레이아웃, fieldOffsets[i]는 섹터 i의
// 첫 종목 레코드 시작 위치(필드 단위, 6의 배수). benchmarkWeights는 nil 허용.
func (b *Bridge) SectorAttribution(holdings []float64, fieldOffsets []int, benchmarkWeights []float64) (buffer.Handle, error) {
	results, err := attribution.UnflattenHoldings(holdings)
	if err != nil {
		return 0, b.reject("sector_attribution", err)
	}

	offsets := make([]int, len(fieldOffsets))
	for i, off := range fieldOffsets {
		if off%attribution.HoldingStride != 0 {
			return 0, b.reject("sector_attribution", fmt.Errorf("%w: offset %d of sector %d is not a multiple of %d",
				attribution.ErrInvalidSectorMapping, off, i, attribution.HoldingStride))
		}
		offsets[i] = off / attribution.HoldingStride
	}

	sectors, err := attribution.AggregateSectors(results, offsets, benchmarkWeights)
	if err != nil {
		return 0, b.reject("sector_attribution", err)
	}

	return b.allocate("sector_attribution", attribution.FlattenSectors(sectors), attribution.SectorStride)
}

// BrinsonFachler 3요인 분해 → [allocation, selection, interaction, total]
// selection = portfolio_weight × return_diff. ±Inf/NaN 입력은 ErrNonFiniteInput
func (b *Bridge) BrinsonFachler(portfolioWeight, benchmarkWeight, portfolioReturn, benchmarkReturn float64) (buffer.Handle, error) {
	in := attribution.BrinsonInput{
		PortfolioWeight: portfolioWeight,
		BenchmarkWeight: benchmarkWeight,
		PortfolioReturn: portfolioReturn,
		BenchmarkReturn: benchmarkReturn,
	}
	if !in.Finite() {
		return 0, b.reject("brinson_fachler", fmt.Errorf("%w: pw=%v bw=%v pr=%v br=%v",
			ErrNonFiniteInput, portfolioWeight, benchmarkWeight, portfolioReturn, benchmarkReturn))
	}

	fields := attribution.BrinsonFachler(in).Fields()
	return b.allocate("brinson_fachler", fields[:], attribution.BrinsonStride)
}

// ExponentialMovingAverage EMA → 입력과 같은 길이의 버퍼
func (b *Bridge) ExponentialMovingAverage(values []float64, alpha float64) (buffer.Handle, error) {
	if alpha < 0 || alpha > 1 {
		return 0, b.reject("ema", fmt.Errorf("%w: got %v", ErrInvalidAlpha, alpha))
	}
	return b.allocate("ema", vector.ExponentialMovingAverage(values, alpha), 1)
}

// =============================================================================
// Scalar operations
// =============================================================================

// Correlation Pearson 상관계수
func (b *Bridge) Correlation(x, y []float64) (float64, error) {
	v, err := risk.Correlation(x, y)
	return v, b.check("correlation", err)
}

// StandardDeviation 모집단 표준편차
func (b *Bridge) StandardDeviation(x []float64) (float64, error) {
	v, err := risk.StandardDeviation(x)
	return v, b.check("standard_deviation", err)
}

// Beta 벤치마크 대비 베타
func (b *Bridge) Beta(portfolio, benchmark []float64) (float64, error) {
	v, err := risk.Beta(portfolio, benchmark)
	return v, b.check("beta", err)
}

// SharpeRatio 샤프 비율
func (b *Bridge) SharpeRatio(returns []float64, riskFreeRate float64) (float64, error) {
	v, err := risk.SharpeRatio(returns, riskFreeRate)
	return v, b.check("sharpe_ratio", err)
}

// MaxDrawdown 최대 낙폭
func (b *Bridge) MaxDrawdown(values []float64) (float64, error) {
	v, err := risk.MaxDrawdown(values)
	return v, b.check("max_drawdown", err)
}

// DotProduct 내적
func (b *Bridge) DotProduct(x, y []float64) (float64, error) {
	v, err := vector.DotProduct(x, y)
	return v, b.check("dot_product", err)
}

// Sum 합계
func (b *Bridge) Sum(values []float64) float64 {
	b.metrics.CalculationsTotal.WithLabelValues("sum").Inc()
	return vector.Sum(values)
}

// Mean 평균 (빈 입력은 0)
func (b *Bridge) Mean(values []float64) float64 {
	b.metrics.CalculationsTotal.WithLabelValues("mean").Inc()
	return vector.Mean(values)
}

// =============================================================================
// Buffer lifecycle
// =============================================================================

// Read 핸들의 값 복사본. 해제된 핸들은 ErrAlreadyReleased
func (b *Bridge) Read(h buffer.Handle) ([]float64, error) {
	buf, err := b.pool.Get(h)
	if err != nil {
		b.metrics.BufferMisuseTotal.Inc()
		b.log.WithError(err).Warn("buffer read rejected")
		return nil, err
	}
	return buf.Values(), nil
}

// Stride 핸들 버퍼의 레코드 크기
func (b *Bridge) Stride(h buffer.Handle) (int, error) {
	buf, err := b.pool.Get(h)
	if err != nil {
		b.metrics.BufferMisuseTotal.Inc()
		b.log.WithError(err).Warn("buffer stride rejected")
		return 0, err
	}
	return buf.Stride, nil
}

// Release 버퍼 해제 (핸들당 정확히 1회)
func (b *Bridge) Release(h buffer.Handle) error {
	if err := b.pool.Release(h); err != nil {
		b.metrics.BufferMisuseTotal.Inc()
		b.log.WithError(err).Warn("buffer release rejected")
		return err
	}
	b.metrics.BuffersReleased.Inc()
	b.metrics.BuffersOutstanding.Dec()
	b.log.WithField("handle", uint64(h)).Debug("buffer released")
	return nil
}

// Outstanding 아직 해제되지 않은 핸들 수
func (b *Bridge) Outstanding() int {
	return b.pool.Live()
}

// =============================================================================
// Helpers
// =============================================================================

func (b *Bridge) allocate(op string, values []float64, stride int) (buffer.Handle, error) {
	buf, err := buffer.New(values, stride)
	if err != nil {
		return 0, b.reject(op, err)
	}

	h := b.pool.Allocate(buf)
	b.metrics.CalculationsTotal.WithLabelValues(op).Inc()
	b.metrics.BuffersAllocated.Inc()
	b.metrics.BuffersOutstanding.Inc()
	b.log.WithFields(map[string]interface{}{
		"operation": op,
		"handle":    uint64(h),
		"records":   buf.Records(),
	}).Debug("buffer allocated")
	return h, nil
}

func (b *Bridge) reject(op string, err error) error {
	b.metrics.RejectionsTotal.WithLabelValues(op).Inc()
	b.log.WithError(err).WithField("operation", op).Warn("calculation rejected")
	return fmt.Errorf("%s: %w", op, err)
}

func (b *Bridge) check(op string, err error) error {
	if err == nil {
		b.metrics.CalculationsTotal.WithLabelValues(op).Inc()
		return nil
	}
	b.metrics.RejectionsTotal.WithLabelValues(op).Inc()
	b.log.WithError(err).WithField("operation", op).Warn("calculation rejected")
	return err
}
