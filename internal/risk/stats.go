package risk

import (
	"errors"
	"fmt"
	"math"

	"github.com/wonny/aegis/v13/attribution/internal/vector"
)

// =============================================================================
// Errors & Sentinel Policies
// =============================================================================

var (
	// ErrEmptySeries 빈 시계열 (첫 원소 접근 불가)
	ErrEmptySeries = errors.New("empty series")
	// ErrLengthMismatch 두 시계열 길이 불일치
	ErrLengthMismatch = vector.ErrLengthMismatch
)

// 0으로 나누는 경우의 반환값 (오류 대신 고정값)
const (
	// ZeroCorrelation 분모가 정확히 0일 때 (상수 시계열)
	ZeroCorrelation = 0.0
	// NeutralBeta 벤치마크 분산이 0일 때: 포트폴리오가 벤치마크와 동행한다고 간주
	NeutralBeta = 1.0
	// ZeroSharpe 표준편차가 0일 때
	ZeroSharpe = 0.0
)

func requireSeries(x []float64) error {
	if len(x) == 0 {
		return ErrEmptySeries
	}
	return nil
}

func requirePair(x, y []float64) error {
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	return requireSeries(x)
}

// =============================================================================
// Statistics
// =============================================================================

// Correlation Pearson 상관계수 (sum-of-products 공식)
//
//	(nΣxy − ΣxΣy) / sqrt((nΣx²−(Σx)²)(nΣy²−(Σy)²))
//
// 분모가 정확히 0이면 ZeroCorrelation 반환
func Correlation(x, y []float64) (float64, error) {
	if err := requirePair(x, y); err != nil {
		return 0, fmt.Errorf("correlation: %w", err)
	}

	n := float64(len(x))
	sumX := vector.Sum(x)
	sumY := vector.Sum(y)
	// 길이는 위에서 검증됨
	sumXY, _ := vector.DotProduct(x, y)
	sumX2, _ := vector.DotProduct(x, x)
	sumY2, _ := vector.DotProduct(y, y)

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))
	if denominator == 0 {
		return ZeroCorrelation, nil
	}

	return numerator / denominator, nil
}

// StandardDeviation 모집단 표준편차 sqrt(Σ(x−mean)²/n), Bessel 보정 없음
func StandardDeviation(x []float64) (float64, error) {
	if err := requireSeries(x); err != nil {
		return 0, fmt.Errorf("standard deviation: %w", err)
	}
	return math.Sqrt(populationVariance(x, vector.Mean(x))), nil
}

// Beta covariance(portfolio, benchmark) / variance(benchmark)
// 벤치마크 분산이 정확히 0이면 NeutralBeta 반환
func Beta(portfolio, benchmark []float64) (float64, error) {
	if err := requirePair(portfolio, benchmark); err != nil {
		return 0, fmt.Errorf("beta: %w", err)
	}

	portMean := vector.Mean(portfolio)
	benchMean := vector.Mean(benchmark)

	var covariance, benchVariance float64
	for i := range portfolio {
		portDiff := portfolio[i] - portMean
		benchDiff := benchmark[i] - benchMean
		covariance += portDiff * benchDiff
		benchVariance += benchDiff * benchDiff
	}

	if benchVariance == 0 {
		return NeutralBeta, nil
	}

	// n은 분자/분모에서 상쇄됨
	return covariance / benchVariance, nil
}

// SharpeRatio (mean(returns) − riskFreeRate) / 모집단 표준편차
// 표준편차가 0이면 ZeroSharpe 반환
func SharpeRatio(returns []float64, riskFreeRate float64) (float64, error) {
	if err := requireSeries(returns); err != nil {
		return 0, fmt.Errorf("sharpe ratio: %w", err)
	}

	mean := vector.Mean(returns)
	stdDev := math.Sqrt(populationVariance(returns, mean))
	if stdDev == 0 {
		return ZeroSharpe, nil
	}

	return (mean - riskFreeRate) / stdDev, nil
}

// MaxDrawdown 최대 낙폭 (손실을 양수로 표현, 0.5 = 50%)
// 단일 전진 패스로 고점을 추적: drawdown_t = (peak_t − value_t) / peak_t
// 고점이 0 이하인 구간은 낙폭을 정의할 수 없으므로 건너뜀
func MaxDrawdown(values []float64) (float64, error) {
	if err := requireSeries(values); err != nil {
		return 0, fmt.Errorf("max drawdown: %w", err)
	}

	maxDD := 0.0
	peak := values[0]

	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - v) / peak; dd > maxDD {
			maxDD = dd
		}
	}

	return maxDD, nil
}

// populationVariance Σ(x−mean)²/n
func populationVariance(x []float64, mean float64) float64 {
	var sumSq float64
	for _, v := range x {
		diff := v - mean
		sumSq += diff * diff
	}
	return sumSq / float64(len(x))
}
