package risk

import (
	"fmt"
	"time"

	"github.com/wonny/aegis/v13/attribution/internal/vector"
	"github.com/wonny/aegis/v13/attribution/pkg/logger"
)

// =============================================================================
// Engine - 순수 계산기
// =============================================================================

// Engine 리스크 엔진 (순수 계산기)
// ⭐ SSOT: 데이터 조립은 호출자 책임, 여기서는 계산과 로깅만 담당
type Engine struct {
	log *logger.Logger
}

// NewEngine 새 리스크 엔진 생성 (log가 nil이면 출력 없음)
func NewEngine(log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{log: log.WithField("component", "risk.engine")}
}

// Profile 포트폴리오 리스크 통계 일괄 계산
func (e *Engine) Profile(input ProfileInput) (*Profile, error) {
	returns := input.PortfolioReturns
	if len(returns) == 0 {
		return nil, fmt.Errorf("profile: %w", ErrEmptySeries)
	}

	stdDev, err := StandardDeviation(returns)
	if err != nil {
		return nil, err
	}
	sharpe, err := SharpeRatio(returns, input.RiskFreeRate)
	if err != nil {
		return nil, err
	}

	values := input.Values
	if len(values) == 0 {
		values = EquityCurve(returns)
	}
	mdd, err := MaxDrawdown(values)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		SampleCount: len(returns),
		MeanReturn:  vector.Mean(returns),
		StdDev:      stdDev,
		Sharpe:      sharpe,
		MaxDrawdown: mdd,
		Beta:        NeutralBeta,
	}

	// 벤치마크 비교 (선택)
	if len(input.BenchmarkReturns) > 0 {
		corr, err := Correlation(returns, input.BenchmarkReturns)
		if err != nil {
			return nil, err
		}
		beta, err := Beta(returns, input.BenchmarkReturns)
		if err != nil {
			return nil, err
		}
		profile.HasBenchmark = true
		profile.Correlation = corr
		profile.Beta = beta
	}

	e.log.WithFields(map[string]interface{}{
		"sample_count": profile.SampleCount,
		"std_dev":      profile.StdDev,
		"sharpe":       profile.Sharpe,
		"max_drawdown": profile.MaxDrawdown,
		"beta":         profile.Beta,
	}).Debug("risk profile calculated")

	return profile, nil
}

// CheckLimits 리스크 한도 체크 (순수 계산)
func (e *Engine) CheckLimits(p *Profile, limits Limits) *LimitCheck {
	result := &LimitCheck{
		Passed:     true,
		Violations: make([]string, 0),
		CheckedAt:  time.Now(),
	}

	if p.MaxDrawdown > limits.MaxDrawdown {
		result.Passed = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("MaxDrawdown %.4f exceeds limit %.4f", p.MaxDrawdown, limits.MaxDrawdown))
	}

	if p.StdDev > limits.MaxVolatility {
		result.Passed = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("Volatility %.4f exceeds limit %.4f", p.StdDev, limits.MaxVolatility))
	}

	if p.HasBenchmark && (p.Beta < limits.BetaMin || p.Beta > limits.BetaMax) {
		result.Passed = false
		result.Violations = append(result.Violations,
			fmt.Sprintf("Beta %.4f outside band [%.2f, %.2f]", p.Beta, limits.BetaMin, limits.BetaMax))
	}

	if !result.Passed {
		e.log.WithField("violations", result.Violations).Warn("risk limits violated")
	}

	return result
}

// =============================================================================
// Utility Functions
// =============================================================================

// EquityCurve 수익률 시계열을 1.0에서 시작하는 복리 평가액 곡선으로 변환
// 반환 길이 = len(returns) + 1
func EquityCurve(returns []float64) []float64 {
	curve := make([]float64, len(returns)+1)
	curve[0] = 1.0
	for i, r := range returns {
		curve[i+1] = curve[i] * (1.0 + r)
	}
	return curve
}
