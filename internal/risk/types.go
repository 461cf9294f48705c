package risk

import "time"

// =============================================================================
// Input Types (for pure calculation)
// =============================================================================

// ProfileInput 리스크 프로파일 입력 (호출자가 조립해서 전달)
type ProfileInput struct {
	PortfolioReturns []float64 `json:"portfolio_returns"` // 기간별 포트폴리오 수익률 (필수)
	BenchmarkReturns []float64 `json:"benchmark_returns"` // 벤치마크 수익률 (선택, 길이 동일)
	Values           []float64 `json:"values"`            // 평가액 시계열 (선택, 없으면 수익률로 복리 곡선 생성)
	RiskFreeRate     float64   `json:"risk_free_rate"`    // 수익률과 같은 기간 단위
}

// =============================================================================
// Result Types
// =============================================================================

// Profile 리스크 통계 묶음
type Profile struct {
	SampleCount  int     `json:"sample_count"`
	MeanReturn   float64 `json:"mean_return"`
	StdDev       float64 `json:"std_dev"` // 모집단 표준편차
	Sharpe       float64 `json:"sharpe"`
	MaxDrawdown  float64 `json:"max_drawdown"` // 손실을 양수로 표현
	HasBenchmark bool    `json:"has_benchmark"`
	Correlation  float64 `json:"correlation"`
	Beta         float64 `json:"beta"`
}

// =============================================================================
// Limit Check Types
// =============================================================================

// Limits 리스크 한도
type Limits struct {
	MaxDrawdown   float64 `json:"max_drawdown"`   // 최대 MDD (예: 0.15 = 15%)
	MaxVolatility float64 `json:"max_volatility"` // 최대 표준편차 (수익률 단위)
	BetaMin       float64 `json:"beta_min"`
	BetaMax       float64 `json:"beta_max"`
}

// DefaultLimits 기본 리스크 한도
func DefaultLimits() Limits {
	return Limits{
		MaxDrawdown:   0.15, // 15% MDD
		MaxVolatility: 0.25,
		BetaMin:       0.5,
		BetaMax:       1.5,
	}
}

// LimitCheck 한도 체크 결과
type LimitCheck struct {
	Passed     bool      `json:"passed"`
	Violations []string  `json:"violations"`
	CheckedAt  time.Time `json:"checked_at"`
}
