// Package attribution decomposes portfolio return into per-holding,
// per-sector and Brinson-Fachler (allocation / selection / interaction)
// effects. All functions are pure; results are freshly allocated per call.
package attribution

import (
	"errors"
	"fmt"

	"github.com/wonny/aegis/v13/attribution/internal/vector"
)

// =============================================================================
// Layout & Constants
// =============================================================================

// Flat result strides (fields per record)
const (
	HoldingStride = 6 // weight, return_pct, contribution, contribution_percent, value_start, value_end
	SectorStride  = 6 // weight, return, contribution, allocation, selection, total
	BrinsonStride = 4 // allocation, selection, interaction, total
)

const (
	// AllocationScaling 섹터 배분 효과 스케일 계수
	AllocationScaling = 0.1
	// DefaultBenchmarkSectorWeight 벤치마크 섹터 비중(%)이 주어지지 않았을 때의 기준값
	DefaultBenchmarkSectorWeight = 10.0
)

var (
	// ErrLengthMismatch index-aligned 입력 길이 불일치
	ErrLengthMismatch = vector.ErrLengthMismatch
	// ErrInvalidSectorMapping 섹터 오프셋이 범위를 벗어나거나 감소함
	ErrInvalidSectorMapping = errors.New("invalid sector mapping")
)

// =============================================================================
// Holding Types
// =============================================================================

// Holdings 종목별 시장 데이터 (index-aligned 병렬 슬라이스)
type Holdings struct {
	CurrentValues []float64 `json:"current_values"`
	AvgCosts      []float64 `json:"avg_costs"`
	CurrentPrices []float64 `json:"current_prices"`
}

// Len 종목 수
func (h Holdings) Len() int {
	return len(h.CurrentValues)
}

// Validate 세 슬라이스 길이가 같은지 확인
func (h Holdings) Validate() error {
	n := len(h.CurrentValues)
	if len(h.AvgCosts) != n || len(h.CurrentPrices) != n {
		return fmt.Errorf("%w: current_values=%d avg_costs=%d current_prices=%d",
			ErrLengthMismatch, n, len(h.AvgCosts), len(h.CurrentPrices))
	}
	return nil
}

// HoldingResult 종목 기여도 분석 결과 (필드 순서 = flat layout 순서)
type HoldingResult struct {
	Weight              float64 `json:"weight"`               // 포트폴리오 내 비중 (%)
	ReturnPct           float64 `json:"return_pct"`           // 평단 대비 수익률 (%)
	Contribution        float64 `json:"contribution"`         // 수익 기여도 (%p)
	ContributionPercent float64 `json:"contribution_percent"` // 기간 수익률 중 기여 비율 (%)
	ValueStart          float64 `json:"value_start"`          // 기간 초 평가액 (역산)
	ValueEnd            float64 `json:"value_end"`            // 현재 평가액
}

// Fields flat layout 순서의 6개 필드
func (r HoldingResult) Fields() [HoldingStride]float64 {
	return [HoldingStride]float64{r.Weight, r.ReturnPct, r.Contribution, r.ContributionPercent, r.ValueStart, r.ValueEnd}
}

// =============================================================================
// Sector Types
// =============================================================================

// SectorResult 섹터 집계 결과
type SectorResult struct {
	Weight           float64 `json:"weight"`
	Return           float64 `json:"return"`
	Contribution     float64 `json:"contribution"`
	AllocationEffect float64 `json:"allocation_effect"`
	SelectionEffect  float64 `json:"selection_effect"`
	TotalEffect      float64 `json:"total_effect"`

	// flat layout에는 포함되지 않음
	HoldingsCount int `json:"holdings_count"`
	TopHolding    int `json:"top_holding"` // 기여도 최대 종목 인덱스, 빈 섹터는 -1
}

// Fields flat layout 순서의 6개 필드
func (r SectorResult) Fields() [SectorStride]float64 {
	return [SectorStride]float64{r.Weight, r.Return, r.Contribution, r.AllocationEffect, r.SelectionEffect, r.TotalEffect}
}

// =============================================================================
// Flat Layout Helpers
// =============================================================================

// FlattenHoldings N개 결과를 길이 6N의 flat 슬라이스로 변환
func FlattenHoldings(results []HoldingResult) []float64 {
	flat := make([]float64, 0, len(results)*HoldingStride)
	for _, r := range results {
		f := r.Fields()
		flat = append(flat, f[:]...)
	}
	return flat
}

// UnflattenHoldings FlattenHoldings의 역변환
func UnflattenHoldings(flat []float64) ([]HoldingResult, error) {
	if len(flat)%HoldingStride != 0 {
		return nil, fmt.Errorf("%w: flat holding buffer of %d values is not a multiple of %d",
			ErrLengthMismatch, len(flat), HoldingStride)
	}

	results := make([]HoldingResult, len(flat)/HoldingStride)
	for i := range results {
		f := flat[i*HoldingStride : (i+1)*HoldingStride]
		results[i] = HoldingResult{
			Weight:              f[0],
			ReturnPct:           f[1],
			Contribution:        f[2],
			ContributionPercent: f[3],
			ValueStart:          f[4],
			ValueEnd:            f[5],
		}
	}
	return results, nil
}

// FlattenSectors 섹터 결과를 길이 6×count의 flat 슬라이스로 변환
func FlattenSectors(results []SectorResult) []float64 {
	flat := make([]float64, 0, len(results)*SectorStride)
	for _, r := range results {
		f := r.Fields()
		flat = append(flat, f[:]...)
	}
	return flat
}
