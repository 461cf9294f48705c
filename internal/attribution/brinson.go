package attribution

import (
	"math"

	"github.com/shopspring/decimal"
)

// BrinsonInput 단일 섹터(또는 포트폴리오) 비중/수익률 쌍
// 비중과 수익률은 같은 단위 체계(분수 0.10 또는 퍼센트 10.0)를 써야 한다
type BrinsonInput struct {
	PortfolioWeight float64 `json:"portfolio_weight"`
	BenchmarkWeight float64 `json:"benchmark_weight"`
	PortfolioReturn float64 `json:"portfolio_return"`
	BenchmarkReturn float64 `json:"benchmark_return"`
}

// BrinsonResult 배분/선택/상호작용/합계 효과 (소수 둘째 자리 반올림)
type BrinsonResult struct {
	Allocation  float64 `json:"allocation"`
	Selection   float64 `json:"selection"`
	Interaction float64 `json:"interaction"`
	Total       float64 `json:"total"`
}

// Fields flat layout 순서의 4개 필드
func (r BrinsonResult) Fields() [BrinsonStride]float64 {
	return [BrinsonStride]float64{r.Allocation, r.Selection, r.Interaction, r.Total}
}

// SelectionBasis 선택 효과에 곱하는 비중
type SelectionBasis int

const (
	// PortfolioWeighted selection = portfolio_weight × return_diff (기본값).
	// interaction이 selection에 한 번 더 포함되므로 합계 ≠ pw·pr − bw·br
	PortfolioWeighted SelectionBasis = iota
	// BenchmarkWeighted selection = benchmark_weight × return_diff.
	// allocation + selection + interaction = pw·pr − bw·br 가 성립
	BenchmarkWeighted
)

const brinsonPlaces = 2

// BrinsonFachler 3요인 초과수익 분해 (PortfolioWeighted)
func BrinsonFachler(in BrinsonInput) BrinsonResult {
	return BrinsonFachlerWith(in, PortfolioWeighted)
}

// BrinsonFachlerWith 선택 효과 기준을 지정한 분해
// 입력에 ±Inf/NaN이 있으면 float64로 계산해 그대로 전파한다
func BrinsonFachlerWith(in BrinsonInput, basis SelectionBasis) BrinsonResult {
	if !in.Finite() {
		return decomposeFloat(in, basis)
	}
	return decompose(in, basis).rounded()
}

// BrinsonFachlerSectors 섹터별 분해와 포트폴리오 합계
// 합계는 반올림 전 값을 더한 뒤 반올림한다
func BrinsonFachlerSectors(inputs []BrinsonInput, basis SelectionBasis) ([]BrinsonResult, BrinsonResult) {
	for _, in := range inputs {
		if !in.Finite() {
			return sectorsFloat(inputs, basis)
		}
	}

	results := make([]BrinsonResult, len(inputs))
	var total effects // decimal zero value는 0
	for i, in := range inputs {
		e := decompose(in, basis)
		results[i] = e.rounded()
		total.allocation = total.allocation.Add(e.allocation)
		total.selection = total.selection.Add(e.selection)
		total.interaction = total.interaction.Add(e.interaction)
		total.total = total.total.Add(e.total)
	}

	return results, total.rounded()
}

// Finite 네 값 모두 유한수인지
func (in BrinsonInput) Finite() bool {
	for _, v := range [...]float64{in.PortfolioWeight, in.BenchmarkWeight, in.PortfolioReturn, in.BenchmarkReturn} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// effects 반올림 전 decimal 효과
type effects struct {
	allocation, selection, interaction, total decimal.Decimal
}

func selectionWeight(in BrinsonInput, basis SelectionBasis) float64 {
	if basis == BenchmarkWeighted {
		return in.BenchmarkWeight
	}
	return in.PortfolioWeight
}

// decompose 이진 부동소수 오차 없이 decimal로 계산 (0.6−0.5 = 0.1 정확히)
// decimal.NewFromFloat는 ±Inf/NaN에서 panic → Finite 입력만
func decompose(in BrinsonInput, basis SelectionBasis) effects {
	pw := decimal.NewFromFloat(in.PortfolioWeight)
	bw := decimal.NewFromFloat(in.BenchmarkWeight)
	pr := decimal.NewFromFloat(in.PortfolioReturn)
	br := decimal.NewFromFloat(in.BenchmarkReturn)
	sw := decimal.NewFromFloat(selectionWeight(in, basis))

	weightDiff := pw.Sub(bw)
	returnDiff := pr.Sub(br)

	e := effects{
		allocation:  weightDiff.Mul(br),
		selection:   sw.Mul(returnDiff),
		interaction: weightDiff.Mul(returnDiff),
	}
	e.total = e.allocation.Add(e.selection).Add(e.interaction)
	return e
}

// rounded 소수 둘째 자리, half away from zero
func (e effects) rounded() BrinsonResult {
	return BrinsonResult{
		Allocation:  e.allocation.Round(brinsonPlaces).InexactFloat64(),
		Selection:   e.selection.Round(brinsonPlaces).InexactFloat64(),
		Interaction: e.interaction.Round(brinsonPlaces).InexactFloat64(),
		Total:       e.total.Round(brinsonPlaces).InexactFloat64(),
	}
}

// =============================================================================
// Non-finite fallback
// =============================================================================

func decomposeFloat(in BrinsonInput, basis SelectionBasis) BrinsonResult {
	r := rawFloat(in, basis)
	return BrinsonResult{
		Allocation:  round2(r.Allocation),
		Selection:   round2(r.Selection),
		Interaction: round2(r.Interaction),
		Total:       round2(r.Total),
	}
}

func sectorsFloat(inputs []BrinsonInput, basis SelectionBasis) ([]BrinsonResult, BrinsonResult) {
	results := make([]BrinsonResult, len(inputs))
	var sum BrinsonResult
	for i, in := range inputs {
		results[i] = decomposeFloat(in, basis)
		r := rawFloat(in, basis)
		sum.Allocation += r.Allocation
		sum.Selection += r.Selection
		sum.Interaction += r.Interaction
		sum.Total += r.Total
	}
	return results, BrinsonResult{
		Allocation:  round2(sum.Allocation),
		Selection:   round2(sum.Selection),
		Interaction: round2(sum.Interaction),
		Total:       round2(sum.Total),
	}
}

// rawFloat 반올림 전 float64 효과
func rawFloat(in BrinsonInput, basis SelectionBasis) BrinsonResult {
	weightDiff := in.PortfolioWeight - in.BenchmarkWeight
	returnDiff := in.PortfolioReturn - in.BenchmarkReturn

	r := BrinsonResult{
		Allocation:  weightDiff * in.BenchmarkReturn,
		Selection:   selectionWeight(in, basis) * returnDiff,
		Interaction: weightDiff * returnDiff,
	}
	r.Total = r.Allocation + r.Selection + r.Interaction
	return r
}

// round2 math.Round는 half away from zero. ±Inf/NaN은 그대로
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
