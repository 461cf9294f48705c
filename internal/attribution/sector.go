package attribution

import "fmt"

// AggregateSectors 섹터별 기여도 집계
//
// offsets[i]는 섹터 i의 첫 종목 인덱스. 섹터 i는 [offsets[i], offsets[i+1]) 구간,
// 마지막 섹터는 len(holdings)까지. offsets[0] 이전 종목은 어느 섹터에도 속하지 않는다.
//
// benchmarkWeights[i]는 섹터 i의 벤치마크 비중(%). nil이면 모든 섹터에
// DefaultBenchmarkSectorWeight를 적용한다.
func AggregateSectors(holdings []HoldingResult, offsets []int, benchmarkWeights []float64) ([]SectorResult, error) {
	if benchmarkWeights != nil && len(benchmarkWeights) != len(offsets) {
		return nil, fmt.Errorf("%w: %d sectors but %d benchmark weights",
			ErrLengthMismatch, len(offsets), len(benchmarkWeights))
	}

	spans, err := sectorSpans(offsets, len(holdings))
	if err != nil {
		return nil, err
	}

	results := make([]SectorResult, len(spans))
	for i, span := range spans {
		benchWeight := DefaultBenchmarkSectorWeight
		if benchmarkWeights != nil {
			benchWeight = benchmarkWeights[i]
		}
		results[i] = aggregateSector(holdings[span[0]:span[1]], span[0], benchWeight)
	}

	return results, nil
}

// aggregateSector 한 섹터의 종목들을 집계. base는 members[0]의 원래 인덱스
func aggregateSector(members []HoldingResult, base int, benchWeight float64) SectorResult {
	result := SectorResult{HoldingsCount: len(members), TopHolding: -1}

	top := -1
	for j, h := range members {
		result.Weight += h.Weight
		result.Contribution += h.Contribution
		if top < 0 || h.Contribution > members[top].Contribution {
			top = j
		}
	}
	if top >= 0 {
		result.TopHolding = base + top
	}

	if result.Weight > 0 {
		result.Return = result.Contribution / (result.Weight / 100)
	}

	result.AllocationEffect = (result.Weight - benchWeight) * result.Return * AllocationScaling
	result.SelectionEffect = result.Contribution - result.AllocationEffect
	result.TotalEffect = result.Contribution

	return result
}

// sectorSpans 연속 오프셋으로 섹터별 [start, end) 구간 계산
func sectorSpans(offsets []int, n int) ([][2]int, error) {
	spans := make([][2]int, len(offsets))
	for i, start := range offsets {
		end := n
		if i+1 < len(offsets) {
			end = offsets[i+1]
		}
		if start < 0 || start > n || end < start {
			return nil, fmt.Errorf("%w: sector %d spans [%d, %d) over %d holdings",
				ErrInvalidSectorMapping, i, start, end, n)
		}
		spans[i] = [2]int{start, end}
	}
	return spans, nil
}
