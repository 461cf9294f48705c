package attribution

import "sort"

// RankedHolding 순위가 매겨진 종목 (Index = 입력 순서상의 위치)
type RankedHolding struct {
	Index int `json:"index"`
	HoldingResult
}

// TopContributors 기여도 상위 종목 (내림차순)
func TopContributors(results []HoldingResult, limit int) []RankedHolding {
	ranked := rank(results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Contribution > ranked[j].Contribution
	})
	return truncate(ranked, limit)
}

// BottomContributors 기여도 하위 종목 (오름차순)
func BottomContributors(results []HoldingResult, limit int) []RankedHolding {
	ranked := rank(results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Contribution < ranked[j].Contribution
	})
	return truncate(ranked, limit)
}

func rank(results []HoldingResult) []RankedHolding {
	ranked := make([]RankedHolding, len(results))
	for i, r := range results {
		ranked[i] = RankedHolding{Index: i, HoldingResult: r}
	}
	return ranked
}

func truncate(ranked []RankedHolding, limit int) []RankedHolding {
	if limit < 0 {
		limit = 0
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// Summary 포트폴리오 기여도 요약
type Summary struct {
	PeriodReturn      float64 `json:"period_return"`
	TotalContribution float64 `json:"total_contribution"`
	AllocationEffect  float64 `json:"allocation_effect"`
	SelectionEffect   float64 `json:"selection_effect"`
	PositiveHoldings  int     `json:"positive_holdings"`
	NegativeHoldings  int     `json:"negative_holdings"`
	NeutralHoldings   int     `json:"neutral_holdings"`
	TopContributor    int     `json:"top_contributor"`    // 종목 인덱스, 없으면 -1
	BottomContributor int     `json:"bottom_contributor"` // 종목 인덱스, 없으면 -1
	BestSector        int     `json:"best_sector"`        // 섹터 인덱스, 없으면 -1
	WorstSector       int     `json:"worst_sector"`       // 섹터 인덱스, 없으면 -1
}

// Summarize 종목/섹터 결과를 요약 (sectors는 nil 허용)
func Summarize(periodReturn float64, holdings []HoldingResult, sectors []SectorResult) Summary {
	s := Summary{
		PeriodReturn:      periodReturn,
		TopContributor:    -1,
		BottomContributor: -1,
		BestSector:        -1,
		WorstSector:       -1,
	}

	for i, h := range holdings {
		s.TotalContribution += h.Contribution
		switch {
		case h.Contribution > 0:
			s.PositiveHoldings++
		case h.Contribution < 0:
			s.NegativeHoldings++
		default:
			s.NeutralHoldings++
		}

		if s.TopContributor < 0 || h.Contribution > holdings[s.TopContributor].Contribution {
			s.TopContributor = i
		}
		if s.BottomContributor < 0 || h.Contribution < holdings[s.BottomContributor].Contribution {
			s.BottomContributor = i
		}
	}

	for i, sec := range sectors {
		s.AllocationEffect += sec.AllocationEffect
		s.SelectionEffect += sec.SelectionEffect

		if s.BestSector < 0 || sec.Contribution > sectors[s.BestSector].Contribution {
			s.BestSector = i
		}
		if s.WorstSector < 0 || sec.Contribution < sectors[s.WorstSector].Contribution {
			s.WorstSector = i
		}
	}

	return s
}
