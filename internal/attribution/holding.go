package attribution

import "github.com/wonny/aegis/v13/attribution/internal/vector"

// CalculateHoldings 종목별 기여도 분석
//
// periodReturn은 포트폴리오 기간 수익률(%)이며 contribution_percent 계산에만 쓰인다.
// 평단 대비 -100% 수익률(현재가 0)인 종목은 value_start가 ±Inf 또는 NaN이 된다.
// 오류가 아닌 알려진 edge case로 취급한다.
func CalculateHoldings(h Holdings, periodReturn float64) ([]HoldingResult, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	results := make([]HoldingResult, h.Len())
	totalValue := vector.Sum(h.CurrentValues)

	for i, currentValue := range h.CurrentValues {
		avgCost := h.AvgCosts[i]

		weight := 0.0
		if totalValue > 0 {
			weight = currentValue / totalValue * 100
		}

		returnPct := 0.0
		if avgCost > 0 {
			returnPct = (h.CurrentPrices[i] - avgCost) / avgCost * 100
		}

		contribution := weight / 100 * returnPct

		contributionPercent := 0.0
		if periodReturn != 0 {
			contributionPercent = contribution / periodReturn * 100
		}

		results[i] = HoldingResult{
			Weight:              weight,
			ReturnPct:           returnPct,
			Contribution:        contribution,
			ContributionPercent: contributionPercent,
			ValueStart:          currentValue / (1 + returnPct/100),
			ValueEnd:            currentValue,
		}
	}

	return results, nil
}
