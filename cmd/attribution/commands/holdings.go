package commands

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/spf13/cobra"

	"github.com/wonny/aegis/v13/attribution/internal/attribution"
	"github.com/wonny/aegis/v13/attribution/internal/bridge"
)

type holdingsOptions struct {
	values       []float64
	costs        []float64
	prices       []float64
	periodReturn float64
	top          int
	currency     string
	demo         bool
}

func newHoldingsCmd(a *app) *cobra.Command {
	opts := &holdingsOptions{}

	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "종목별 기여도 분석",
		Long: `종목별 비중, 수익률, 기여도를 계산합니다.

출력 (종목당 6개 필드):
- weight: 포트폴리오 내 비중 (%)
- return_pct: 평단 대비 수익률 (%)
- contribution: 수익 기여도 (%p)
- contribution_percent: 기간 수익률 중 기여 비율 (%)
- value_start / value_end: 기간 초/현재 평가액

Example:
  go run ./cmd/attribution holdings --demo
  go run ./cmd/attribution holdings --values 600,400 --costs 100,100 --prices 120,90 --period-return 5
  go run ./cmd/attribution holdings --demo --top 3 --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHoldings(cmd, a, opts)
		},
	}

	cmd.Flags().Float64SliceVar(&opts.values, "values", nil, "종목별 현재 평가액")
	cmd.Flags().Float64SliceVar(&opts.costs, "costs", nil, "종목별 평균 단가")
	cmd.Flags().Float64SliceVar(&opts.prices, "prices", nil, "종목별 현재가")
	cmd.Flags().Float64Var(&opts.periodReturn, "period-return", 0, "포트폴리오 기간 수익률 (%)")
	cmd.Flags().IntVar(&opts.top, "top", 3, "상위/하위 기여 종목 수")
	cmd.Flags().StringVar(&opts.currency, "currency", money.KRW, "평가액 표시 통화 (ISO 4217)")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "데모 모드 (샘플 포트폴리오 사용)")

	return cmd
}

func (o *holdingsOptions) holdings() attribution.Holdings {
	if o.demo {
		return attribution.Holdings{
			CurrentValues: demoCurrentValues,
			AvgCosts:      demoAvgCosts,
			CurrentPrices: demoCurrentPrices,
		}
	}
	return attribution.Holdings{
		CurrentValues: o.values,
		AvgCosts:      o.costs,
		CurrentPrices: o.prices,
	}
}

func (o *holdingsOptions) period() float64 {
	if o.demo {
		return demoPeriodReturn
	}
	return o.periodReturn
}

// computeHoldings flat 경계를 거쳐 종목 기여도 계산 (핸들은 반드시 해제)
func computeHoldings(a *app, h attribution.Holdings, periodReturn float64) ([]attribution.HoldingResult, error) {
	br := bridge.New(a.log, a.engineMetrics)

	handle, err := br.HoldingAttribution(h.CurrentValues, h.AvgCosts, h.CurrentPrices, periodReturn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := br.Release(handle); err != nil {
			a.log.WithError(err).Error("failed to release holding buffer")
		}
	}()

	flat, err := br.Read(handle)
	if err != nil {
		return nil, err
	}
	return attribution.UnflattenHoldings(flat)
}

// holdingView JSON 출력용 (value_start는 -100% 종목에서 null)
type holdingView struct {
	Index               int      `json:"index"`
	Weight              float64  `json:"weight"`
	ReturnPct           float64  `json:"return_pct"`
	Contribution        float64  `json:"contribution"`
	ContributionPercent float64  `json:"contribution_percent"`
	ValueStart          *float64 `json:"value_start"`
	ValueEnd            float64  `json:"value_end"`
}

func newHoldingViews(results []attribution.HoldingResult) []holdingView {
	views := make([]holdingView, len(results))
	for i, r := range results {
		views[i] = holdingView{
			Index:               i,
			Weight:              r.Weight,
			ReturnPct:           r.ReturnPct,
			Contribution:        r.Contribution,
			ContributionPercent: r.ContributionPercent,
			ValueStart:          finite(r.ValueStart),
			ValueEnd:            r.ValueEnd,
		}
	}
	return views
}

func runHoldings(cmd *cobra.Command, a *app, opts *holdingsOptions) error {
	h := opts.holdings()
	if h.Len() == 0 {
		return fmt.Errorf("no holdings: pass --values/--costs/--prices or --demo")
	}
	if money.GetCurrency(opts.currency) == nil {
		return fmt.Errorf("unknown currency %q", opts.currency)
	}

	results, err := computeHoldings(a, h, opts.period())
	if err != nil {
		return err
	}
	summary := attribution.Summarize(opts.period(), results, nil)
	a.log.WithFields(map[string]interface{}{
		"holdings":           len(results),
		"total_contribution": summary.TotalContribution,
	}).Info("holding attribution calculated")

	out := cmd.OutOrStdout()
	if a.jsonOutput() {
		return printJSON(out, map[string]interface{}{
			"period_return": opts.period(),
			"holdings":      newHoldingViews(results),
			"summary":       summary,
		})
	}

	printHeader(out, "Holding Attribution")
	printKeyValue(out, "Period return", fnum(opts.period(), 2)+"%", 14)
	printKeyValue(out, "Holdings", fmt.Sprint(len(results)), 14)
	printSeparator(out)

	widths := []int{4, 9, 9, 9, 10, 16, 16}
	printTableHeader(out, []string{"#", "Weight%", "Return%", "Contrib", "Contrib%", "Start", "End"}, widths)
	for i, r := range results {
		printTableRow(out, []string{
			fmt.Sprint(i),
			fnum(r.Weight, 2),
			fnum(r.ReturnPct, 2),
			fnum(r.Contribution, 2),
			fnum(r.ContributionPercent, 1),
			fmoney(r.ValueStart, opts.currency),
			fmoney(r.ValueEnd, opts.currency),
		}, widths)
	}

	printSeparator(out)
	printKeyValue(out, "Contribution", fnum(summary.TotalContribution, 2)+"%p", 14)
	printKeyValue(out, "Positive", fmt.Sprint(summary.PositiveHoldings), 14)
	printKeyValue(out, "Negative", fmt.Sprint(summary.NegativeHoldings), 14)

	for _, r := range attribution.TopContributors(results, opts.top) {
		printKeyValue(out, "Top", fmt.Sprintf("#%d %s%%p", r.Index, fnum(r.Contribution, 2)), 14)
	}
	for _, r := range attribution.BottomContributors(results, opts.top) {
		printKeyValue(out, "Bottom", fmt.Sprintf("#%d %s%%p", r.Index, fnum(r.Contribution, 2)), 14)
	}

	return nil
}
