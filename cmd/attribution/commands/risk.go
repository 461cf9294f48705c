package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis/v13/attribution/internal/risk"
)

type riskOptions struct {
	returns      []float64
	benchmark    []float64
	values       []float64
	riskFreeRate float64
	demo         bool
}

func newRiskCmd(a *app) *cobra.Command {
	opts := &riskOptions{}

	cmd := &cobra.Command{
		Use:   "risk",
		Short: "리스크 통계 및 한도 체크",
		Long: `수익률 시계열의 리스크 통계를 계산하고 한도를 체크합니다.

출력:
- 평균 수익률, 모집단 표준편차, 샤프 비율
- 최대 낙폭 (--values 미지정 시 수익률 복리 곡선 사용)
- 벤치마크 지정 시 상관계수, 베타

한도: MAX_DRAWDOWN_LIMIT, MAX_VOLATILITY_LIMIT, BETA_MIN, BETA_MAX

Example:
  go run ./cmd/attribution risk --demo
  go run ./cmd/attribution risk --returns 0.01,-0.02,0.015 --benchmark 0.008,-0.01,0.01
  go run ./cmd/attribution risk --demo --risk-free 0 --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRisk(cmd, a, opts)
		},
	}

	cmd.Flags().Float64SliceVar(&opts.returns, "returns", nil, "포트폴리오 기간 수익률")
	cmd.Flags().Float64SliceVar(&opts.benchmark, "benchmark", nil, "벤치마크 기간 수익률 (선택)")
	cmd.Flags().Float64SliceVar(&opts.values, "values", nil, "평가액 시계열 (선택)")
	cmd.Flags().Float64Var(&opts.riskFreeRate, "risk-free", 0, "무위험 수익률 (기본: RISK_FREE_RATE)")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "데모 모드 (샘플 수익률 사용)")

	return cmd
}

func runRisk(cmd *cobra.Command, a *app, opts *riskOptions) error {
	input := risk.ProfileInput{
		PortfolioReturns: opts.returns,
		BenchmarkReturns: opts.benchmark,
		Values:           opts.values,
		RiskFreeRate:     a.cfg.Engine.RiskFreeRate,
	}
	if opts.demo {
		input.PortfolioReturns = demoPortfolioReturns
		input.BenchmarkReturns = demoBenchmarkReturns
	}
	if cmd.Flags().Changed("risk-free") {
		input.RiskFreeRate = opts.riskFreeRate
	}

	engine := risk.NewEngine(a.log)
	profile, err := engine.Profile(input)
	if err != nil {
		return err
	}

	limits := risk.Limits{
		MaxDrawdown:   a.cfg.Limits.MaxDrawdown,
		MaxVolatility: a.cfg.Limits.MaxVolatility,
		BetaMin:       a.cfg.Limits.BetaMin,
		BetaMax:       a.cfg.Limits.BetaMax,
	}
	check := engine.CheckLimits(profile, limits)

	out := cmd.OutOrStdout()
	if a.jsonOutput() {
		return printJSON(out, map[string]interface{}{
			"risk_free_rate": input.RiskFreeRate,
			"profile":        profile,
			"limits":         limits,
			"check":          check,
		})
	}

	printHeader(out, "Risk Profile")
	printKeyValue(out, "Samples", fmt.Sprint(profile.SampleCount), 14)
	printKeyValue(out, "Risk-free", fnum(input.RiskFreeRate, 4), 14)
	printSeparator(out)
	printKeyValue(out, "Mean return", fnum(profile.MeanReturn, 6), 14)
	printKeyValue(out, "Std dev", fnum(profile.StdDev, 6), 14)
	printKeyValue(out, "Sharpe", fnum(profile.Sharpe, 4), 14)
	printKeyValue(out, "Max drawdown", fnum(profile.MaxDrawdown*100, 2)+"%", 14)
	if profile.HasBenchmark {
		printKeyValue(out, "Correlation", fnum(profile.Correlation, 4), 14)
		printKeyValue(out, "Beta", fnum(profile.Beta, 4), 14)
	}
	printSeparator(out)

	if check.Passed {
		printSuccess(out, "All risk limits passed")
		return nil
	}
	for _, v := range check.Violations {
		printWarning(out, v)
	}
	return nil
}
