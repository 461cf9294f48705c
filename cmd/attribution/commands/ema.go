package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis/v13/attribution/internal/bridge"
)

type emaOptions struct {
	values []float64
	alpha  float64
	demo   bool
}

func newEMACmd(a *app) *cobra.Command {
	opts := &emaOptions{}

	cmd := &cobra.Command{
		Use:   "ema",
		Short: "지수이동평균 (EMA)",
		Long: `ema[0] = values[0], ema[i] = alpha·values[i] + (1−alpha)·ema[i−1]

alpha = 1 이면 평활 없음, alpha = 0 이면 첫 값 유지.

Example:
  go run ./cmd/attribution ema --values 10,20,30 --alpha 0.5
  go run ./cmd/attribution ema --demo --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEMA(cmd, a, opts)
		},
	}

	cmd.Flags().Float64SliceVar(&opts.values, "values", nil, "입력 시계열")
	cmd.Flags().Float64Var(&opts.alpha, "alpha", 0, "평활 계수 [0, 1] (기본: EMA_ALPHA)")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "데모 모드 (샘플 수익률 사용)")

	return cmd
}

func runEMA(cmd *cobra.Command, a *app, opts *emaOptions) error {
	values := opts.values
	if opts.demo {
		values = demoPortfolioReturns
	}
	alpha := a.cfg.Engine.EMAAlpha
	if cmd.Flags().Changed("alpha") {
		alpha = opts.alpha
	}

	br := bridge.New(a.log, a.engineMetrics)
	handle, err := br.ExponentialMovingAverage(values, alpha)
	if err != nil {
		return err
	}
	defer func() {
		if err := br.Release(handle); err != nil {
			a.log.WithError(err).Error("failed to release ema buffer")
		}
	}()

	ema, err := br.Read(handle)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.jsonOutput() {
		return printJSON(out, map[string]interface{}{
			"alpha":  alpha,
			"values": values,
			"ema":    ema,
		})
	}

	printHeader(out, "Exponential Moving Average")
	printKeyValue(out, "Alpha", fnum(alpha, 4), 6)
	printSeparator(out)

	widths := []int{4, 14, 14}
	printTableHeader(out, []string{"#", "Value", "EMA"}, widths)
	for i := range values {
		printTableRow(out, []string{fmt.Sprint(i), fnum(values[i], 6), fnum(ema[i], 6)}, widths)
	}

	return nil
}
