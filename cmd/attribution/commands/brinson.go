package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis/v13/attribution/internal/attribution"
)

type brinsonOptions struct {
	portfolioWeights []float64
	benchmarkWeights []float64
	portfolioReturns []float64
	benchmarkReturns []float64
	basis            string
}

func newBrinsonCmd(a *app) *cobra.Command {
	opts := &brinsonOptions{}

	cmd := &cobra.Command{
		Use:   "brinson",
		Short: "Brinson-Fachler 초과수익 분해",
		Long: `벤치마크 대비 초과수익을 배분/선택/상호작용 효과로 분해합니다.
각 효과는 소수 둘째 자리로 반올림됩니다.

값을 여러 개 주면 섹터별 분해와 포트폴리오 합계를 출력합니다.
비중과 수익률은 같은 단위(분수 또는 퍼센트)를 사용해야 합니다.

선택 효과 기준 (--basis):
- portfolio: portfolio_weight × return_diff (기본)
- benchmark: benchmark_weight × return_diff (합계 = pw·pr − bw·br)

Example:
  go run ./cmd/attribution brinson --pw 0.6 --bw 0.5 --pr 0.08 --br 0.05
  go run ./cmd/attribution brinson --pw 60,40 --bw 50,50 --pr 8,2 --br 5,4 --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrinson(cmd, a, opts)
		},
	}

	cmd.Flags().Float64SliceVar(&opts.portfolioWeights, "pw", nil, "포트폴리오 비중")
	cmd.Flags().Float64SliceVar(&opts.benchmarkWeights, "bw", nil, "벤치마크 비중")
	cmd.Flags().Float64SliceVar(&opts.portfolioReturns, "pr", nil, "포트폴리오 수익률")
	cmd.Flags().Float64SliceVar(&opts.benchmarkReturns, "br", nil, "벤치마크 수익률")
	cmd.Flags().StringVar(&opts.basis, "basis", "portfolio", "선택 효과 기준 (portfolio, benchmark)")

	return cmd
}

func (o *brinsonOptions) inputs() ([]attribution.BrinsonInput, error) {
	n := len(o.portfolioWeights)
	if n == 0 {
		return nil, fmt.Errorf("no input: pass --pw/--bw/--pr/--br")
	}
	if len(o.benchmarkWeights) != n || len(o.portfolioReturns) != n || len(o.benchmarkReturns) != n {
		return nil, fmt.Errorf("%w: pw=%d bw=%d pr=%d br=%d", attribution.ErrLengthMismatch,
			n, len(o.benchmarkWeights), len(o.portfolioReturns), len(o.benchmarkReturns))
	}

	inputs := make([]attribution.BrinsonInput, n)
	for i := range inputs {
		inputs[i] = attribution.BrinsonInput{
			PortfolioWeight: o.portfolioWeights[i],
			BenchmarkWeight: o.benchmarkWeights[i],
			PortfolioReturn: o.portfolioReturns[i],
			BenchmarkReturn: o.benchmarkReturns[i],
		}
	}
	return inputs, nil
}

func parseBasis(s string) (attribution.SelectionBasis, error) {
	switch s {
	case "portfolio":
		return attribution.PortfolioWeighted, nil
	case "benchmark":
		return attribution.BenchmarkWeighted, nil
	default:
		return 0, fmt.Errorf("unknown selection basis %q (portfolio, benchmark)", s)
	}
}

func runBrinson(cmd *cobra.Command, a *app, opts *brinsonOptions) error {
	inputs, err := opts.inputs()
	if err != nil {
		return err
	}
	basis, err := parseBasis(opts.basis)
	if err != nil {
		return err
	}

	results, sum := attribution.BrinsonFachlerSectors(inputs, basis)
	var total *attribution.BrinsonResult
	if len(inputs) > 1 {
		total = &sum
	}
	a.log.WithFields(map[string]interface{}{
		"sectors": len(results),
		"basis":   opts.basis,
	}).Info("brinson-fachler decomposition calculated")

	out := cmd.OutOrStdout()
	if a.jsonOutput() {
		payload := map[string]interface{}{
			"basis":   opts.basis,
			"results": results,
		}
		if total != nil {
			payload["total"] = total
		}
		return printJSON(out, payload)
	}

	printHeader(out, "Brinson-Fachler Attribution")
	printKeyValue(out, "Selection basis", opts.basis, 15)
	printSeparator(out)

	widths := []int{8, 11, 10, 12, 9}
	printTableHeader(out, []string{"#", "Allocation", "Selection", "Interaction", "Total"}, widths)
	for i, r := range results {
		printTableRow(out, brinsonRow(fmt.Sprint(i), r), widths)
	}
	if total != nil {
		printSeparator(out)
		printTableRow(out, brinsonRow("Total", *total), widths)
	}

	return nil
}

func brinsonRow(label string, r attribution.BrinsonResult) []string {
	return []string{
		label,
		fnum(r.Allocation, 2),
		fnum(r.Selection, 2),
		fnum(r.Interaction, 2),
		fnum(r.Total, 2),
	}
}
