package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/aegis/v13/attribution/internal/attribution"
)

type sectorsOptions struct {
	holdingsOptions
	offsets      []int
	benchWeights []float64
	names        []string
}

func newSectorsCmd(a *app) *cobra.Command {
	opts := &sectorsOptions{}

	cmd := &cobra.Command{
		Use:   "sectors",
		Short: "섹터별 기여도 집계",
		Long: `종목 기여도를 섹터별로 집계하고 배분/선택 효과를 계산합니다.

--offsets 는 섹터별 첫 종목 인덱스 (오름차순). 섹터 i는
offsets[i] 부터 offsets[i+1] 직전 종목까지, 마지막 섹터는 끝까지.
--bench 미지정 시 모든 섹터에 BENCHMARK_SECTOR_WEIGHT 적용.

Example:
  go run ./cmd/attribution sectors --demo
  go run ./cmd/attribution sectors --values 300,200,400,100 --costs 100,100,100,100 \
      --prices 110,90,105,100 --period-return 3 --offsets 0,2 --bench 40,60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSectors(cmd, a, opts)
		},
	}

	cmd.Flags().Float64SliceVar(&opts.values, "values", nil, "종목별 현재 평가액")
	cmd.Flags().Float64SliceVar(&opts.costs, "costs", nil, "종목별 평균 단가")
	cmd.Flags().Float64SliceVar(&opts.prices, "prices", nil, "종목별 현재가")
	cmd.Flags().Float64Var(&opts.periodReturn, "period-return", 0, "포트폴리오 기간 수익률 (%)")
	cmd.Flags().IntSliceVar(&opts.offsets, "offsets", nil, "섹터별 첫 종목 인덱스")
	cmd.Flags().Float64SliceVar(&opts.benchWeights, "bench", nil, "섹터별 벤치마크 비중 (%)")
	cmd.Flags().StringSliceVar(&opts.names, "names", nil, "섹터 이름 (선택)")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "데모 모드 (샘플 포트폴리오 사용)")

	return cmd
}

func (o *sectorsOptions) sectorInputs() ([]int, []float64, []string) {
	if o.demo {
		return demoSectorOffsets, demoBenchWeights, demoSectorNames
	}
	return o.offsets, o.benchWeights, o.names
}

// benchmarkWeights 미지정 시 설정값으로 채움
func benchmarkWeights(weights []float64, sectors int, fallback float64) []float64 {
	if len(weights) > 0 {
		return weights
	}
	filled := make([]float64, sectors)
	for i := range filled {
		filled[i] = fallback
	}
	return filled
}

func sectorName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("sector-%d", i)
}

type sectorView struct {
	Name string `json:"name"`
	attribution.SectorResult
}

func runSectors(cmd *cobra.Command, a *app, opts *sectorsOptions) error {
	h := opts.holdings()
	offsets, bench, names := opts.sectorInputs()
	if h.Len() == 0 || len(offsets) == 0 {
		return fmt.Errorf("no input: pass holdings with --offsets, or --demo")
	}

	holdings, err := computeHoldings(a, h, opts.period())
	if err != nil {
		return err
	}

	bench = benchmarkWeights(bench, len(offsets), a.cfg.Engine.BenchmarkSectorWeight)
	sectors, err := attribution.AggregateSectors(holdings, offsets, bench)
	if err != nil {
		return err
	}
	summary := attribution.Summarize(opts.period(), holdings, sectors)
	a.log.WithFields(map[string]interface{}{
		"sectors":    len(sectors),
		"allocation": summary.AllocationEffect,
		"selection":  summary.SelectionEffect,
	}).Info("sector attribution calculated")

	out := cmd.OutOrStdout()
	if a.jsonOutput() {
		views := make([]sectorView, len(sectors))
		for i, s := range sectors {
			views[i] = sectorView{Name: sectorName(names, i), SectorResult: s}
		}
		return printJSON(out, map[string]interface{}{
			"period_return":     opts.period(),
			"benchmark_weights": bench,
			"sectors":           views,
			"summary":           summary,
		})
	}

	printHeader(out, "Sector Attribution")
	printKeyValue(out, "Period return", fnum(opts.period(), 2)+"%", 14)
	printKeyValue(out, "Sectors", fmt.Sprint(len(sectors)), 14)
	printSeparator(out)

	widths := []int{12, 9, 9, 9, 11, 10, 9, 6}
	printTableHeader(out, []string{"Sector", "Weight%", "Return%", "Contrib", "Allocation", "Selection", "Total", "Count"}, widths)
	for i, s := range sectors {
		printTableRow(out, []string{
			sectorName(names, i),
			fnum(s.Weight, 2),
			fnum(s.Return, 2),
			fnum(s.Contribution, 2),
			fnum(s.AllocationEffect, 2),
			fnum(s.SelectionEffect, 2),
			fnum(s.TotalEffect, 2),
			fmt.Sprint(s.HoldingsCount),
		}, widths)
	}

	printSeparator(out)
	printKeyValue(out, "Allocation", fnum(summary.AllocationEffect, 2), 14)
	printKeyValue(out, "Selection", fnum(summary.SelectionEffect, 2), 14)
	if summary.BestSector >= 0 {
		printKeyValue(out, "Best sector", sectorName(names, summary.BestSector), 14)
		printKeyValue(out, "Worst sector", sectorName(names, summary.WorstSector), 14)
	}

	return nil
}
