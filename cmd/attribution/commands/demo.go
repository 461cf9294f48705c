package commands

// 데모 포트폴리오 (--demo)
// 종목 순서는 섹터별로 묶여 있음: IT 0-2, 금융 3-4, 에너지 5-7
var (
	demoCurrentValues = []float64{3_200_000, 1_800_000, 1_000_000, 1_500_000, 900_000, 700_000, 500_000, 400_000}
	demoAvgCosts      = []float64{71_000, 128_000, 45_500, 52_300, 38_900, 210_000, 96_000, 18_700}
	demoCurrentPrices = []float64{78_400, 121_500, 49_200, 55_100, 37_600, 231_000, 88_500, 19_900}
	demoPeriodReturn  = 4.2

	demoSectorNames   = []string{"IT", "Financials", "Energy"}
	demoSectorOffsets = []int{0, 3, 5}
	demoBenchWeights  = []float64{35, 30, 20}

	// 20 거래일 일간 수익률
	demoPortfolioReturns = []float64{
		0.012, -0.004, 0.008, 0.003, -0.015, 0.021, -0.002, 0.005, -0.009, 0.011,
		0.004, -0.018, 0.007, 0.013, -0.006, 0.002, 0.009, -0.011, 0.006, 0.010,
	}
	demoBenchmarkReturns = []float64{
		0.009, -0.002, 0.006, 0.001, -0.012, 0.015, -0.001, 0.004, -0.007, 0.008,
		0.003, -0.014, 0.005, 0.010, -0.004, 0.001, 0.007, -0.009, 0.004, 0.008,
	}
)
