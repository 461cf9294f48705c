package attribution

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrinsonFachler(t *testing.T) {
	tests := []struct {
		name string
		in   BrinsonInput
		want BrinsonResult
	}{
		{
			name: "fractions",
			in:   BrinsonInput{PortfolioWeight: 0.6, BenchmarkWeight: 0.5, PortfolioReturn: 0.08, BenchmarkReturn: 0.05},
			// 0.005 / 0.018 / 0.003 / 0.026
			want: BrinsonResult{Allocation: 0.01, Selection: 0.02, Interaction: 0, Total: 0.03},
		},
		{
			name: "percent units",
			in:   BrinsonInput{PortfolioWeight: 60, BenchmarkWeight: 50, PortfolioReturn: 8, BenchmarkReturn: 5},
			want: BrinsonResult{Allocation: 50, Selection: 180, Interaction: 30, Total: 260},
		},
		{
			name: "negative half rounds away from zero",
			in:   BrinsonInput{PortfolioWeight: 0.5, BenchmarkWeight: 0.6, PortfolioReturn: 0.05, BenchmarkReturn: 0.05},
			want: BrinsonResult{Allocation: -0.01, Selection: 0, Interaction: 0, Total: -0.01},
		},
		{
			name: "identical portfolio and benchmark",
			in:   BrinsonInput{PortfolioWeight: 0.3, BenchmarkWeight: 0.3, PortfolioReturn: 0.07, BenchmarkReturn: 0.07},
			want: BrinsonResult{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BrinsonFachler(tt.in))
		})
	}
}

func TestBrinsonFachlerWith(t *testing.T) {
	in := BrinsonInput{PortfolioWeight: 0.6, BenchmarkWeight: 0.5, PortfolioReturn: 0.08, BenchmarkReturn: 0.05}

	assert.Equal(t, BrinsonFachler(in), BrinsonFachlerWith(in, PortfolioWeighted))

	// selection 0.015, total 0.023
	got := BrinsonFachlerWith(in, BenchmarkWeighted)
	assert.Equal(t, BrinsonResult{Allocation: 0.01, Selection: 0.02, Interaction: 0, Total: 0.02}, got)

	pct := BrinsonInput{PortfolioWeight: 60, BenchmarkWeight: 50, PortfolioReturn: 8, BenchmarkReturn: 5}
	assert.Equal(t, BrinsonResult{Allocation: 50, Selection: 150, Interaction: 30, Total: 230},
		BrinsonFachlerWith(pct, BenchmarkWeighted))
}

func TestBrinsonFachler_NonFinite(t *testing.T) {
	tests := []struct {
		name string
		in   BrinsonInput
		want func(float64) bool
	}{
		{
			name: "positive infinity return",
			in:   BrinsonInput{PortfolioWeight: 0.6, BenchmarkWeight: 0.5, PortfolioReturn: math.Inf(1), BenchmarkReturn: 0.05},
			want: func(v float64) bool { return math.IsInf(v, 1) },
		},
		{
			name: "negative infinity return",
			in:   BrinsonInput{PortfolioWeight: 0.6, BenchmarkWeight: 0.5, PortfolioReturn: math.Inf(-1), BenchmarkReturn: 0.05},
			want: func(v float64) bool { return math.IsInf(v, -1) },
		},
		{
			name: "NaN benchmark return",
			in:   BrinsonInput{PortfolioWeight: 0.6, BenchmarkWeight: 0.5, PortfolioReturn: 0.08, BenchmarkReturn: math.NaN()},
			want: math.IsNaN,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, tt.in.Finite())

			var got BrinsonResult
			require.NotPanics(t, func() { got = BrinsonFachler(tt.in) })
			assert.True(t, tt.want(got.Selection), "selection %v", got.Selection)
			assert.True(t, tt.want(got.Total), "total %v", got.Total)

			require.NotPanics(t, func() { BrinsonFachlerWith(tt.in, BenchmarkWeighted) })
		})
	}
}

func TestBrinsonFachler_Identity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 500; trial++ {
		in := BrinsonInput{
			PortfolioWeight: rng.Float64() * 100,
			BenchmarkWeight: rng.Float64() * 100,
			PortfolioReturn: rng.Float64()*40 - 20,
			BenchmarkReturn: rng.Float64()*40 - 20,
		}
		exact := in.PortfolioWeight*in.PortfolioReturn - in.BenchmarkWeight*in.BenchmarkReturn

		got := BrinsonFachlerWith(in, BenchmarkWeighted)
		assert.InDelta(t, exact, got.Total, 0.005+1e-9, "trial %d total", trial)
		assert.InDelta(t, exact, got.Allocation+got.Selection+got.Interaction, 0.015+1e-9, "trial %d sum", trial)
	}
}

func TestBrinsonFachler_TwoDecimalPlaces(t *testing.T) {
	got := BrinsonFachler(BrinsonInput{PortfolioWeight: 0.37, BenchmarkWeight: 0.29, PortfolioReturn: 0.113, BenchmarkReturn: 0.071})
	for _, v := range got.Fields() {
		assert.InDelta(t, math.Round(v*100)/100, v, 1e-12)
	}
}

func TestBrinsonFachlerSectors(t *testing.T) {
	inputs := []BrinsonInput{
		{PortfolioWeight: 60, BenchmarkWeight: 50, PortfolioReturn: 8, BenchmarkReturn: 5},
		{PortfolioWeight: 40, BenchmarkWeight: 50, PortfolioReturn: 2, BenchmarkReturn: 4},
	}

	t.Run("portfolio weighted", func(t *testing.T) {
		results, total := BrinsonFachlerSectors(inputs, PortfolioWeighted)
		require.Len(t, results, 2)

		assert.Equal(t, BrinsonFachler(inputs[0]), results[0])
		// sector 2: allocation -40, selection 40×-2, interaction 20
		assert.Equal(t, BrinsonResult{Allocation: -40, Selection: -80, Interaction: 20, Total: -100}, results[1])
		assert.Equal(t, BrinsonResult{Allocation: 10, Selection: 100, Interaction: 50, Total: 160}, total)
	})

	t.Run("benchmark weighted", func(t *testing.T) {
		results, total := BrinsonFachlerSectors(inputs, BenchmarkWeighted)
		require.Len(t, results, 2)

		assert.Equal(t, BrinsonFachlerWith(inputs[0], BenchmarkWeighted), results[0])
		// sector 2: allocation -40, selection 50×-2, interaction 20
		assert.Equal(t, BrinsonResult{Allocation: -40, Selection: -100, Interaction: 20, Total: -120}, results[1])
		assert.Equal(t, BrinsonResult{Allocation: 10, Selection: 50, Interaction: 50, Total: 110}, total)

		// 포트폴리오 초과수익 = Σpw·pr − Σbw·br
		assert.InDelta(t, (60*8+40*2)-(50*5+50*4), total.Total, 1e-9)
	})

	t.Run("non-finite sector", func(t *testing.T) {
		withInf := []BrinsonInput{
			inputs[0],
			{PortfolioWeight: 0.6, BenchmarkWeight: 0.5, PortfolioReturn: math.Inf(1), BenchmarkReturn: 0.05},
		}

		var (
			results []BrinsonResult
			total   BrinsonResult
		)
		require.NotPanics(t, func() { results, total = BrinsonFachlerSectors(withInf, PortfolioWeighted) })
		require.Len(t, results, 2)
		assert.Equal(t, BrinsonResult{Allocation: 50, Selection: 180, Interaction: 30, Total: 260}, results[0])
		assert.True(t, math.IsInf(results[1].Total, 1))
		assert.True(t, math.IsInf(total.Total, 1))
	})

	t.Run("empty", func(t *testing.T) {
		empty, zero := BrinsonFachlerSectors(nil, PortfolioWeighted)
		assert.Empty(t, empty)
		assert.Equal(t, BrinsonResult{}, zero)
	})
}
