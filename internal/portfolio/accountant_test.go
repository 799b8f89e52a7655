package portfolio

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/Backtest/internal/model"
)

func markAll(a *Accountant, equities ...float64) {
	start := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, e := range equities {
		a.Mark(model.Bar{Timestamp: start.AddDate(0, 0, i), Close: 1}, e, nil)
	}
}

func TestMarkValuesOpenPosition(t *testing.T) {
	a := NewAccountant(1000)
	pos := &model.Position{EntryPrice: 10, Size: 50}

	equity := a.Mark(model.Bar{Timestamp: time.Now(), Close: 12}, 500, pos)
	assert.InDelta(t, 1100.0, equity, 1e-12) // 500 cash + 50*12

	equity = a.Mark(model.Bar{Timestamp: time.Now(), Close: 12}, 500, nil)
	assert.InDelta(t, 500.0, equity, 1e-12)

	require.Len(t, a.Curve(), 2)
}

func TestTotalAndAnnualizedReturn(t *testing.T) {
	a := NewAccountant(1000)
	equities := make([]float64, 252)
	for i := range equities {
		equities[i] = 1000 + float64(i+1)*(1000.0/252.0)
	}
	equities[251] = 2000
	markAll(a, equities...)

	assert.InDelta(t, 1.0, a.TotalReturn(), 1e-9)
	// 252 bars of daily data is exactly one trading year
	assert.InDelta(t, 1.0, a.AnnualizedReturn(), 1e-9)
}

func TestReturnsOnEmptyCurve(t *testing.T) {
	a := NewAccountant(1000)
	assert.Equal(t, 1000.0, a.FinalEquity())
	assert.Equal(t, 0.0, a.TotalReturn())
	assert.Equal(t, 0.0, a.AnnualizedReturn())
	assert.Equal(t, 0.0, a.MaxDrawdown())
	assert.Equal(t, 0.0, a.SharpeRatio())
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name     string
		equities []float64
		expected float64
	}{
		{"non-decreasing curve", []float64{100, 100, 120, 150}, 0},
		{"single dip", []float64{100, 120, 90, 130}, 0.25},
		{"deepest of two dips", []float64{100, 120, 90, 130, 80}, (130.0 - 80.0) / 130.0},
		{"monotonic decline", []float64{100, 50}, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAccountant(tt.equities[0])
			markAll(a, tt.equities...)
			dd := a.MaxDrawdown()
			assert.InDelta(t, tt.expected, dd, 1e-12)
			assert.GreaterOrEqual(t, dd, 0.0)
			assert.LessOrEqual(t, dd, 1.0)
		})
	}
}

func TestSharpeRatioFlatCurveIsZero(t *testing.T) {
	a := NewAccountant(1000)
	markAll(a, 1000, 1000, 1000, 1000)

	sharpe := a.SharpeRatio()
	assert.Equal(t, 0.0, sharpe)
	assert.False(t, math.IsNaN(sharpe))
}

func TestSharpeRatioSteadyGrowth(t *testing.T) {
	a := NewAccountant(1000)
	equities := make([]float64, 20)
	e := 1000.0
	for i := range equities {
		equities[i] = e
		e *= 1.01
	}
	markAll(a, equities...)

	// Constant returns have zero stdev, so this degenerates to zero too.
	assert.Equal(t, 0.0, a.SharpeRatio())

	// Perturb one point so variance is nonzero and the ratio is finite.
	a2 := NewAccountant(1000)
	equities[10] *= 1.02
	markAll(a2, equities...)
	sharpe := a2.SharpeRatio()
	assert.False(t, math.IsNaN(sharpe))
	assert.NotZero(t, sharpe)
}

func TestSummarizeTrades(t *testing.T) {
	trades := []model.Trade{
		{PnL: 100},
		{PnL: -40},
		{PnL: 60},
		{PnL: 0}, // break-even counts as a loss
	}

	s := SummarizeTrades(trades)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Winning)
	assert.Equal(t, 2, s.Losing)
	assert.InDelta(t, 0.5, s.WinRate, 1e-12)
	assert.InDelta(t, 80.0, s.AverageWin, 1e-12)
	assert.InDelta(t, -20.0, s.AverageLoss, 1e-12)
}

func TestSummarizeTradesEmpty(t *testing.T) {
	s := SummarizeTrades(nil)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, 0.0, s.WinRate)
	assert.Equal(t, 0.0, s.AverageWin)
	assert.Equal(t, 0.0, s.AverageLoss)
}
