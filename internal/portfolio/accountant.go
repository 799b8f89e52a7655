package portfolio

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/Alias1177/Backtest/internal/model"
)

// tradingDaysPerYear is the conventional annualization factor for daily bars.
const tradingDaysPerYear = 252.0

// Accountant records one mark-to-market equity point per processed bar
// and derives performance metrics from the finished curve.
type Accountant struct {
	initialCash float64
	curve       []model.EquityPoint
}

// NewAccountant creates an accountant for a run starting with initialCash.
func NewAccountant(initialCash float64) *Accountant {
	return &Accountant{initialCash: initialCash}
}

// Mark values the portfolio at the bar's close and appends the point to
// the equity curve. Equity is cash plus the open position marked at the
// current close, if any.
func (a *Accountant) Mark(bar model.Bar, cash float64, open *model.Position) float64 {
	equity := cash
	if open != nil {
		equity += open.Size * bar.Close
	}
	a.curve = append(a.curve, model.EquityPoint{Timestamp: bar.Timestamp, Equity: equity})
	return equity
}

// Curve returns the equity curve accumulated so far.
func (a *Accountant) Curve() []model.EquityPoint {
	return a.curve
}

// FinalEquity returns the last recorded equity, or the initial cash when
// no bar was ever marked.
func (a *Accountant) FinalEquity() float64 {
	if len(a.curve) == 0 {
		return a.initialCash
	}
	return a.curve[len(a.curve)-1].Equity
}

// TotalReturn is (final / initial) - 1.
func (a *Accountant) TotalReturn() float64 {
	if a.initialCash == 0 {
		return 0
	}
	return a.FinalEquity()/a.initialCash - 1
}

// AnnualizedReturn compounds the total return to a yearly rate using the
// 252 trading-day convention.
func (a *Accountant) AnnualizedReturn() float64 {
	n := len(a.curve)
	if n == 0 || a.initialCash <= 0 {
		return 0
	}
	growth := a.FinalEquity() / a.initialCash
	if growth <= 0 {
		return -1
	}
	return math.Pow(growth, tradingDaysPerYear/float64(n)) - 1
}

// MaxDrawdown returns the deepest peak-to-trough decline of the equity
// curve as a positive fraction in [0, 1]. Zero for a non-decreasing curve.
func (a *Accountant) MaxDrawdown() float64 {
	if len(a.curve) == 0 {
		return 0
	}
	peak := a.curve[0].Equity
	maxDD := 0.0
	for _, p := range a.curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			if dd := (peak - p.Equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// SharpeRatio annualizes mean/stdev of the curve's simple daily returns.
// A flat curve (zero variance) or fewer than two points yields 0 rather
// than a division by zero.
func (a *Accountant) SharpeRatio() float64 {
	if len(a.curve) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(a.curve)-1)
	for i := 1; i < len(a.curve); i++ {
		prev := a.curve[i-1].Equity
		if prev == 0 {
			return 0
		}
		returns = append(returns, a.curve[i].Equity/prev-1)
	}
	mean := stat.Mean(returns, nil)
	stdev := stat.StdDev(returns, nil)
	if stdev == 0 || math.IsNaN(stdev) {
		return 0
	}
	return mean / stdev * math.Sqrt(tradingDaysPerYear)
}

// TradeStats summarizes a closed-trade list.
type TradeStats struct {
	Total       int
	Winning     int
	Losing      int
	WinRate     float64
	AverageWin  float64
	AverageLoss float64
}

// SummarizeTrades computes win/loss statistics. With zero trades every
// rate is reported as 0; the Total field lets callers tell that apart
// from a genuine 0% win rate.
func SummarizeTrades(trades []model.Trade) TradeStats {
	var s TradeStats
	s.Total = len(trades)
	var winPnL, lossPnL float64
	for _, t := range trades {
		if t.PnL > 0 {
			s.Winning++
			winPnL += t.PnL
		} else {
			s.Losing++
			lossPnL += t.PnL
		}
	}
	if s.Total > 0 {
		s.WinRate = float64(s.Winning) / float64(s.Total)
	}
	if s.Winning > 0 {
		s.AverageWin = winPnL / float64(s.Winning)
	}
	if s.Losing > 0 {
		s.AverageLoss = lossPnL / float64(s.Losing)
	}
	return s
}
