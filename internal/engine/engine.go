package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Backtest/internal/indicator"
	"github.com/Alias1177/Backtest/internal/model"
	"github.com/Alias1177/Backtest/internal/portfolio"
	"github.com/Alias1177/Backtest/internal/position"
	"github.com/Alias1177/Backtest/internal/series"
	"github.com/Alias1177/Backtest/internal/signal"
)

// ErrInvalidConfig is returned before any bar is processed when the run
// parameters cannot produce a meaningful backtest.
var ErrInvalidConfig = errors.New("invalid configuration")

// Params are the knobs of a single backtest run.
type Params struct {
	Symbol         string
	FastWindow     int
	SlowWindow     int
	InitialCash    float64
	CommissionRate float64
	CommissionLegs position.CommissionLegs
}

func (p Params) validate() error {
	if p.FastWindow <= 0 || p.SlowWindow <= 0 {
		return fmt.Errorf("%w: window sizes must be positive (fast=%d slow=%d)",
			ErrInvalidConfig, p.FastWindow, p.SlowWindow)
	}
	if p.FastWindow >= p.SlowWindow {
		return fmt.Errorf("%w: fast window %d must be smaller than slow window %d",
			ErrInvalidConfig, p.FastWindow, p.SlowWindow)
	}
	if p.InitialCash <= 0 {
		return fmt.Errorf("%w: initial cash must be positive, got %.2f",
			ErrInvalidConfig, p.InitialCash)
	}
	if p.CommissionRate < 0 {
		return fmt.Errorf("%w: commission rate must not be negative, got %f",
			ErrInvalidConfig, p.CommissionRate)
	}
	return nil
}

// Run phases. The engine enters finalize exactly once, on the last bar,
// and never returns to active.
type phase int

const (
	phaseWarmup phase = iota
	phaseActive
	phaseFinalize
)

// Engine walks a price series bar by bar, feeding the moving-average
// tracker, the crossover detector, the position manager and the
// accountant, and assembles the final report.
type Engine struct {
	params Params
	logger zerolog.Logger
}

// New validates the parameters and creates an engine.
func New(p Params) (*Engine, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		params: p,
		logger: log.With().Str("component", "backtest_engine").Logger(),
	}, nil
}

// Run executes the backtest as a synchronous fold over the series. A
// series shorter than the slow window is a valid degenerate run that
// completes with zero trades.
func (e *Engine) Run(s *series.Series) (*model.Report, error) {
	if s == nil || s.Len() == 0 {
		return nil, series.ErrInsufficientData
	}

	n := s.Len()
	tracker := indicator.NewTracker(e.params.FastWindow, e.params.SlowWindow)
	mgr := position.NewManager(e.params.InitialCash, e.params.CommissionRate, e.params.CommissionLegs)
	acct := portfolio.NewAccountant(e.params.InitialCash)

	fastSeries := make([]float64, n)
	slowSeries := make([]float64, n)
	var markers []model.Marker

	e.logger.Info().
		Str("symbol", e.params.Symbol).
		Int("bars", n).
		Int("fast_window", e.params.FastWindow).
		Int("slow_window", e.params.SlowWindow).
		Msg("Starting backtest")

	var prev model.MovingAverages
	st := phaseWarmup
	for i := 0; i < n; i++ {
		bar := s.Bar(i)
		curr := tracker.Update(bar)
		fastSeries[i] = maValue(curr.Fast, curr.FastReady)
		slowSeries[i] = maValue(curr.Slow, curr.SlowReady)

		if st == phaseWarmup && curr.Defined() {
			st = phaseActive
			e.logger.Debug().Int("bar", i).Msg("Warmup complete, signals armed")
		}

		if sig := signal.Detect(prev, curr); sig != model.SignalNone {
			wasFlat := mgr.Open() == nil
			closed := mgr.OnSignal(sig, bar)
			if sig == model.SignalBuy && wasFlat && mgr.Open() != nil {
				markers = append(markers, model.Marker{Timestamp: bar.Timestamp, Price: bar.Close, Side: model.SignalBuy})
			}
			if closed != nil {
				markers = append(markers, model.Marker{Timestamp: bar.Timestamp, Price: bar.Close, Side: model.SignalSell})
			}
		}

		if i == n-1 {
			st = phaseFinalize
			if closed := mgr.ForceClose(bar); closed != nil {
				markers = append(markers, model.Marker{Timestamp: bar.Timestamp, Price: bar.Close, Side: model.SignalSell})
				e.logger.Info().
					Float64("exit_price", bar.Close).
					Float64("pnl", closed.PnL).
					Msg("Force-closed open position at end of series")
			}
		}

		acct.Mark(bar, mgr.Cash(), mgr.Open())
		prev = curr
	}

	stats := portfolio.SummarizeTrades(mgr.Trades())
	report := &model.Report{
		Symbol:           e.params.Symbol,
		StartingValue:    e.params.InitialCash,
		EndingValue:      acct.FinalEquity(),
		TotalReturn:      acct.TotalReturn(),
		AnnualizedReturn: acct.AnnualizedReturn(),
		SharpeRatio:      acct.SharpeRatio(),
		MaxDrawdown:      acct.MaxDrawdown(),
		TotalTrades:      stats.Total,
		WinningTrades:    stats.Winning,
		LosingTrades:     stats.Losing,
		WinRate:          stats.WinRate,
		AverageWin:       stats.AverageWin,
		AverageLoss:      stats.AverageLoss,
		TotalCommission:  mgr.TotalCommission(),
		Trades:           mgr.Trades(),
		EquityCurve:      acct.Curve(),
		Bars:             s.Bars(),
		FastSeries:       fastSeries,
		SlowSeries:       slowSeries,
		Markers:          markers,
	}

	e.logger.Info().
		Float64("ending_value", report.EndingValue).
		Float64("total_return", report.TotalReturn).
		Int("trades", report.TotalTrades).
		Msg("Backtest complete")

	return report, nil
}

func maValue(v float64, ready bool) float64 {
	if !ready {
		return math.NaN()
	}
	return v
}
