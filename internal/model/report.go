package model

import "time"

// EquityPoint is one mark-to-market valuation of the portfolio.
type EquityPoint struct {
	Timestamp time.Time `json:"ts"`
	Equity    float64   `json:"equity"`
}

// Marker is a trade execution point for the visualization collaborator:
// where on the price chart a buy or sell happened.
type Marker struct {
	Timestamp time.Time `json:"ts"`
	Price     float64   `json:"price"`
	Side      Signal    `json:"side"`
}

// Report is the full outcome of a backtest run. Every field is a pure
// function of the recorded equity curve and trade list.
type Report struct {
	Symbol           string        `json:"symbol"`
	StartingValue    float64       `json:"starting_value"`
	EndingValue      float64       `json:"ending_value"`
	TotalReturn      float64       `json:"total_return"`
	AnnualizedReturn float64       `json:"annualized_return"`
	SharpeRatio      float64       `json:"sharpe_ratio"`
	MaxDrawdown      float64       `json:"max_drawdown"`
	TotalTrades      int           `json:"total_trades"`
	WinningTrades    int           `json:"winning_trades"`
	LosingTrades     int           `json:"losing_trades"`
	WinRate          float64       `json:"win_rate"`
	AverageWin       float64       `json:"average_win"`
	AverageLoss      float64       `json:"average_loss"`
	TotalCommission  float64       `json:"total_commission"`
	Trades           []Trade       `json:"trades"`
	EquityCurve      []EquityPoint `json:"equity_curve"`

	// Plain-data series for the visualization collaborator. FastSeries and
	// SlowSeries align index-for-index with the input bars; warmup entries
	// are NaN.
	Bars       []Bar     `json:"-"`
	FastSeries []float64 `json:"-"`
	SlowSeries []float64 `json:"-"`
	Markers    []Marker  `json:"-"`
}
