package position

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Backtest/internal/model"
)

// CommissionLegs selects which executions the commission rate applies to.
type CommissionLegs int

const (
	LegsBoth CommissionLegs = iota
	LegsEntry
	LegsExit
)

func (l CommissionLegs) String() string {
	return [...]string{"both", "entry", "exit"}[l]
}

// ParseCommissionLegs parses a config value into a CommissionLegs.
func ParseCommissionLegs(s string) (CommissionLegs, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return LegsBoth, nil
	case "entry":
		return LegsEntry, nil
	case "exit":
		return LegsExit, nil
	default:
		return LegsBoth, fmt.Errorf("unknown commission legs %q (want entry, exit or both)", s)
	}
}

// Manager tracks cash and at most one open long position, executing
// entries and exits at bar close prices and recording closed trades.
type Manager struct {
	cash            float64
	open            *model.Position
	trades          []model.Trade
	commissionRate  float64
	legs            CommissionLegs
	totalCommission float64
	logger          zerolog.Logger
}

// NewManager creates a manager holding initialCash. commissionRate is a
// fraction of each leg's notional (0.001 = 0.1%).
func NewManager(initialCash, commissionRate float64, legs CommissionLegs) *Manager {
	return &Manager{
		cash:           initialCash,
		commissionRate: commissionRate,
		legs:           legs,
		logger:         log.With().Str("component", "position_manager").Logger(),
	}
}

func (m *Manager) entryRate() float64 {
	if m.legs == LegsExit {
		return 0
	}
	return m.commissionRate
}

func (m *Manager) exitRate() float64 {
	if m.legs == LegsEntry {
		return 0
	}
	return m.commissionRate
}

// OnSignal executes a signal against the current bar. A BUY while a
// position is open and a SELL while flat are both no-ops (no pyramiding,
// no shorting). Returns the closed trade on an executed SELL, nil
// otherwise.
func (m *Manager) OnSignal(sig model.Signal, bar model.Bar) *model.Trade {
	switch sig {
	case model.SignalBuy:
		m.openPosition(bar)
		return nil
	case model.SignalSell:
		return m.closePosition(bar, false)
	default:
		return nil
	}
}

// ForceClose liquidates any position still open at the end of the series
// at the final bar's close, so the report reflects mark-to-market value
// rather than abandoned exposure.
func (m *Manager) ForceClose(bar model.Bar) *model.Trade {
	return m.closePosition(bar, true)
}

func (m *Manager) openPosition(bar model.Bar) {
	if m.open != nil || m.cash <= 0 {
		return
	}
	// Fully invested: size is chosen so cash covers notional plus the
	// entry commission exactly.
	price := bar.Close
	size := m.cash / (price * (1 + m.entryRate()))
	fee := size * price * m.entryRate()
	m.totalCommission += fee
	m.cash -= size*price + fee
	m.open = &model.Position{
		EntryPrice: price,
		EntryTime:  bar.Timestamp,
		Size:       size,
	}
	m.logger.Debug().
		Time("ts", bar.Timestamp).
		Float64("price", price).
		Float64("size", size).
		Msg("Opened position")
}

func (m *Manager) closePosition(bar model.Bar, forced bool) *model.Trade {
	if m.open == nil {
		return nil
	}
	price := bar.Close
	notional := m.open.Size * price
	fee := notional * m.exitRate()
	m.totalCommission += fee
	m.cash += notional - fee

	trade := model.Trade{
		EntryTime:  m.open.EntryTime,
		ExitTime:   bar.Timestamp,
		EntryPrice: m.open.EntryPrice,
		ExitPrice:  price,
		Size:       m.open.Size,
		PnL:        (price - m.open.EntryPrice) * m.open.Size,
		Commission: m.open.Size*m.open.EntryPrice*m.entryRate() + fee,
		Forced:     forced,
	}
	m.trades = append(m.trades, trade)
	m.open = nil
	m.logger.Debug().
		Time("ts", bar.Timestamp).
		Float64("price", price).
		Float64("pnl", trade.PnL).
		Bool("forced", forced).
		Msg("Closed position")
	return &trade
}

// Cash returns the uninvested cash balance.
func (m *Manager) Cash() float64 {
	return m.cash
}

// Open returns the currently open position, or nil when flat.
func (m *Manager) Open() *model.Position {
	return m.open
}

// Trades returns the closed trades in execution order.
func (m *Manager) Trades() []model.Trade {
	return m.trades
}

// TotalCommission returns the commission paid across all executions,
// including the entry leg of a still-open position.
func (m *Manager) TotalCommission() float64 {
	return m.totalCommission
}
