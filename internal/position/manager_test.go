package position

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/Backtest/internal/model"
)

func bar(day int, close float64) model.Bar {
	start := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	return model.Bar{Timestamp: start.AddDate(0, 0, day), Close: close}
}

func TestParseCommissionLegs(t *testing.T) {
	for in, want := range map[string]CommissionLegs{
		"":      LegsBoth,
		"both":  LegsBoth,
		"Entry": LegsEntry,
		"exit ": LegsExit,
	} {
		got, err := ParseCommissionLegs(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}

	_, err := ParseCommissionLegs("everything")
	assert.Error(t, err)
}

func TestBuyInvestsAllCash(t *testing.T) {
	m := NewManager(1000, 0, LegsBoth)
	m.OnSignal(model.SignalBuy, bar(0, 10))

	require.NotNil(t, m.Open())
	assert.InDelta(t, 100.0, m.Open().Size, 1e-12)
	assert.InDelta(t, 0.0, m.Cash(), 1e-9)
}

func TestBuyWhileOpenIsNoOp(t *testing.T) {
	m := NewManager(1000, 0, LegsBoth)
	m.OnSignal(model.SignalBuy, bar(0, 10))
	open := *m.Open()

	m.OnSignal(model.SignalBuy, bar(1, 20))
	assert.Equal(t, open, *m.Open(), "no pyramiding")
	assert.Empty(t, m.Trades())
}

func TestSellWhileFlatIsNoOp(t *testing.T) {
	m := NewManager(1000, 0, LegsBoth)
	closed := m.OnSignal(model.SignalSell, bar(0, 10))
	assert.Nil(t, closed, "no short selling")
	assert.Empty(t, m.Trades())
	assert.Equal(t, 1000.0, m.Cash())
}

func TestRoundTripPnL(t *testing.T) {
	m := NewManager(1000, 0, LegsBoth)
	m.OnSignal(model.SignalBuy, bar(0, 10))
	closed := m.OnSignal(model.SignalSell, bar(5, 12))

	require.NotNil(t, closed)
	assert.Nil(t, m.Open())
	assert.InDelta(t, 200.0, closed.PnL, 1e-9) // (12-10)*100
	assert.InDelta(t, 1200.0, m.Cash(), 1e-9)
	assert.False(t, closed.Forced)
	require.Len(t, m.Trades(), 1)
}

func TestCommissionBothLegs(t *testing.T) {
	const rate = 0.01
	m := NewManager(1000, rate, LegsBoth)
	m.OnSignal(model.SignalBuy, bar(0, 10))

	// Size chosen so notional plus entry fee consumes the cash exactly.
	size := m.Open().Size
	assert.InDelta(t, 1000/(10*1.01), size, 1e-9)
	assert.InDelta(t, 0.0, m.Cash(), 1e-9)

	closed := m.OnSignal(model.SignalSell, bar(1, 10))
	require.NotNil(t, closed)
	assert.InDelta(t, 0.0, closed.PnL, 1e-9)

	entryFee := size * 10 * rate
	exitFee := size * 10 * rate
	assert.InDelta(t, entryFee+exitFee, closed.Commission, 1e-9)
	assert.InDelta(t, entryFee+exitFee, m.TotalCommission(), 1e-9)
	assert.InDelta(t, size*10*(1-rate), m.Cash(), 1e-9)
}

func TestCommissionSingleLeg(t *testing.T) {
	const rate = 0.01

	entry := NewManager(1000, rate, LegsEntry)
	entry.OnSignal(model.SignalBuy, bar(0, 10))
	closed := entry.OnSignal(model.SignalSell, bar(1, 10))
	require.NotNil(t, closed)
	assert.InDelta(t, closed.Size*10*rate, entry.TotalCommission(), 1e-9, "fee on entry only")

	exit := NewManager(1000, rate, LegsExit)
	exit.OnSignal(model.SignalBuy, bar(0, 10))
	assert.InDelta(t, 100.0, exit.Open().Size, 1e-9, "entry leg free: plain cash/price sizing")
	closed = exit.OnSignal(model.SignalSell, bar(1, 10))
	require.NotNil(t, closed)
	assert.InDelta(t, 10.0, exit.TotalCommission(), 1e-9) // 100*10*0.01 on exit
}

func TestForceClose(t *testing.T) {
	m := NewManager(1000, 0, LegsBoth)
	m.OnSignal(model.SignalBuy, bar(0, 10))

	closed := m.ForceClose(bar(9, 11))
	require.NotNil(t, closed)
	assert.True(t, closed.Forced)
	assert.InDelta(t, 100.0, closed.PnL, 1e-9)
	assert.Nil(t, m.Open())

	assert.Nil(t, m.ForceClose(bar(9, 11)), "force close while flat is a no-op")
}
