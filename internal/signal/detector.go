package signal

import "github.com/Alias1177/Backtest/internal/model"

// Detect compares consecutive moving-average snapshots and reports a
// crossover. A golden cross (fast rising through the slow average) yields
// BUY, a death cross yields SELL.
//
// Exact equality of the two averages counts as "not yet crossed" on the
// prev side, so equal-to-positive still fires. Because the rule only looks
// at the sign transition, a diff that stays strictly on one side can never
// fire twice.
func Detect(prev, curr model.MovingAverages) model.Signal {
	if !prev.Defined() || !curr.Defined() {
		return model.SignalNone
	}

	prevDiff := prev.Fast - prev.Slow
	currDiff := curr.Fast - curr.Slow

	switch {
	case prevDiff <= 0 && currDiff > 0:
		return model.SignalBuy
	case prevDiff >= 0 && currDiff < 0:
		return model.SignalSell
	default:
		return model.SignalNone
	}
}
