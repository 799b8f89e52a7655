package indicator

import (
	"github.com/Alias1177/Backtest/internal/model"
)

// RollingMean maintains the arithmetic mean of the last N values using a
// fixed-capacity ring buffer and a running sum, so each update is O(1)
// instead of rescanning the window.
type RollingMean struct {
	window int
	buf    []float64
	next   int
	count  int
	sum    float64
}

// NewRollingMean creates a rolling mean over a window of n values.
// n must be positive; config validation guarantees that upstream.
func NewRollingMean(n int) *RollingMean {
	return &RollingMean{
		window: n,
		buf:    make([]float64, n),
	}
}

// Update pushes one value into the window, evicting the oldest once the
// window is full.
func (r *RollingMean) Update(v float64) {
	if r.count == r.window {
		r.sum -= r.buf[r.next]
	} else {
		r.count++
	}
	r.buf[r.next] = v
	r.sum += v
	r.next = (r.next + 1) % r.window
}

// Ready reports whether a full window has been observed. Before that the
// mean is undefined and no signal may be derived from it.
func (r *RollingMean) Ready() bool {
	return r.count == r.window
}

// Value returns the mean of the values currently in the window.
func (r *RollingMean) Value() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sum / float64(r.count)
}

// Tracker maintains the fast and slow simple moving averages of close
// prices as bars arrive.
type Tracker struct {
	fast *RollingMean
	slow *RollingMean
}

// NewTracker creates a dual SMA tracker with the given window sizes.
func NewTracker(fastWindow, slowWindow int) *Tracker {
	return &Tracker{
		fast: NewRollingMean(fastWindow),
		slow: NewRollingMean(slowWindow),
	}
}

// Update folds one bar into both windows and returns the resulting
// snapshot.
func (t *Tracker) Update(bar model.Bar) model.MovingAverages {
	t.fast.Update(bar.Close)
	t.slow.Update(bar.Close)
	return model.MovingAverages{
		Fast:      t.fast.Value(),
		Slow:      t.slow.Value(),
		FastReady: t.fast.Ready(),
		SlowReady: t.slow.Ready(),
	}
}
