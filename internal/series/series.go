package series

import (
	"errors"
	"fmt"

	"github.com/Alias1177/Backtest/internal/model"
)

// ErrInsufficientData is returned when a series holds no bars at all.
// A short-but-nonempty series is valid; the engine just reports zero trades.
var ErrInsufficientData = errors.New("price series contains no bars")

// Series is an ordered, read-only sequence of daily bars. The bars are
// copied on construction so later mutation of the caller's slice cannot
// reach into a running backtest.
type Series struct {
	bars []model.Bar
}

// New validates and wraps a bar slice. Bars must be strictly increasing
// in timestamp: duplicates and out-of-order bars are rejected.
func New(bars []model.Bar) (*Series, error) {
	if len(bars) == 0 {
		return nil, ErrInsufficientData
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			return nil, fmt.Errorf("bar %d (%s) is not after bar %d (%s)",
				i, bars[i].Timestamp.Format("2006-01-02"),
				i-1, bars[i-1].Timestamp.Format("2006-01-02"))
		}
	}
	owned := make([]model.Bar, len(bars))
	copy(owned, bars)
	return &Series{bars: owned}, nil
}

// Len returns the number of bars.
func (s *Series) Len() int {
	return len(s.bars)
}

// Bar returns the bar at index i.
func (s *Series) Bar(i int) model.Bar {
	return s.bars[i]
}

// Last returns the final bar of the series.
func (s *Series) Last() model.Bar {
	return s.bars[len(s.bars)-1]
}

// Bars returns a copy of the underlying bars for consumers that need the
// whole sequence (charting, reports).
func (s *Series) Bars() []model.Bar {
	out := make([]model.Bar, len(s.bars))
	copy(out, s.bars)
	return out
}
