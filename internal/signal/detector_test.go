package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alias1177/Backtest/internal/model"
)

func defined(fast, slow float64) model.MovingAverages {
	return model.MovingAverages{Fast: fast, Slow: slow, FastReady: true, SlowReady: true}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		prev     model.MovingAverages
		curr     model.MovingAverages
		expected model.Signal
	}{
		{
			name:     "prev still warming up",
			prev:     model.MovingAverages{Fast: 10, FastReady: true},
			curr:     defined(11, 10),
			expected: model.SignalNone,
		},
		{
			name:     "curr still warming up",
			prev:     defined(9, 10),
			curr:     model.MovingAverages{Fast: 11, FastReady: true},
			expected: model.SignalNone,
		},
		{
			name:     "golden cross",
			prev:     defined(9, 10),
			curr:     defined(11, 10),
			expected: model.SignalBuy,
		},
		{
			name:     "death cross",
			prev:     defined(11, 10),
			curr:     defined(9, 10),
			expected: model.SignalSell,
		},
		{
			name:     "equality resolves to not-yet-crossed, then fires up",
			prev:     defined(10, 10),
			curr:     defined(10.5, 10),
			expected: model.SignalBuy,
		},
		{
			name:     "equality resolves to not-yet-crossed, then fires down",
			prev:     defined(10, 10),
			curr:     defined(9.5, 10),
			expected: model.SignalSell,
		},
		{
			name:     "successive equal bars never fire",
			prev:     defined(10, 10),
			curr:     defined(10, 10),
			expected: model.SignalNone,
		},
		{
			name:     "staying above does not refire",
			prev:     defined(11, 10),
			curr:     defined(12, 10),
			expected: model.SignalNone,
		},
		{
			name:     "staying below does not refire",
			prev:     defined(9, 10),
			curr:     defined(8, 10),
			expected: model.SignalNone,
		},
		{
			name:     "positive to exactly equal does not fire",
			prev:     defined(11, 10),
			curr:     defined(10, 10),
			expected: model.SignalNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Detect(tt.prev, tt.curr))
		})
	}
}
