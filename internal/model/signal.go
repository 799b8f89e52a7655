package model

// Signal is the decision derived from one bar of moving-average data
type Signal int

const (
	SignalNone Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	return [...]string{"NONE", "BUY", "SELL"}[s]
}

// MovingAverages is a snapshot of both rolling means after one bar.
// Fast and Slow carry no meaning until the matching Ready flag is set:
// a window that has seen fewer bars than its size has no average yet.
type MovingAverages struct {
	Fast      float64
	Slow      float64
	FastReady bool
	SlowReady bool
}

// Defined reports whether both averages have left their warmup period.
func (m MovingAverages) Defined() bool {
	return m.FastReady && m.SlowReady
}
