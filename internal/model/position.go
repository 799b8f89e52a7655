package model

import "time"

// Position is a single open long position. At most one exists at a time.
type Position struct {
	EntryPrice float64   `json:"entry_price"`
	EntryTime  time.Time `json:"entry_time"`
	Size       float64   `json:"size"`
}

// Trade is a closed round trip. Immutable once recorded.
type Trade struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice float64   `json:"entry_price"`
	ExitPrice  float64   `json:"exit_price"`
	Size       float64   `json:"size"`
	PnL        float64   `json:"pnl"`
	Commission float64   `json:"commission"`
	// Forced marks a position closed at the end of the series rather than
	// by a death cross.
	Forced bool `json:"forced,omitempty"`
}
