package export

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/Alias1177/Backtest/internal/model"
)

const (
	chartWidth  = 1200
	chartHeight = 420
	padLeft     = 50
	padTop      = 24
	padRight    = 30
	padBottom   = 36
)

// WriteChart renders the close price, both moving averages and the trade
// markers to an SVG file. NaN entries (warmup) break the MA polylines.
func WriteChart(path, title string, bars []model.Bar, fast, slow []float64, markers []model.Marker) error {
	if len(bars) == 0 {
		return fmt.Errorf("no bars to chart")
	}
	return os.WriteFile(path, render(title, bars, fast, slow, markers), 0o644)
}

func render(title string, bars []model.Bar, fast, slow []float64, markers []model.Marker) []byte {
	closes := make([]float64, len(bars))
	lo, hi := bars[0].Close, bars[0].Close
	for i, b := range bars {
		closes[i] = b.Close
		if b.Close < lo {
			lo = b.Close
		}
		if b.Close > hi {
			hi = b.Close
		}
	}
	for _, s := range [][]float64{fast, slow} {
		for _, v := range s {
			if math.IsNaN(v) {
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	plotW := float64(chartWidth - padLeft - padRight)
	plotH := float64(chartHeight - padTop - padBottom)
	sx := plotW / float64(max(len(bars)-1, 1))
	sy := plotH / (hi - lo + 1e-9)

	toX := func(i int) float64 { return float64(i) * sx }
	toY := func(v float64) float64 { return plotH - (v-lo)*sy }

	var b bytes.Buffer
	fmt.Fprintf(&b, "<svg xmlns='http://www.w3.org/2000/svg' width='%d' height='%d' viewBox='0 0 %d %d'>",
		chartWidth, chartHeight, chartWidth, chartHeight)
	b.WriteString("<rect width='100%' height='100%' fill='#0b0f17'/>")
	fmt.Fprintf(&b, "<text x='%d' y='16' fill='#c8d2e0' font-family='monospace' font-size='13'>%s</text>", padLeft, title)
	fmt.Fprintf(&b, "<g transform='translate(%d,%d)'>", padLeft, padTop)

	// axes
	fmt.Fprintf(&b, "<line x1='0' y1='0' x2='0' y2='%.0f' stroke='#1f2837'/>", plotH)
	fmt.Fprintf(&b, "<line x1='0' y1='%.0f' x2='%.0f' y2='%.0f' stroke='#1f2837'/>", plotH, plotW, plotH)

	writePolyline(&b, closes, toX, toY, "#59a6ff")
	writePolyline(&b, fast, toX, toY, "#ffd75e")
	writePolyline(&b, slow, toX, toY, "#d177ff")

	// trade markers, positioned by bar index
	byTime := make(map[int64]int, len(bars))
	for i, bar := range bars {
		byTime[bar.Timestamp.Unix()] = i
	}
	for _, m := range markers {
		i, ok := byTime[m.Timestamp.Unix()]
		if !ok {
			continue
		}
		color := "#3ddc84"
		if m.Side == model.SignalSell {
			color = "#ff5e5e"
		}
		fmt.Fprintf(&b, "<circle cx='%.2f' cy='%.2f' r='4' fill='%s'/>", toX(i), toY(m.Price), color)
	}

	b.WriteString("</g></svg>")
	return b.Bytes()
}

func writePolyline(b *bytes.Buffer, values []float64, toX func(int) float64, toY func(float64) float64, color string) {
	open := false
	for i, v := range values {
		if math.IsNaN(v) {
			if open {
				b.WriteString("'/>")
				open = false
			}
			continue
		}
		if !open {
			fmt.Fprintf(b, "<polyline fill='none' stroke='%s' stroke-width='1.2' points='", color)
			open = true
		} else {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%.2f,%.2f", toX(i), toY(v))
	}
	if open {
		b.WriteString("'/>")
	}
}
