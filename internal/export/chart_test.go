package export

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alias1177/Backtest/internal/model"
)

func TestWriteChart(t *testing.T) {
	start := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, 10)
	fast := make([]float64, 10)
	slow := make([]float64, 10)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.Bar{Timestamp: start.AddDate(0, 0, i), Close: c}
		// warmup gaps must not break rendering
		fast[i] = c
		slow[i] = math.NaN()
		if i >= 5 {
			slow[i] = c - 1
		}
	}
	markers := []model.Marker{
		{Timestamp: bars[6].Timestamp, Price: bars[6].Close, Side: model.SignalBuy},
		{Timestamp: bars[9].Timestamp, Price: bars[9].Close, Side: model.SignalSell},
	}

	path := filepath.Join(t.TempDir(), "chart.svg")
	require.NoError(t, WriteChart(path, "TEST SMA(50/200)", bars, fast, slow, markers))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	svg := string(content)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "TEST SMA(50/200)")
	assert.Contains(t, svg, "<circle")
	assert.NotContains(t, svg, "NaN")
}

func TestWriteChartRejectsEmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")
	assert.Error(t, WriteChart(path, "empty", nil, nil, nil, nil))
}
