package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Alias1177/Backtest/internal/model"
)

var csvTimeLayouts = []string{"2006-01-02", time.RFC3339}

// LoadBars reads daily bars from a CSV file with a
// timestamp,open,high,low,close,volume header. The file handle is held
// only for the duration of the load.
func LoadBars(path string) ([]model.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	// Skip a header row if the first field isn't a date.
	start := 0
	if _, err := parseCSVTime(rows[0][0]); err != nil {
		start = 1
	}

	bars := make([]model.Bar, 0, len(rows)-start)
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 5 {
			return nil, fmt.Errorf("%s line %d: want at least 5 columns, got %d", path, i+1, len(row))
		}
		bar, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, i+1, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseRow(row []string) (model.Bar, error) {
	ts, err := parseCSVTime(row[0])
	if err != nil {
		return model.Bar{}, err
	}
	fields := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("column %d: %w", i+2, err)
		}
		fields[i] = v
	}
	var volume int64
	if len(row) > 5 && row[5] != "" {
		volume, err = strconv.ParseInt(row[5], 10, 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("volume: %w", err)
		}
	}
	return model.Bar{
		Timestamp: ts,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    volume,
	}, nil
}

func parseCSVTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range csvTimeLayouts {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
