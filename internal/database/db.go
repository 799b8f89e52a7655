package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/Alias1177/Backtest/internal/model"
)

// DB represents a database connection
type DB struct {
	*sql.DB
}

// New opens a Postgres connection from a DATABASE_URL-style string and
// ensures the result tables exist.
func New(connStr string) (*DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS backtest_runs (
			id SERIAL PRIMARY KEY,
			symbol TEXT NOT NULL,
			fast_window INT NOT NULL,
			slow_window INT NOT NULL,
			starting_value DOUBLE PRECISION NOT NULL,
			ending_value DOUBLE PRECISION NOT NULL,
			total_return DOUBLE PRECISION NOT NULL,
			annualized_return DOUBLE PRECISION NOT NULL,
			sharpe_ratio DOUBLE PRECISION NOT NULL,
			max_drawdown DOUBLE PRECISION NOT NULL,
			total_trades INT NOT NULL,
			win_rate DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS backtest_trades (
			id SERIAL PRIMARY KEY,
			run_id INT NOT NULL REFERENCES backtest_runs(id) ON DELETE CASCADE,
			entry_time TIMESTAMP NOT NULL,
			exit_time TIMESTAMP NOT NULL,
			entry_price DOUBLE PRECISION NOT NULL,
			exit_price DOUBLE PRECISION NOT NULL,
			size DOUBLE PRECISION NOT NULL,
			pnl DOUBLE PRECISION NOT NULL,
			commission DOUBLE PRECISION NOT NULL,
			forced BOOLEAN NOT NULL DEFAULT FALSE
		)
	`)
	return err
}

// SaveReport persists a finished run with its trade list and returns the
// run id. The run row and its trades are written in one transaction.
func (db *DB) SaveReport(report *model.Report, fastWindow, slowWindow int) (int64, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRow(`
		INSERT INTO backtest_runs (
			symbol, fast_window, slow_window, starting_value, ending_value,
			total_return, annualized_return, sharpe_ratio, max_drawdown,
			total_trades, win_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`,
		report.Symbol, fastWindow, slowWindow, report.StartingValue, report.EndingValue,
		report.TotalReturn, report.AnnualizedReturn, report.SharpeRatio, report.MaxDrawdown,
		report.TotalTrades, report.WinRate,
	).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	for _, t := range report.Trades {
		_, err = tx.Exec(`
			INSERT INTO backtest_trades (
				run_id, entry_time, exit_time, entry_price, exit_price,
				size, pnl, commission, forced
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			runID, t.EntryTime, t.ExitTime, t.EntryPrice, t.ExitPrice,
			t.Size, t.PnL, t.Commission, t.Forced)
		if err != nil {
			return 0, fmt.Errorf("inserting trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}
