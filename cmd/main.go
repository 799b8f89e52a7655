package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/Backtest/internal/api/twelvedata"
	"github.com/Alias1177/Backtest/internal/config"
	"github.com/Alias1177/Backtest/internal/data"
	"github.com/Alias1177/Backtest/internal/database"
	"github.com/Alias1177/Backtest/internal/engine"
	"github.com/Alias1177/Backtest/internal/export"
	"github.com/Alias1177/Backtest/internal/model"
	"github.com/Alias1177/Backtest/internal/series"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(lvl)

	params, err := cfg.EngineParams()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	eng, err := engine.New(params)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	bars, err := loadBars(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load price data")
	}

	s, err := series.New(bars)
	if err != nil {
		log.Fatal().Err(err).Msg("Price series rejected")
	}

	report, err := eng.Run(s)
	if err != nil {
		log.Fatal().Err(err).Msg("Backtest failed")
	}

	printReport(report)

	if cfg.ChartPath != "" {
		title := fmt.Sprintf("%s SMA(%d/%d)", cfg.Symbol, cfg.FastWindow, cfg.SlowWindow)
		if err := export.WriteChart(cfg.ChartPath, title, report.Bars, report.FastSeries, report.SlowSeries, report.Markers); err != nil {
			log.Error().Err(err).Msg("Failed to write chart")
		} else {
			log.Info().Str("path", cfg.ChartPath).Msg("Chart written")
		}
	}

	if cfg.DatabaseURL != "" {
		db, err := database.New(cfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to results store")
			return
		}
		defer db.Close()
		runID, err := db.SaveReport(report, cfg.FastWindow, cfg.SlowWindow)
		if err != nil {
			log.Error().Err(err).Msg("Failed to persist results")
			return
		}
		log.Info().Int64("run_id", runID).Msg("Results persisted")
	}
}

// loadBars picks the data collaborator: a local CSV file when configured,
// the Twelve Data API otherwise.
func loadBars(cfg *config.Config) ([]model.Bar, error) {
	if cfg.DataCSV != "" {
		log.Info().Str("path", cfg.DataCSV).Msg("Loading bars from CSV")
		return data.LoadBars(cfg.DataCSV)
	}

	log.Info().Str("symbol", cfg.Symbol).Msg("Fetching bars from Twelve Data")
	client := twelvedata.NewClient(twelvedata.ClientOptions{
		APIKey:         cfg.TwelveAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	return client.GetDailyBars(ctx, cfg.Symbol, cfg.OutputSize)
}

func printReport(r *model.Report) {
	fmt.Printf("\n===== BACKTEST RESULTS: %s =====\n", r.Symbol)
	fmt.Printf("Starting value:    %.2f\n", r.StartingValue)
	fmt.Printf("Ending value:      %.2f\n", r.EndingValue)
	fmt.Printf("Total P/L:         %.2f\n", r.EndingValue-r.StartingValue)
	fmt.Printf("Total return:      %.2f%%\n", r.TotalReturn*100)
	fmt.Printf("Annualized return: %.2f%%\n", r.AnnualizedReturn*100)
	fmt.Printf("Sharpe ratio:      %.2f\n", r.SharpeRatio)
	fmt.Printf("Max drawdown:      %.2f%%\n", r.MaxDrawdown*100)

	if r.TotalTrades == 0 {
		fmt.Println("\nNo trades closed during the backtest period.")
		return
	}

	fmt.Printf("\n--- Trade Statistics ---\n")
	fmt.Printf("Total trades: %d\n", r.TotalTrades)
	fmt.Printf("Wins:         %d\n", r.WinningTrades)
	fmt.Printf("Losses:       %d\n", r.LosingTrades)
	fmt.Printf("Win rate:     %.2f%%\n", r.WinRate*100)
	if r.WinningTrades > 0 {
		fmt.Printf("Average win:  %.2f\n", r.AverageWin)
	}
	if r.LosingTrades > 0 {
		fmt.Printf("Average loss: %.2f\n", r.AverageLoss)
	}
	if r.TotalCommission > 0 {
		fmt.Printf("Commission:   %.2f\n", r.TotalCommission)
	}

	for _, t := range r.Trades {
		label := ""
		if t.Forced {
			label = " (closed at end of data)"
		}
		fmt.Printf("  %s -> %s  entry %.2f exit %.2f  pnl %.2f%s\n",
			t.EntryTime.Format("2006-01-02"), t.ExitTime.Format("2006-01-02"),
			t.EntryPrice, t.ExitPrice, t.PnL, label)
	}
}
