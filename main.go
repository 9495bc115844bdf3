package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"eduviz/adapters/postgres"
	"eduviz/adapters/tabular"
	"eduviz/domain/gradebook"
	"eduviz/internal"
	"eduviz/internal/analysis"
	"eduviz/internal/cleaning"
	"eduviz/internal/config"
	"eduviz/internal/samplekit"
	"eduviz/ui"
)

// main runs the dashboard server. The grade source is picked from the
// config: a Postgres database when EDUVIZ_DATABASE_URL is set, a tabular
// file when EDUVIZ_DATA_PATH is set, generated sample data otherwise.
func main() {
	_ = godotenv.Load()
	logger := internal.DefaultLogger

	cfg := config.Load()
	if path := os.Getenv("EDUVIZ_CONFIG"); path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			logger.Error("loading config: %v", err)
			os.Exit(1)
		}
		cfg = fileCfg
	}

	raw, err := loadSource(cfg, logger)
	if err != nil {
		logger.Error("loading grade data: %v", err)
		os.Exit(1)
	}

	quality := cleaning.Validate(raw)
	table, stats := cleaning.NewCleaner(logger).Clean(raw)
	logger.Info("cleaning: %s", stats.String())

	opts := analysis.DefaultOptions()
	opts.RiskThreshold = cfg.RiskThreshold
	opts.MinRecords = cfg.MinRecords

	app, err := ui.NewApp(ui.Config{
		Table:   table,
		Quality: &quality,
		Options: opts,
		Port:    cfg.ServerPort,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("starting dashboard: %v", err)
		os.Exit(1)
	}

	fmt.Printf("EduViz dashboard listening on :%d\n", cfg.ServerPort)
	if err := app.Start(); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}

func loadSource(cfg *config.Config, logger *internal.Logger) (*gradebook.Table, error) {
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		repo, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		defer repo.Close()
		return repo.Load(ctx)
	}
	if cfg.DataPath != "" {
		return tabular.NewLoader(logger).Load(cfg.DataPath)
	}
	logger.Info("no data source configured, generating sample data")
	return samplekit.Generate(samplekit.DefaultConfig()), nil
}
