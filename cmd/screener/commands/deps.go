package commands

import (
	"fmt"

	"github.com/finsignal/screener/internal/backtest"
	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/export"
	"github.com/finsignal/screener/internal/screening"
	"github.com/finsignal/screener/internal/storage"
	"github.com/finsignal/screener/internal/strategyconfig"
	"github.com/finsignal/screener/pkg/config"
	"github.com/finsignal/screener/pkg/database"
	"github.com/finsignal/screener/pkg/logger"
	redisclient "github.com/finsignal/screener/pkg/redis"
)

// appDeps wires configuration, storage and domain services for the CLI
// commands. Every command goes through initDeps so the wiring is
// identical everywhere.
type appDeps struct {
	Config     *config.Config
	Thresholds *strategyconfig.Config
	ConfigHash string
	Logger     *logger.Logger
	DB         *database.DB
	Redis      *redisclient.Client
	Cache      *redisclient.Cache

	Snapshots contracts.SnapshotRepository
	Prices    contracts.PriceRepository
	Alerts    contracts.AlertRepository
	Runs      contracts.ScreeningRunRepository

	Orchestrator *screening.Orchestrator
	Simulator    *backtest.Simulator
	Exporter     *export.Exporter
}

// initDeps loads config and connects every service the commands need.
func initDeps() (*appDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	thresholdsPath := cfg.Screening.ThresholdsPath
	if thresholdsFile != "" {
		thresholdsPath = thresholdsFile
	}
	thresholds, err := strategyconfig.Load(thresholdsPath)
	if err != nil {
		return nil, fmt.Errorf("load thresholds: %w", err)
	}
	hash, err := strategyconfig.Hash(thresholds)
	if err != nil {
		return nil, fmt.Errorf("hash thresholds: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redisclient.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redisclient.NewCache(rdb, "screener")

	snapshots := storage.NewSnapshotRepository(db.Pool)
	prices := storage.NewPriceRepository(db.Pool, cache)
	alerts := storage.NewAlertRepository(db.Pool)
	runs := storage.NewRunRepository(db.Pool)

	screeningDeps := screening.Deps{
		Snapshots: snapshots,
		Prices:    prices,
		Alerts:    alerts,
		Runs:      runs,
	}

	orch := screening.New(screeningDeps, thresholds, log, screening.WithWorkers(cfg.Screening.Workers))
	sim := backtest.New(screeningDeps, thresholds, log)
	exporter := export.New(cfg.Screening.OutputDir, hash, log)

	return &appDeps{
		Config:       cfg,
		Thresholds:   thresholds,
		ConfigHash:   hash,
		Logger:       log,
		DB:           db,
		Redis:        rdb,
		Cache:        cache,
		Snapshots:    snapshots,
		Prices:       prices,
		Alerts:       alerts,
		Runs:         runs,
		Orchestrator: orch,
		Simulator:    sim,
		Exporter:     exporter,
	}, nil
}

// Close releases all connections
func (d *appDeps) Close() {
	if d.Redis != nil {
		d.Redis.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
