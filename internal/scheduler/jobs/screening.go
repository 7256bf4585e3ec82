// Package jobs contains the scheduled job implementations.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/export"
	"github.com/finsignal/screener/internal/screening"
	"github.com/finsignal/screener/pkg/config"
	"github.com/finsignal/screener/pkg/logger"
)

// ScreeningJob runs the daily opportunity screen, records alerts for
// every emitted opportunity and exports the results to JSON files.
type ScreeningJob struct {
	orch     *screening.Orchestrator
	alerts   contracts.AlertRepository
	exporter *export.Exporter
	config   *config.Config
	logger   *logger.Logger
	now      func() time.Time
}

// NewScreeningJob creates a new screening job
func NewScreeningJob(orch *screening.Orchestrator, alerts contracts.AlertRepository, exporter *export.Exporter, cfg *config.Config, log *logger.Logger) *ScreeningJob {
	return &ScreeningJob{
		orch:     orch,
		alerts:   alerts,
		exporter: exporter,
		config:   cfg,
		logger:   log,
		now:      time.Now,
	}
}

// Name returns the job name
func (j *ScreeningJob) Name() string {
	return "daily_screening"
}

// Schedule returns the cron schedule from configuration
func (j *ScreeningJob) Schedule() string {
	return j.config.Screening.Schedule
}

// Run executes one full screening pass for today's date.
func (j *ScreeningJob) Run(ctx context.Context) error {
	date := j.now().UTC().Truncate(24 * time.Hour)
	j.logger.WithField("date", date.Format("2006-01-02")).Info("Starting scheduled screening")

	result, err := j.orch.Screen(ctx, date)
	if err != nil {
		return fmt.Errorf("screen %s: %w", date.Format("2006-01-02"), err)
	}

	// Record an alert per emitted opportunity so future runs can
	// suppress repeats within each strategy's window.
	for _, opp := range result.Opportunities() {
		if err := j.alerts.Save(ctx, contracts.NewAlertRecord(opp)); err != nil {
			j.logger.WithError(err).WithField("ticker", opp.Ticker).Warn("Failed to record alert")
		}
	}

	paths, err := j.exporter.Write(result)
	if err != nil {
		return fmt.Errorf("export results: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers_scanned": result.TickersScanned,
		"opportunities":   result.Count(),
		"suppressed":      result.Suppressed,
		"files":           len(paths),
	}).Info("Scheduled screening completed")

	return nil
}
