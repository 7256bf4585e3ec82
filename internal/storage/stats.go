package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBStats summarizes the stored dataset for operational reporting.
type DBStats struct {
	Snapshots     int        `json:"snapshots"`
	Tickers       int        `json:"tickers"`
	LatestDate    *time.Time `json:"latest_date,omitempty"`
	PricePoints   int        `json:"price_points"`
	Alerts        int        `json:"alerts"`
	ScreeningRuns int        `json:"screening_runs"`
}

// StatsRepository reads aggregate counts across the screener tables.
type StatsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new stats repository.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// Get collects the dataset statistics in one round trip per table.
func (r *StatsRepository) Get(ctx context.Context) (*DBStats, error) {
	stats := &DBStats{}

	query := `
		SELECT COUNT(*), COUNT(DISTINCT ticker)
		FROM screener.snapshots
	`
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.Snapshots, &stats.Tickers); err != nil {
		return nil, err
	}

	// MAX over an empty table yields NULL, hence the pointer scan
	var latest *time.Time
	if err := r.pool.QueryRow(ctx, `SELECT MAX(snapshot_date) FROM screener.snapshots`).Scan(&latest); err != nil {
		return nil, err
	}
	stats.LatestDate = latest

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM screener.daily_prices`).Scan(&stats.PricePoints); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM screener.alerts`).Scan(&stats.Alerts); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM screener.screening_runs`).Scan(&stats.ScreeningRuns); err != nil {
		return nil, err
	}

	return stats, nil
}
