package storage

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsignal/screener/internal/contracts"
)

// RunRepository implements contracts.ScreeningRunRepository.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new screening-run repository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Save records one per-strategy screening pass.
func (r *RunRepository) Save(ctx context.Context, run *contracts.ScreeningRun) error {
	query := `
		INSERT INTO screener.screening_runs
			(run_date, strategy, tickers_scanned, opportunities_found, suppressed, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		run.Date, string(run.Strategy), run.TickersScanned,
		run.OpportunitiesFound, run.Suppressed, run.Duration.Milliseconds(),
		time.Now(),
	)
	return err
}

// GetRecent returns the newest run rows, most recent first.
func (r *RunRepository) GetRecent(ctx context.Context, limit int) ([]*contracts.ScreeningRun, error) {
	query := `
		SELECT run_date, strategy, tickers_scanned, opportunities_found, suppressed, duration_ms
		FROM screener.screening_runs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*contracts.ScreeningRun
	for rows.Next() {
		run := &contracts.ScreeningRun{}
		var strategy string
		var durationMs int64
		if err := rows.Scan(&run.Date, &strategy, &run.TickersScanned,
			&run.OpportunitiesFound, &run.Suppressed, &durationMs); err != nil {
			return nil, err
		}
		run.Strategy = contracts.Strategy(strategy)
		run.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
