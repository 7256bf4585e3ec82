package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsignal/screener/internal/contracts"
)

// AlertRepository implements contracts.AlertRepository.
// SSOT: alert history persistence lives only here.
type AlertRepository struct {
	pool *pgxpool.Pool
}

// NewAlertRepository creates a new alert repository.
func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

// GetRecentStrategies returns the strategies alerted for ticker within
// withinDays before asOf. An empty set is a normal answer.
func (r *AlertRepository) GetRecentStrategies(ctx context.Context, ticker string, asOf time.Time, withinDays int) (map[contracts.Strategy]bool, error) {
	query := `
		SELECT DISTINCT strategy
		FROM screener.alerts
		WHERE ticker = $1 AND alert_date > $2 AND alert_date <= $3
	`

	cutoff := asOf.AddDate(0, 0, -withinDays)
	rows, err := r.pool.Query(ctx, query, ticker, cutoff, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	strategies := make(map[contracts.Strategy]bool)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		strategies[contracts.Strategy(s)] = true
	}
	return strategies, rows.Err()
}

// Save records one alert emission. Metrics are stored as JSONB for
// the alerting collaborator.
func (r *AlertRepository) Save(ctx context.Context, alert *contracts.AlertRecord) error {
	query := `
		INSERT INTO screener.alerts (ticker, strategy, alert_date, price, reason, metrics)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (ticker, strategy, alert_date) DO NOTHING
	`

	var metrics []byte
	if alert.Metrics != nil {
		data, err := json.Marshal(alert.Metrics)
		if err != nil {
			return fmt.Errorf("marshal alert metrics: %w", err)
		}
		metrics = data
	}

	_, err := r.pool.Exec(ctx, query,
		alert.Ticker, string(alert.Strategy), alert.Date,
		alert.Price, alert.Reason, metrics)
	return err
}
