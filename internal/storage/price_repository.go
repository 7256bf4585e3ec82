package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/pkg/redis"
)

// PriceRepository implements contracts.PriceRepository.
// SSOT: price persistence lives only here.
type PriceRepository struct {
	pool  *pgxpool.Pool
	cache *redis.Cache
}

// NewPriceRepository creates a new price repository. The cache may be
// nil or disabled; every read then goes straight to Postgres.
func NewPriceRepository(pool *pgxpool.Pool, cache *redis.Cache) *PriceRepository {
	return &PriceRepository{pool: pool, cache: cache}
}

// GetHistory returns up to lookbackDays closes strictly before the
// given date, oldest to newest. The history path is the hottest query
// of a screening run, so resolved series are cached for an hour.
func (r *PriceRepository) GetHistory(ctx context.Context, ticker string, before time.Time, lookbackDays int) (contracts.PriceSeries, error) {
	fetch := func() (contracts.PriceSeries, error) {
		query := `
			SELECT price_date, close_price
			FROM screener.daily_prices
			WHERE ticker = $1 AND price_date < $2
			ORDER BY price_date DESC
			LIMIT $3
		`

		rows, err := r.pool.Query(ctx, query, ticker, before, lookbackDays)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var series contracts.PriceSeries
		for rows.Next() {
			var p contracts.PricePoint
			if err := rows.Scan(&p.Date, &p.Price); err != nil {
				return nil, err
			}
			series = append(series, p)
		}
		if err := rows.Err(); err != nil {
			return nil, err
		}

		// Query returned newest first; flip to oldest first
		for i, j := 0, len(series)-1; i < j; i, j = i+1, j-1 {
			series[i], series[j] = series[j], series[i]
		}
		return series, nil
	}

	if r.cache == nil {
		return fetch()
	}

	key := redis.PriceHistoryKey(ticker, lookbackDays) + ":" + before.Format("2006-01-02")
	var series contracts.PriceSeries
	err := r.cache.GetOrSet(ctx, key, &series, redis.TTLLong, func() (interface{}, error) {
		return fetch()
	})
	if err != nil {
		return nil, err
	}
	return series, nil
}

// GetLatestOnOrBefore returns the newest close at or before date.
func (r *PriceRepository) GetLatestOnOrBefore(ctx context.Context, ticker string, date time.Time) (*contracts.PricePoint, error) {
	query := `
		SELECT price_date, close_price
		FROM screener.daily_prices
		WHERE ticker = $1 AND price_date <= $2
		ORDER BY price_date DESC
		LIMIT 1
	`

	var p contracts.PricePoint
	err := r.pool.QueryRow(ctx, query, ticker, date).Scan(&p.Date, &p.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrDataGap
		}
		return nil, err
	}
	return &p, nil
}

// SaveBatch upserts daily closes for one ticker.
func (r *PriceRepository) SaveBatch(ctx context.Context, ticker string, points []contracts.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	query := `
		INSERT INTO screener.daily_prices (ticker, price_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (ticker, price_date) DO UPDATE SET
			close_price = EXCLUDED.close_price
	`

	for _, p := range points {
		if _, err := r.pool.Exec(ctx, query, ticker, p.Date, p.Price); err != nil {
			return err
		}
	}
	return nil
}
