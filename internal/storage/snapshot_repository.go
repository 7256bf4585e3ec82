// Package storage implements the contracts repository interfaces on
// PostgreSQL, with an optional Redis read-through cache for the hot
// price-history path.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsignal/screener/internal/contracts"
)

// SnapshotRepository implements contracts.SnapshotRepository.
// SSOT: snapshot persistence lives only here.
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository.
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

const snapshotColumns = `
	ticker, snapshot_date, price, market_cap, dividend_yield, payout_ratio,
	beta, pe, pb, volatility, volume, day_high, day_low, year_high, year_low
`

// GetByTickerAndDate retrieves one snapshot. A missing row maps to
// ErrDataGap; the ticker is simply skipped for that run.
func (r *SnapshotRepository) GetByTickerAndDate(ctx context.Context, ticker string, date time.Time) (*contracts.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM screener.snapshots
		WHERE ticker = $1 AND snapshot_date = $2
	`

	snap, err := scanSnapshot(r.pool.QueryRow(ctx, query, ticker, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, contracts.ErrDataGap
		}
		return nil, err
	}
	return snap, nil
}

// GetAllByDate retrieves the full universe for one date.
func (r *SnapshotRepository) GetAllByDate(ctx context.Context, date time.Time) ([]*contracts.Snapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM screener.snapshots
		WHERE snapshot_date = $1
		ORDER BY ticker ASC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*contracts.Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// NearestDateWithBreadth resolves the latest snapshot date at or
// before target carrying at least minTickers rows.
func (r *SnapshotRepository) NearestDateWithBreadth(ctx context.Context, target time.Time, minTickers int) (time.Time, error) {
	query := `
		SELECT snapshot_date
		FROM screener.snapshots
		WHERE snapshot_date <= $1
		GROUP BY snapshot_date
		HAVING COUNT(*) >= $2
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	var date time.Time
	err := r.pool.QueryRow(ctx, query, target, minTickers).Scan(&date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, contracts.ErrNoQualifyingDate
		}
		return time.Time{}, err
	}
	return date, nil
}

// Save upserts one snapshot. The dividend yield is normalized here,
// at the storage boundary, so every snapshot the engine reads already
// carries a decimal fraction.
func (r *SnapshotRepository) Save(ctx context.Context, snap *contracts.Snapshot) error {
	query := `
		INSERT INTO screener.snapshots (` + snapshotColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (ticker, snapshot_date) DO UPDATE SET
			price = EXCLUDED.price,
			market_cap = EXCLUDED.market_cap,
			dividend_yield = EXCLUDED.dividend_yield,
			payout_ratio = EXCLUDED.payout_ratio,
			beta = EXCLUDED.beta,
			pe = EXCLUDED.pe,
			pb = EXCLUDED.pb,
			volatility = EXCLUDED.volatility,
			volume = EXCLUDED.volume,
			day_high = EXCLUDED.day_high,
			day_low = EXCLUDED.day_low,
			year_high = EXCLUDED.year_high,
			year_low = EXCLUDED.year_low
	`

	_, err := r.pool.Exec(ctx, query,
		snap.Ticker, snap.Date, snap.Price, snap.MarketCap,
		contracts.NormalizeYield(snap.DividendYield), snap.PayoutRatio,
		snap.Beta, snap.PE, snap.PB, snap.Volatility, snap.Volume,
		snap.DayHigh, snap.DayLow, snap.YearHigh, snap.YearLow,
	)
	return err
}

// SaveBatch upserts multiple snapshots.
func (r *SnapshotRepository) SaveBatch(ctx context.Context, snapshots []*contracts.Snapshot) error {
	for _, snap := range snapshots {
		if err := r.Save(ctx, snap); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*contracts.Snapshot, error) {
	var s contracts.Snapshot
	err := row.Scan(
		&s.Ticker, &s.Date, &s.Price, &s.MarketCap, &s.DividendYield, &s.PayoutRatio,
		&s.Beta, &s.PE, &s.PB, &s.Volatility, &s.Volume,
		&s.DayHigh, &s.DayLow, &s.YearHigh, &s.YearLow,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
