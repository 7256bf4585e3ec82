package contracts

import (
	"context"
	"time"
)

// SSOT: repository interfaces are defined only here.

// SnapshotRepository manages daily fundamental/price snapshots.
type SnapshotRepository interface {
	GetByTickerAndDate(ctx context.Context, ticker string, date time.Time) (*Snapshot, error)
	GetAllByDate(ctx context.Context, date time.Time) ([]*Snapshot, error)
	// NearestDateWithBreadth resolves the latest date at or before
	// target carrying at least minTickers snapshots. Returns
	// ErrNoQualifyingDate when no such date exists.
	NearestDateWithBreadth(ctx context.Context, target time.Time, minTickers int) (time.Time, error)
	Save(ctx context.Context, snapshot *Snapshot) error
	SaveBatch(ctx context.Context, snapshots []*Snapshot) error
}

// PriceRepository manages historical close prices.
type PriceRepository interface {
	// GetHistory returns up to lookbackDays observations strictly
	// before the given date, oldest to newest. The series may be
	// shorter than requested.
	GetHistory(ctx context.Context, ticker string, before time.Time, lookbackDays int) (PriceSeries, error)
	// GetLatestOnOrBefore returns the newest observation at or before
	// date, or ErrDataGap when none exists.
	GetLatestOnOrBefore(ctx context.Context, ticker string, date time.Time) (*PricePoint, error)
	SaveBatch(ctx context.Context, ticker string, points []PricePoint) error
}

// AlertRepository manages alert history for duplicate suppression.
type AlertRepository interface {
	// GetRecentStrategies returns the set of strategies alerted for
	// ticker within withinDays before asOf.
	GetRecentStrategies(ctx context.Context, ticker string, asOf time.Time, withinDays int) (map[Strategy]bool, error)
	Save(ctx context.Context, alert *AlertRecord) error
}

// ScreeningRunRepository records per-strategy screening statistics.
type ScreeningRunRepository interface {
	Save(ctx context.Context, run *ScreeningRun) error
	GetRecent(ctx context.Context, limit int) ([]*ScreeningRun, error)
}
