// Package backtest replays the screening engine at a historical date
// and scores the forward price performance of what it found.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/screening"
	"github.com/finsignal/screener/internal/strategyconfig"
	"github.com/finsignal/screener/pkg/logger"
)

// Params selects the replay window. Zero values fall back to the
// configured backtest defaults.
type Params struct {
	MonthsBack        int
	HoldingPeriodDays int
}

// Simulator resolves a historical entry date, screens as of that date
// and attributes forward returns per opportunity.
type Simulator struct {
	snapshots contracts.SnapshotRepository
	prices    contracts.PriceRepository
	orch      *screening.Orchestrator
	cfg       *strategyconfig.Config
	logger    *logger.Logger
	now       func() time.Time
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithClock overrides the wall clock, for deterministic replays.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// New creates a Simulator. Backtests are one-shot replays, so the
// internal orchestrator screens without alert deduplication.
func New(deps screening.Deps, cfg *strategyconfig.Config, log *logger.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		snapshots: deps.Snapshots,
		prices:    deps.Prices,
		orch:      screening.New(deps, cfg, log, screening.WithoutDedup()),
		cfg:       cfg,
		logger:    log.WithField("module", "backtest"),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run replays the screen monthsBack months ago and holds each
// opportunity for holdingPeriodDays. A missing entry date is fatal
// (ErrNoQualifyingDate); an entry date where the screen finds nothing
// is a valid empty result. Tickers without a qualifying exit price are
// dropped, never reported as zero return.
func (s *Simulator) Run(ctx context.Context, params Params) (*contracts.BacktestResult, error) {
	monthsBack := params.MonthsBack
	if monthsBack == 0 {
		monthsBack = s.cfg.Backtest.MonthsBack
	}
	holdingDays := params.HoldingPeriodDays
	if holdingDays == 0 {
		holdingDays = s.cfg.Backtest.HoldingPeriodDays
	}
	if monthsBack < 0 {
		return nil, contracts.NewConfigurationError("backtest.months_back", "must not be negative")
	}
	if holdingDays < 0 {
		return nil, contracts.NewConfigurationError("backtest.holding_period_days", "must not be negative")
	}

	target := s.now().AddDate(0, 0, -monthsBack*30)
	entryDate, err := s.snapshots.NearestDateWithBreadth(ctx, target, s.cfg.Backtest.MinBreadth)
	if err != nil {
		if errors.Is(err, contracts.ErrNoQualifyingDate) {
			return nil, fmt.Errorf("%w: no date at or before %s covers %d tickers",
				contracts.ErrNoQualifyingDate, target.Format("2006-01-02"), s.cfg.Backtest.MinBreadth)
		}
		return nil, fmt.Errorf("resolve entry date: %w", err)
	}

	exitTarget := entryDate.AddDate(0, 0, holdingDays)

	s.logger.WithFields(map[string]interface{}{
		"entry_date":   entryDate.Format("2006-01-02"),
		"exit_target":  exitTarget.Format("2006-01-02"),
		"months_back":  monthsBack,
		"holding_days": holdingDays,
	}).Info("Starting backtest replay")

	screened, err := s.orch.Screen(ctx, entryDate)
	if err != nil {
		return nil, fmt.Errorf("screen at entry date: %w", err)
	}

	result := &contracts.BacktestResult{
		EntryDate:  entryDate,
		ExitTarget: exitTarget,
		Summaries:  make(map[contracts.Strategy]contracts.StrategySummary),
	}

	for _, opp := range screened.Opportunities() {
		trade, ok := s.closeTrade(ctx, opp, exitTarget)
		if !ok {
			continue
		}
		result.Trades = append(result.Trades, trade)
	}

	for _, strat := range contracts.AllStrategies {
		if summary, ok := summarize(strat, result.Trades); ok {
			result.Summaries[strat] = summary
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"opportunities": screened.Count(),
		"trades":        len(result.Trades),
	}).Info("Backtest replay completed")

	return result, nil
}

// closeTrade resolves the exit price for one opportunity. The exit
// snaps to the latest observation at or before the target; an exit at
// or before the entry date means the window has no data and the trade
// is dropped.
func (s *Simulator) closeTrade(ctx context.Context, opp contracts.Opportunity, exitTarget time.Time) (contracts.BacktestTrade, bool) {
	exitPoint, err := s.prices.GetLatestOnOrBefore(ctx, opp.Ticker, exitTarget)
	if err != nil {
		s.logger.WithField("ticker", opp.Ticker).Debug("No exit price in window, dropping trade")
		return contracts.BacktestTrade{}, false
	}
	if !exitPoint.Date.After(opp.Date) || exitPoint.Price <= 0 || opp.Price <= 0 {
		return contracts.BacktestTrade{}, false
	}

	return contracts.BacktestTrade{
		Opportunity: opp,
		EntryPrice:  opp.Price,
		ExitDate:    exitPoint.Date,
		ExitPrice:   exitPoint.Price,
		ReturnPct:   (exitPoint.Price - opp.Price) / opp.Price * 100,
	}, true
}
