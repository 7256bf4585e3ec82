// Package screening applies every strategy rule across the ticker
// universe for one evaluation date, then sorts and deduplicates the
// emitted opportunities.
package screening

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/strategy"
	"github.com/finsignal/screener/internal/strategyconfig"
	"github.com/finsignal/screener/pkg/logger"
)

// Deps carries the read/write interfaces the orchestrator needs.
// Runs may be nil; run statistics are then simply not recorded.
type Deps struct {
	Snapshots contracts.SnapshotRepository
	Prices    contracts.PriceRepository
	Alerts    contracts.AlertRepository
	Runs      contracts.ScreeningRunRepository
}

// Orchestrator screens the full universe for one evaluation date.
// SSOT: opportunity aggregation, sorting, and dedup live only here.
type Orchestrator struct {
	deps    Deps
	cfg     *strategyconfig.Config
	logger  *logger.Logger
	workers int
	dedupe  bool
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers sets the per-ticker evaluation concurrency.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithoutDedup disables alert-history deduplication. Backtests are
// one-shot replays and screen without it.
func WithoutDedup() Option {
	return func(o *Orchestrator) {
		o.dedupe = false
	}
}

// New creates an Orchestrator.
func New(deps Deps, cfg *strategyconfig.Config, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		deps:    deps,
		cfg:     cfg,
		logger:  log.WithField("module", "screening"),
		workers: 8,
		dedupe:  true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Result is one full screening pass.
type Result struct {
	Date                 time.Time
	ByStrategy           map[contracts.Strategy][]contracts.Opportunity
	TickersScanned       int
	Suppressed           int
	SuppressedByStrategy map[contracts.Strategy]int
}

// Opportunities flattens the per-strategy lists in canonical
// strategy order.
func (r *Result) Opportunities() []contracts.Opportunity {
	var out []contracts.Opportunity
	for _, s := range contracts.AllStrategies {
		out = append(out, r.ByStrategy[s]...)
	}
	return out
}

// Count returns the total number of surviving opportunities.
func (r *Result) Count() int {
	n := 0
	for _, opps := range r.ByStrategy {
		n += len(opps)
	}
	return n
}

// tickerOutcome carries one ticker's emissions out of the worker pool.
type tickerOutcome struct {
	ticker        string
	history       contracts.PriceSeries
	opportunities []contracts.Opportunity
}

// Screen evaluates every ticker with a snapshot on date. Per-ticker
// data gaps are skipped, never fatal; only the initial universe fetch
// can fail the run.
func (o *Orchestrator) Screen(ctx context.Context, date time.Time) (*Result, error) {
	snapshots, err := o.deps.Snapshots.GetAllByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch universe snapshots: %w", err)
	}

	o.logger.WithFields(map[string]interface{}{
		"date":    date.Format("2006-01-02"),
		"tickers": len(snapshots),
		"workers": o.workers,
		"dedupe":  o.dedupe,
	}).Info("Starting screening run")

	started := time.Now()
	lookback := o.maxLookbackDays()

	snapCh := make(chan *contracts.Snapshot, len(snapshots))
	outcomeCh := make(chan tickerOutcome, len(snapshots))

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.evaluateWorker(ctx, snapCh, outcomeCh, date, lookback)
		}()
	}

	for _, snap := range snapshots {
		snapCh <- snap
	}
	close(snapCh)

	go func() {
		wg.Wait()
		close(outcomeCh)
	}()

	var collected []contracts.Opportunity
	histories := make(map[string]contracts.PriceSeries)
	for outcome := range outcomeCh {
		if len(outcome.opportunities) == 0 {
			continue
		}
		histories[outcome.ticker] = outcome.history
		collected = append(collected, outcome.opportunities...)
	}

	collected = strategy.ApplyTechnicalOverlay(collected, histories, o.cfg.Technical)

	suppressed := make(map[contracts.Strategy]int)
	if o.dedupe {
		collected, suppressed = o.filterDuplicates(ctx, date, collected)
	}
	suppressedTotal := 0
	for _, n := range suppressed {
		suppressedTotal += n
	}

	result := &Result{
		Date:                 date,
		ByStrategy:           make(map[contracts.Strategy][]contracts.Opportunity),
		TickersScanned:       len(snapshots),
		Suppressed:           suppressedTotal,
		SuppressedByStrategy: suppressed,
	}
	for _, opp := range collected {
		result.ByStrategy[opp.Strategy] = append(result.ByStrategy[opp.Strategy], opp)
	}
	for s := range result.ByStrategy {
		sortOpportunities(s, result.ByStrategy[s])
	}

	o.recordRuns(ctx, result, time.Since(started))

	o.logger.WithFields(map[string]interface{}{
		"opportunities": result.Count(),
		"suppressed":    suppressedTotal,
		"duration_ms":   time.Since(started).Milliseconds(),
	}).Info("Screening run completed")

	return result, nil
}

// evaluateWorker runs all four rules for each ticker it receives.
// Rules are independent and share no state, so evaluation order
// within and across workers does not matter.
func (o *Orchestrator) evaluateWorker(ctx context.Context, snapCh <-chan *contracts.Snapshot, outcomeCh chan<- tickerOutcome, date time.Time, lookback int) {
	for snap := range snapCh {
		history, err := o.deps.Prices.GetHistory(ctx, snap.Ticker, date, lookback)
		if err != nil {
			// Data gap: skip the ticker, never abort the batch
			o.logger.WithError(err).WithField("ticker", snap.Ticker).Debug("Skipping ticker without price history")
			history = nil
		}

		var opps []contracts.Opportunity
		if opp := strategy.Dividend(snap, tail(history, o.cfg.Dividend.TrailingWindowDays), o.cfg.Dividend); opp != nil {
			opps = append(opps, *opp)
		}
		if opp := strategy.Volatility(snap, tail(history, o.cfg.Volatility.TrailingWindowDays), o.cfg.Volatility); opp != nil {
			opps = append(opps, *opp)
		}
		if opp := strategy.Week52Low(snap, tail(history, o.cfg.Week52Low.WindowDays), o.cfg.Week52Low); opp != nil {
			opps = append(opps, *opp)
		}
		if opp := strategy.GoldenCross(snap, history, o.cfg.GoldenCross); opp != nil {
			opps = append(opps, *opp)
		}

		outcomeCh <- tickerOutcome{
			ticker:        snap.Ticker,
			history:       history,
			opportunities: opps,
		}
	}
}

// filterDuplicates drops opportunities whose (ticker, strategy) pair
// was already alerted within the strategy's suppression window, counting
// drops per strategy. Suppression is a filter, never a merge: a
// duplicate is dropped entirely. A failed history lookup keeps the
// opportunity; the alerting collaborator dedups again on its side.
func (o *Orchestrator) filterDuplicates(ctx context.Context, date time.Time, opps []contracts.Opportunity) ([]contracts.Opportunity, map[contracts.Strategy]int) {
	kept := make([]contracts.Opportunity, 0, len(opps))
	suppressed := make(map[contracts.Strategy]int)

	for _, opp := range opps {
		window := o.cfg.Alerts.WindowFor(opp.Strategy)
		recent, err := o.deps.Alerts.GetRecentStrategies(ctx, opp.Ticker, date, window)
		if err != nil {
			o.logger.WithError(err).WithField("ticker", opp.Ticker).Warn("Alert history lookup failed, keeping opportunity")
			kept = append(kept, opp)
			continue
		}
		if recent[opp.Strategy] {
			suppressed[opp.Strategy]++
			continue
		}
		kept = append(kept, opp)
	}
	return kept, suppressed
}

func (o *Orchestrator) recordRuns(ctx context.Context, result *Result, elapsed time.Duration) {
	if o.deps.Runs == nil {
		return
	}
	for _, s := range contracts.AllStrategies {
		run := &contracts.ScreeningRun{
			Date:               result.Date,
			Strategy:           s,
			TickersScanned:     result.TickersScanned,
			OpportunitiesFound: len(result.ByStrategy[s]),
			Suppressed:         result.SuppressedByStrategy[s],
			Duration:           elapsed,
		}
		if err := o.deps.Runs.Save(ctx, run); err != nil {
			o.logger.WithError(err).Warn("Failed to record screening run")
		}
	}
}

// maxLookbackDays returns the deepest price history any rule needs.
func (o *Orchestrator) maxLookbackDays() int {
	max := o.cfg.Dividend.TrailingWindowDays
	if o.cfg.Volatility.TrailingWindowDays > max {
		max = o.cfg.Volatility.TrailingWindowDays
	}
	if o.cfg.Week52Low.WindowDays > max {
		max = o.cfg.Week52Low.WindowDays
	}
	if crossDepth := o.cfg.GoldenCross.LongPeriod + o.cfg.GoldenCross.LookbackDays; crossDepth > max {
		max = crossDepth
	}
	if o.cfg.GoldenCross.MinTrailingDays > max {
		max = o.cfg.GoldenCross.MinTrailingDays
	}
	return max
}

// tail returns the newest n observations of a series.
func tail(series contracts.PriceSeries, n int) contracts.PriceSeries {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

// sortOpportunities orders one strategy's list deterministically.
// Dividend ranks by descending yield expansion, volatility by most
// negative drop, 52-week-low by smallest distance from the low.
// Golden cross has no metric order; ticker order keeps parallel runs
// reproducible.
func sortOpportunities(s contracts.Strategy, opps []contracts.Opportunity) {
	if s == contracts.StrategyGoldenCross {
		sort.SliceStable(opps, func(i, j int) bool {
			return opps[i].Ticker < opps[j].Ticker
		})
		return
	}
	sort.SliceStable(opps, func(i, j int) bool {
		vi, vj := opps[i].SortValue(), opps[j].SortValue()
		if vi != vj {
			return vi < vj
		}
		return opps[i].Ticker < opps[j].Ticker
	})
}
