package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/screening"
	"github.com/finsignal/screener/internal/strategyconfig"
	"github.com/finsignal/screener/pkg/logger"
)

var (
	nowDate   = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	entryDate = time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC) // just before now - 6*30d
)

type fakeSnapshots struct {
	byDate map[time.Time][]*contracts.Snapshot
}

func (f *fakeSnapshots) GetByTickerAndDate(_ context.Context, ticker string, date time.Time) (*contracts.Snapshot, error) {
	for _, s := range f.byDate[date] {
		if s.Ticker == ticker {
			return s, nil
		}
	}
	return nil, contracts.ErrDataGap
}

func (f *fakeSnapshots) GetAllByDate(_ context.Context, date time.Time) ([]*contracts.Snapshot, error) {
	return f.byDate[date], nil
}

func (f *fakeSnapshots) NearestDateWithBreadth(_ context.Context, target time.Time, minTickers int) (time.Time, error) {
	var best time.Time
	found := false
	for date, snaps := range f.byDate {
		if date.After(target) || len(snaps) < minTickers {
			continue
		}
		if !found || date.After(best) {
			best = date
			found = true
		}
	}
	if !found {
		return time.Time{}, contracts.ErrNoQualifyingDate
	}
	return best, nil
}

func (f *fakeSnapshots) Save(_ context.Context, _ *contracts.Snapshot) error       { return nil }
func (f *fakeSnapshots) SaveBatch(_ context.Context, _ []*contracts.Snapshot) error { return nil }

type fakePrices struct {
	histories map[string]contracts.PriceSeries
}

func (f *fakePrices) GetHistory(_ context.Context, ticker string, before time.Time, lookbackDays int) (contracts.PriceSeries, error) {
	series, ok := f.histories[ticker]
	if !ok {
		return nil, contracts.ErrDataGap
	}
	trimmed := series.Before(before)
	if len(trimmed) > lookbackDays {
		trimmed = trimmed[len(trimmed)-lookbackDays:]
	}
	return trimmed, nil
}

func (f *fakePrices) GetLatestOnOrBefore(_ context.Context, ticker string, date time.Time) (*contracts.PricePoint, error) {
	series, ok := f.histories[ticker]
	if !ok {
		return nil, contracts.ErrDataGap
	}
	for i := len(series) - 1; i >= 0; i-- {
		if !series[i].Date.After(date) {
			p := series[i]
			return &p, nil
		}
	}
	return nil, contracts.ErrDataGap
}

func (f *fakePrices) SaveBatch(_ context.Context, _ string, _ []contracts.PricePoint) error {
	return nil
}

type noAlerts struct{}

func (noAlerts) GetRecentStrategies(_ context.Context, _ string, _ time.Time, _ int) (map[contracts.Strategy]bool, error) {
	return nil, nil
}
func (noAlerts) Save(_ context.Context, _ *contracts.AlertRecord) error { return nil }

// dividendHistory builds 90 flat observations at 100 ending the day
// before entryDate, then a linear rise after entry so the forward
// return is deterministic.
func dividendHistory(exitPrice float64, daysAfterEntry int) contracts.PriceSeries {
	var series contracts.PriceSeries
	start := entryDate.AddDate(0, 0, -90)
	for i := 0; i < 90; i++ {
		series = append(series, contracts.PricePoint{Date: start.AddDate(0, 0, i), Price: 100})
	}
	for i := 1; i <= daysAfterEntry; i++ {
		frac := float64(i) / float64(daysAfterEntry)
		series = append(series, contracts.PricePoint{
			Date:  entryDate.AddDate(0, 0, i),
			Price: 90 + (exitPrice-90)*frac,
		})
	}
	return series
}

func testConfig() *strategyconfig.Config {
	cfg := strategyconfig.Default()
	cfg.Backtest.MinBreadth = 1
	return cfg
}

func newSimulator(snapshots *fakeSnapshots, prices *fakePrices, cfg *strategyconfig.Config) *Simulator {
	deps := screening.Deps{Snapshots: snapshots, Prices: prices, Alerts: noAlerts{}}
	return New(deps, cfg, logger.NewNop(), WithClock(func() time.Time { return nowDate }))
}

func qualifyingUniverse() (*fakeSnapshots, *fakePrices) {
	snapshots := &fakeSnapshots{
		byDate: map[time.Time][]*contracts.Snapshot{
			entryDate: {
				{
					Ticker:        "DIVI",
					Date:          entryDate,
					Price:         90,
					MarketCap:     5e9,
					DividendYield: 0.05,
					PE:            15,
					Beta:          1.0,
				},
			},
		},
	}
	prices := &fakePrices{
		histories: map[string]contracts.PriceSeries{
			"DIVI": dividendHistory(108, 90),
		},
	}
	return snapshots, prices
}

func TestRun_LinearRoundTrip(t *testing.T) {
	snapshots, prices := qualifyingUniverse()
	sim := newSimulator(snapshots, prices, testConfig())

	result, err := sim.Run(context.Background(), Params{MonthsBack: 6, HoldingPeriodDays: 90})
	require.NoError(t, err)

	assert.Equal(t, entryDate, result.EntryDate)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, "DIVI", trade.Opportunity.Ticker)
	assert.InDelta(t, 90, trade.EntryPrice, 1e-9)
	assert.InDelta(t, 108, trade.ExitPrice, 1e-9)
	// (108 - 90) / 90 * 100
	assert.InDelta(t, 20.0, trade.ReturnPct, 1e-9)

	summary, ok := result.Summaries[contracts.StrategyDividend]
	require.True(t, ok)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, 1, summary.Wins)
	assert.InDelta(t, 20.0, summary.MeanReturn, 1e-9)
}

func TestRun_ExitSnapsToLatestAvailable(t *testing.T) {
	// Prices stop 60 days after entry: the 90-day exit snaps back
	snapshots, prices := qualifyingUniverse()
	prices.histories["DIVI"] = dividendHistory(102, 60)
	sim := newSimulator(snapshots, prices, testConfig())

	result, err := sim.Run(context.Background(), Params{MonthsBack: 6, HoldingPeriodDays: 90})
	require.NoError(t, err)
	require.Len(t, result.Trades, 1)

	trade := result.Trades[0]
	assert.Equal(t, entryDate.AddDate(0, 0, 60), trade.ExitDate)
	assert.InDelta(t, 102, trade.ExitPrice, 1e-9)

	// The result keeps the requested target; only the trade snaps
	assert.Equal(t, entryDate.AddDate(0, 0, 90), result.ExitTarget)
}

func TestRun_NegativeParamsRejected(t *testing.T) {
	snapshots, prices := qualifyingUniverse()
	sim := newSimulator(snapshots, prices, testConfig())

	_, err := sim.Run(context.Background(), Params{MonthsBack: -1})
	require.Error(t, err)
	assert.True(t, contracts.IsConfigurationError(err))
	assert.Contains(t, err.Error(), "must not be negative")

	_, err = sim.Run(context.Background(), Params{HoldingPeriodDays: -1})
	require.Error(t, err)
	assert.True(t, contracts.IsConfigurationError(err))
}

func TestRun_NoExitPriceDropsTrade(t *testing.T) {
	// No observations after entry: the trade is dropped, not zeroed
	snapshots, prices := qualifyingUniverse()
	prices.histories["DIVI"] = dividendHistory(108, 0)
	sim := newSimulator(snapshots, prices, testConfig())

	result, err := sim.Run(context.Background(), Params{MonthsBack: 6, HoldingPeriodDays: 90})
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
}

func TestRun_NoQualifyingDate(t *testing.T) {
	snapshots, prices := qualifyingUniverse()
	cfg := testConfig()
	cfg.Backtest.MinBreadth = 500
	sim := newSimulator(snapshots, prices, cfg)

	_, err := sim.Run(context.Background(), Params{MonthsBack: 6, HoldingPeriodDays: 90})
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrNoQualifyingDate))
}

func TestRun_EmptyScreenIsValidResult(t *testing.T) {
	// Entry date resolves but nothing qualifies: a zero-trade result,
	// not an error
	snapshots, prices := qualifyingUniverse()
	snapshots.byDate[entryDate][0].DividendYield = 0.001
	sim := newSimulator(snapshots, prices, testConfig())

	result, err := sim.Run(context.Background(), Params{MonthsBack: 6, HoldingPeriodDays: 90})
	require.NoError(t, err)
	assert.Empty(t, result.Trades)
	assert.Empty(t, result.Summaries)
	assert.Equal(t, entryDate, result.EntryDate)
}

func TestRun_DefaultsFromConfig(t *testing.T) {
	snapshots, prices := qualifyingUniverse()
	sim := newSimulator(snapshots, prices, testConfig())

	// Zero params fall back to config (6 months, 90 days)
	result, err := sim.Run(context.Background(), Params{})
	require.NoError(t, err)
	require.Len(t, result.Trades, 1)
}

func TestMedian_LowerMiddle(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"odd count", []float64{3, 1, 2}, 2},
		{"even count picks lower middle", []float64{4, 1, 3, 2}, 2},
		{"single", []float64{7}, 7},
		{"two picks lower", []float64{10, -5}, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(tt.values))
		})
	}
}

func TestSummarize(t *testing.T) {
	trades := []contracts.BacktestTrade{
		{Opportunity: contracts.Opportunity{Strategy: contracts.StrategyDividend}, ReturnPct: 10},
		{Opportunity: contracts.Opportunity{Strategy: contracts.StrategyDividend}, ReturnPct: -4},
		{Opportunity: contracts.Opportunity{Strategy: contracts.StrategyDividend}, ReturnPct: 0},
		{Opportunity: contracts.Opportunity{Strategy: contracts.StrategyDividend}, ReturnPct: 6},
		{Opportunity: contracts.Opportunity{Strategy: contracts.StrategyVolatility}, ReturnPct: 50},
	}

	summary, ok := summarize(contracts.StrategyDividend, trades)
	require.True(t, ok)

	assert.Equal(t, 4, summary.Count)
	assert.Equal(t, 2, summary.Wins)
	// Zero return counts as a loss
	assert.Equal(t, 2, summary.Losses)
	assert.InDelta(t, 3.0, summary.MeanReturn, 1e-9)
	// Sorted: -4, 0, 6, 10 -> lower middle is 0
	assert.InDelta(t, 0.0, summary.MedianReturn, 1e-9)
	assert.InDelta(t, 10.0, summary.BestReturn, 1e-9)
	assert.InDelta(t, -4.0, summary.WorstReturn, 1e-9)

	_, ok = summarize(contracts.StrategyGoldenCross, trades)
	assert.False(t, ok)
}
