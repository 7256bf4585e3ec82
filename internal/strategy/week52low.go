package strategy

import (
	"fmt"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/indicators"
	"github.com/finsignal/screener/internal/strategyconfig"
)

// rsiContextPeriod is the window for the RSI attached to 52-week-low
// opportunities as supporting context. It is not a filter here; the
// technical overlay owns RSI-based filtering.
const rsiContextPeriod = 14

// Week52Low evaluates the value rule: a dividend payer with sane
// earnings trading near its 52-week low. Returns nil when the ticker
// does not qualify.
func Week52Low(snap *contracts.Snapshot, history contracts.PriceSeries, cfg strategyconfig.Week52LowConfig) *contracts.Opportunity {
	if snap.MarketCap < cfg.MinMarketCap {
		return nil
	}
	if !snap.HasPositivePE() || snap.PE > cfg.MaxPE {
		return nil
	}
	if snap.DividendYield < cfg.MinYield {
		return nil
	}

	if len(history) < cfg.MinTrailingDays {
		return nil
	}

	prices := history.Prices()
	high, low, ok := indicators.Week52HighLow(prices)
	if !ok || low <= 0 {
		return nil
	}

	distanceFromLow := (snap.Price - low) / low
	if distanceFromLow > cfg.MaxDistanceFromLowPct {
		return nil
	}

	metrics := &contracts.Week52LowMetrics{
		Week52Low:       low,
		Week52High:      high,
		DistanceFromLow: distanceFromLow,
		DividendYield:   snap.DividendYield,
	}
	if rsi, err := indicators.RSI(prices, rsiContextPeriod); err == nil {
		metrics.RSI = &rsi
	}

	return &contracts.Opportunity{
		Strategy:  contracts.StrategyWeek52Low,
		Ticker:    snap.Ticker,
		Date:      snap.Date,
		Price:     snap.Price,
		MarketCap: snap.MarketCap,
		Rationale: fmt.Sprintf(
			"price within %.1f%% of 52-week low %.2f, yield %.2f%%",
			distanceFromLow*100, low, snap.DividendYield*100),
		Week52Low: metrics,
	}
}
