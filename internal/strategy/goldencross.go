package strategy

import (
	"fmt"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/indicators"
	"github.com/finsignal/screener/internal/strategyconfig"
)

// GoldenCross evaluates the momentum rule: the short-term moving
// average crossed above the long-term one within the lookback window.
// Returns nil when the ticker does not qualify.
//
// The underlying scan is retrospective, so the same historical cross
// stays visible on consecutive runs until it ages out of the lookback.
func GoldenCross(snap *contracts.Snapshot, history contracts.PriceSeries, cfg strategyconfig.GoldenCrossConfig) *contracts.Opportunity {
	if snap.MarketCap < cfg.MinMarketCap {
		return nil
	}
	if snap.HasPositivePE() && snap.PE > cfg.MaxPE {
		return nil
	}
	if cfg.MinYield > 0 && snap.DividendYield < cfg.MinYield {
		return nil
	}

	if len(history) < cfg.MinTrailingDays {
		return nil
	}

	cross := indicators.DetectCross(history.Prices(), cfg.ShortPeriod, cfg.LongPeriod, cfg.LookbackDays, indicators.GoldenCross)
	if !cross.Detected {
		return nil
	}

	return &contracts.Opportunity{
		Strategy:  contracts.StrategyGoldenCross,
		Ticker:    snap.Ticker,
		Date:      snap.Date,
		Price:     snap.Price,
		MarketCap: snap.MarketCap,
		Rationale: fmt.Sprintf(
			"%d-day SMA %.2f crossed above %d-day SMA %.2f within last %d days",
			cfg.ShortPeriod, cross.ShortSMA, cfg.LongPeriod, cross.LongSMA, cfg.LookbackDays),
		GoldenCross: &contracts.GoldenCrossMetrics{
			ShortSMA:      cross.ShortSMA,
			LongSMA:       cross.LongSMA,
			DividendYield: snap.DividendYield,
		},
	}
}
