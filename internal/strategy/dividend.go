// Package strategy implements the rule functions that turn one
// snapshot plus trailing price history into an optional opportunity.
// Every rule is pure: thresholds come in as arguments, storage is
// never touched, and rules can run in any order or in parallel.
package strategy

import (
	"fmt"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/strategyconfig"
)

// Dividend evaluates the yield-expansion rule: a stock is judged cheap
// when its dividend yield implies a price drop beyond what dividend
// growth alone explains. Returns nil when the ticker does not qualify.
//
// The history series must be strictly before the evaluation date.
func Dividend(snap *contracts.Snapshot, history contracts.PriceSeries, cfg strategyconfig.DividendConfig) *contracts.Opportunity {
	if snap.MarketCap < cfg.MinMarketCap {
		return nil
	}
	if !snap.HasPositivePE() || snap.PE > cfg.MaxPE {
		return nil
	}

	yield := snap.DividendYield
	if yield < cfg.MinCurrentYield {
		return nil
	}

	if len(history) < cfg.MinTrailingDays {
		return nil
	}
	avgPrice, ok := history.Mean()
	if !ok || avgPrice <= 0 {
		return nil
	}

	dividendPerShare := yield * snap.Price
	historicalImpliedYield := dividendPerShare / avgPrice
	yieldExpansion := yield - historicalImpliedYield
	priceDiscount := (avgPrice - snap.Price) / avgPrice

	if yieldExpansion < cfg.MinYieldExpansionPP || priceDiscount < cfg.MinDiscount {
		return nil
	}

	return &contracts.Opportunity{
		Strategy:  contracts.StrategyDividend,
		Ticker:    snap.Ticker,
		Date:      snap.Date,
		Price:     snap.Price,
		MarketCap: snap.MarketCap,
		Rationale: fmt.Sprintf(
			"yield %.2f%% expanded %.2fpp over trailing average, price %.1f%% below %d-day mean",
			yield*100, yieldExpansion*100, priceDiscount*100, cfg.TrailingWindowDays),
		Dividend: &contracts.DividendMetrics{
			CurrentYield:           yield,
			DividendPerShare:       dividendPerShare,
			AvgTrailingPrice:       avgPrice,
			HistoricalImpliedYield: historicalImpliedYield,
			YieldExpansion:         yieldExpansion,
			PriceDiscount:          priceDiscount,
		},
	}
}
