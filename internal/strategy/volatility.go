package strategy

import (
	"fmt"

	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/strategyconfig"
)

// Volatility evaluates the dip-buy rule: a high-beta or high-volatility
// name trading well below its trailing high. Returns nil when the
// ticker does not qualify.
//
// With an empty history the year high from the snapshot stands in for
// the trailing high.
func Volatility(snap *contracts.Snapshot, history contracts.PriceSeries, cfg strategyconfig.VolatilityConfig) *contracts.Opportunity {
	if snap.MarketCap < cfg.MinMarketCap {
		return nil
	}
	if snap.Beta < cfg.MinBeta && snap.Volatility < cfg.MinVolatility {
		return nil
	}
	// Positive P/E above the ceiling disqualifies; negative earnings
	// pass through, the rule targets beaten-down names.
	if snap.HasPositivePE() && snap.PE > cfg.MaxPE {
		return nil
	}

	trailingHigh := snap.YearHigh
	if len(history) > 0 {
		trailingHigh = history[0].Price
		for _, p := range history[1:] {
			if p.Price > trailingHigh {
				trailingHigh = p.Price
			}
		}
	}
	if trailingHigh <= 0 {
		return nil
	}

	dropFromHigh := (snap.Price - trailingHigh) / trailingHigh
	if dropFromHigh > -cfg.MinDrop {
		return nil
	}

	return &contracts.Opportunity{
		Strategy:  contracts.StrategyVolatility,
		Ticker:    snap.Ticker,
		Date:      snap.Date,
		Price:     snap.Price,
		MarketCap: snap.MarketCap,
		Rationale: fmt.Sprintf(
			"price %.1f%% below trailing high %.2f, beta %.2f, volatility %.0f%%",
			-dropFromHigh*100, trailingHigh, snap.Beta, snap.Volatility*100),
		Volatility: &contracts.VolatilityMetrics{
			DropFromHigh: dropFromHigh,
			TrailingHigh: trailingHigh,
			Beta:         snap.Beta,
			Volatility:   snap.Volatility,
		},
	}
}
