package strategy

import (
	"github.com/finsignal/screener/internal/contracts"
	"github.com/finsignal/screener/internal/indicators"
	"github.com/finsignal/screener/internal/strategyconfig"
)

// ApplyTechnicalOverlay narrows an already emitted opportunity list.
// When enabled it discards opportunities whose RSI exceeds the ceiling
// or, if required, whose price sits below the 50-day average. An
// indicator that cannot be computed never discards; the overlay only
// acts on evidence it has.
//
// This is composition over the four rules, not a fifth rule.
func ApplyTechnicalOverlay(opps []contracts.Opportunity, histories map[string]contracts.PriceSeries, cfg strategyconfig.TechnicalConfig) []contracts.Opportunity {
	if !cfg.Enabled {
		return opps
	}

	kept := make([]contracts.Opportunity, 0, len(opps))
	for _, opp := range opps {
		history, ok := histories[opp.Ticker]
		if !ok {
			kept = append(kept, opp)
			continue
		}
		prices := history.Prices()

		if rsi, err := indicators.RSI(prices, cfg.RSIPeriod); err == nil && rsi > cfg.MaxRSI {
			continue
		}

		if cfg.RequireAboveMA50 {
			if ma50, ok := indicators.SMA(prices, 50); ok && opp.Price < ma50 {
				continue
			}
		}

		kept = append(kept, opp)
	}
	return kept
}
