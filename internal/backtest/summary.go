package backtest

import (
	"sort"

	"github.com/finsignal/screener/internal/contracts"
)

// summarize aggregates the trades of one strategy. Returns ok=false
// when the strategy produced no trades.
func summarize(strat contracts.Strategy, trades []contracts.BacktestTrade) (contracts.StrategySummary, bool) {
	var returns []float64
	for _, t := range trades {
		if t.Opportunity.Strategy == strat {
			returns = append(returns, t.ReturnPct)
		}
	}
	if len(returns) == 0 {
		return contracts.StrategySummary{}, false
	}

	summary := contracts.StrategySummary{
		Strategy:    strat,
		Count:       len(returns),
		BestReturn:  returns[0],
		WorstReturn: returns[0],
	}

	sum := 0.0
	for _, r := range returns {
		sum += r
		if r > 0 {
			summary.Wins++
		} else {
			summary.Losses++
		}
		if r > summary.BestReturn {
			summary.BestReturn = r
		}
		if r < summary.WorstReturn {
			summary.WorstReturn = r
		}
	}
	summary.MeanReturn = sum / float64(len(returns))
	summary.MedianReturn = median(returns)

	return summary, true
}

// median returns the rank-based median. For an even count this is the
// lower-middle element, not an interpolation.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[(len(sorted)-1)/2]
}
