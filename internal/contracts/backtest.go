package contracts

import "time"

// BacktestTrade is an Opportunity replayed at a historical entry date
// and closed at the resolved exit date. Derived, immutable once computed.
type BacktestTrade struct {
	Opportunity Opportunity `json:"opportunity"`
	EntryPrice  float64     `json:"entry_price"`
	ExitDate    time.Time   `json:"exit_date"`
	ExitPrice   float64     `json:"exit_price"`
	ReturnPct   float64     `json:"return_pct"`
}

// StrategySummary aggregates replayed trades for one strategy.
// Median uses the lower-middle element for even counts.
type StrategySummary struct {
	Strategy     Strategy `json:"strategy"`
	Count        int      `json:"count"`
	Wins         int      `json:"wins"`
	Losses       int      `json:"losses"`
	MeanReturn   float64  `json:"mean_return"`
	MedianReturn float64  `json:"median_return"`
	BestReturn   float64  `json:"best_return"`
	WorstReturn  float64  `json:"worst_return"`
}

// BacktestResult is the full outcome of one simulator invocation.
// Empty Trades with a resolved EntryDate means the screen found
// nothing at that date, which is a valid result, not a failure.
// ExitTarget is entry plus the holding period; each trade's ExitDate
// carries the actual observation it snapped to.
type BacktestResult struct {
	EntryDate  time.Time                    `json:"entry_date"`
	ExitTarget time.Time                    `json:"exit_target"`
	Trades     []BacktestTrade              `json:"trades"`
	Summaries  map[Strategy]StrategySummary `json:"summaries"`
}

// WinRate returns wins over total as a fraction, or 0 for no trades.
func (s StrategySummary) WinRate() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Count)
}
