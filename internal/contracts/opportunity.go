package contracts

import (
	"fmt"
	"time"
)

// Strategy identifies one of the rule-based opportunity strategies.
type Strategy string

const (
	StrategyDividend    Strategy = "dividend"
	StrategyVolatility  Strategy = "volatility"
	StrategyWeek52Low   Strategy = "week52_low"
	StrategyGoldenCross Strategy = "golden_cross"
)

// AllStrategies lists every strategy in canonical evaluation order.
var AllStrategies = []Strategy{
	StrategyDividend,
	StrategyVolatility,
	StrategyWeek52Low,
	StrategyGoldenCross,
}

// Valid reports whether s is a known strategy tag.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyDividend, StrategyVolatility, StrategyWeek52Low, StrategyGoldenCross:
		return true
	}
	return false
}

// Opportunity is a single qualifying (ticker, strategy, date) emission.
// Exactly one of the metric bundles is non-nil, matching Strategy.
// SSOT: strategy rules are the only producers of opportunities.
type Opportunity struct {
	Strategy  Strategy  `json:"strategy"`
	Ticker    string    `json:"ticker"`
	Date      time.Time `json:"date"`
	Price     float64   `json:"price"`
	MarketCap float64   `json:"market_cap"`
	Rationale string    `json:"rationale"`

	Dividend    *DividendMetrics    `json:"dividend,omitempty"`
	Volatility  *VolatilityMetrics  `json:"volatility,omitempty"`
	Week52Low   *Week52LowMetrics   `json:"week52_low,omitempty"`
	GoldenCross *GoldenCrossMetrics `json:"golden_cross,omitempty"`
}

// DividendMetrics carries the yield-expansion arithmetic behind a
// dividend opportunity.
type DividendMetrics struct {
	CurrentYield           float64 `json:"current_yield"`
	DividendPerShare       float64 `json:"dividend_per_share"`
	AvgTrailingPrice       float64 `json:"avg_trailing_price"`
	HistoricalImpliedYield float64 `json:"historical_implied_yield"`
	YieldExpansion         float64 `json:"yield_expansion"`
	PriceDiscount          float64 `json:"price_discount"`
}

// VolatilityMetrics carries the dip-buy arithmetic behind a volatility
// opportunity.
type VolatilityMetrics struct {
	DropFromHigh float64 `json:"drop_from_high"` // negative fraction
	TrailingHigh float64 `json:"trailing_high"`
	Beta         float64 `json:"beta"`
	Volatility   float64 `json:"volatility"`
}

// Week52LowMetrics carries the 52-week-low value arithmetic.
// RSI is supporting context only and may be absent.
type Week52LowMetrics struct {
	Week52Low       float64  `json:"week52_low"`
	Week52High      float64  `json:"week52_high"`
	DistanceFromLow float64  `json:"distance_from_low"`
	DividendYield   float64  `json:"dividend_yield"`
	RSI             *float64 `json:"rsi,omitempty"`
}

// GoldenCrossMetrics carries the moving-average crossover context.
type GoldenCrossMetrics struct {
	ShortSMA      float64 `json:"short_sma"`
	LongSMA       float64 `json:"long_sma"`
	DividendYield float64 `json:"dividend_yield"`
}

// Key returns the deduplication identity of the opportunity.
func (o *Opportunity) Key() string {
	return fmt.Sprintf("%s:%s", o.Ticker, o.Strategy)
}

// SortValue returns the strategy-specific sort metric. Lower values
// rank first for volatility and 52-week-low (ascending), dividend
// opportunities negate yield expansion so the largest expansion also
// ranks first under an ascending sort.
func (o *Opportunity) SortValue() float64 {
	switch o.Strategy {
	case StrategyDividend:
		if o.Dividend != nil {
			return -o.Dividend.YieldExpansion
		}
	case StrategyVolatility:
		if o.Volatility != nil {
			return o.Volatility.DropFromHigh
		}
	case StrategyWeek52Low:
		if o.Week52Low != nil {
			return o.Week52Low.DistanceFromLow
		}
	}
	return 0
}
