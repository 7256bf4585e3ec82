package contracts

import "time"

// Snapshot represents one day's fundamental and price record for one ticker.
// SSOT: the data pipeline produces snapshots, the engine only reads them.
// Immutable once recorded; identified by (ticker, date).
type Snapshot struct {
	Ticker        string    `json:"ticker"`
	Date          time.Time `json:"date"`
	Price         float64   `json:"price"`
	MarketCap     float64   `json:"market_cap"`
	DividendYield float64   `json:"dividend_yield"` // decimal fraction, e.g. 0.035 for 3.5%
	PayoutRatio   float64   `json:"payout_ratio"`
	Beta          float64   `json:"beta"`
	PE            float64   `json:"pe"`
	PB            float64   `json:"pb"`
	Volatility    float64   `json:"volatility"` // realized, annualized
	Volume        int64     `json:"volume"`
	DayHigh       float64   `json:"day_high"`
	DayLow        float64   `json:"day_low"`
	YearHigh      float64   `json:"year_high"`
	YearLow       float64   `json:"year_low"`
}

// NormalizeYield coerces a dividend yield into a decimal fraction.
// Percent-scaled inputs (anything above 1.0) are divided by 100.
// Idempotent: values already in [0, 1] pass through unchanged, so
// applying it twice never divides twice.
func NormalizeYield(y float64) float64 {
	if y > 1.0 {
		return y / 100.0
	}
	return y
}

// HasPositivePE reports whether the P/E ratio is meaningful for
// valuation gates. Zero and negative earnings both disqualify.
func (s *Snapshot) HasPositivePE() bool {
	return s.PE > 0
}
