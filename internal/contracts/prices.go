package contracts

import "time"

// PricePoint is a single (date, price) observation for one ticker.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries is an ordered price sequence for one ticker, oldest to
// newest, strictly increasing by date. Missing trading days are simply
// absent; the series carries no gap markers.
type PriceSeries []PricePoint

// Prices returns the raw price values oldest to newest.
func (ps PriceSeries) Prices() []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Price
	}
	return out
}

// Last returns the newest observation, or false when the series is empty.
func (ps PriceSeries) Last() (PricePoint, bool) {
	if len(ps) == 0 {
		return PricePoint{}, false
	}
	return ps[len(ps)-1], true
}

// Mean returns the arithmetic mean price, or false when the series is empty.
func (ps PriceSeries) Mean() (float64, bool) {
	if len(ps) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, p := range ps {
		sum += p.Price
	}
	return sum / float64(len(ps)), true
}

// Before returns the observations strictly before date, preserving order.
// Used to slice series to "strictly before evaluation date" and avoid
// look-ahead bias.
func (ps PriceSeries) Before(date time.Time) PriceSeries {
	for i := len(ps) - 1; i >= 0; i-- {
		if ps[i].Date.Before(date) {
			return ps[:i+1]
		}
	}
	return nil
}
