// Package indicators provides stateless technical indicator functions
// over ordered price sequences (oldest to newest). No function here
// touches storage or shared state.
package indicators

import (
	"math"

	"github.com/finsignal/screener/internal/contracts"
)

// Week52Window is the trailing observation count approximating one
// trading year.
const Week52Window = 252

// RSI computes the Relative Strength Index over the last period price
// deltas. Requires len(prices) >= period+1, otherwise returns
// ErrInsufficientData. When mean loss is exactly zero the result is
// 100, maximal strength rather than a division by zero. Output is
// bounded to [0, 100] by construction.
func RSI(prices []float64, period int) (float64, error) {
	if period < 1 {
		return 0, contracts.NewConfigurationError("rsi.period", "must be at least 1")
	}
	if len(prices) < period+1 {
		return 0, contracts.ErrInsufficientData
	}

	window := prices[len(prices)-period-1:]

	var gainSum, lossSum float64
	for i := 1; i < len(window); i++ {
		delta := window[i] - window[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum += -delta
		}
	}

	meanGain := gainSum / float64(period)
	meanLoss := lossSum / float64(period)

	if meanLoss == 0 {
		return 100, nil
	}

	rs := meanGain / meanLoss
	return 100 - 100/(1+rs), nil
}

// SMA computes the simple moving average of the last period prices.
// Returns ok=false when fewer than period observations are available;
// callers treat an absent indicator as non-blocking.
func SMA(prices []float64, period int) (float64, bool) {
	if period < 1 || len(prices) < period {
		return 0, false
	}

	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period), true
}

// EMA computes an exponentially weighted average of the last period
// prices using an exponential kernel normalized to sum 1. The kernel
// is convolved against the window, which pairs the oldest window price
// with the largest weight exp(0) and the newest with exp(-1). Returns
// ok=false when fewer than period observations are available.
func EMA(prices []float64, period int) (float64, bool) {
	if period < 1 || len(prices) < period {
		return 0, false
	}

	window := prices[len(prices)-period:]

	// Weights follow exp(x) for x spaced evenly on [-1, 0], applied
	// convolution-style: reversed against the window so window[0]
	// carries exp(0).
	weights := make([]float64, period)
	weightSum := 0.0
	for i := range weights {
		var x float64
		if period > 1 {
			x = -float64(i) / float64(period-1)
		}
		weights[i] = math.Exp(x)
		weightSum += weights[i]
	}

	ema := 0.0
	for i, p := range window {
		ema += p * weights[i] / weightSum
	}
	return ema, true
}

// Week52HighLow returns the extremes of the trailing min(n, 252)
// prices. With fewer than 252 observations all available history is
// used, a documented approximation rather than an error. Returns
// ok=false only for an empty series.
func Week52HighLow(prices []float64) (high, low float64, ok bool) {
	if len(prices) == 0 {
		return 0, 0, false
	}

	window := prices
	if len(window) > Week52Window {
		window = window[len(window)-Week52Window:]
	}

	high, low = window[0], window[0]
	for _, p := range window[1:] {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}
	return high, low, true
}

// AnnualizedVolatility computes the standard deviation of the last
// period daily returns scaled by sqrt(252). Requires period+1 prices.
func AnnualizedVolatility(prices []float64, period int) (float64, error) {
	if period < 2 {
		return 0, contracts.NewConfigurationError("volatility.period", "must be at least 2")
	}
	if len(prices) < period+1 {
		return 0, contracts.ErrInsufficientData
	}

	window := prices[len(prices)-period-1:]

	returns := make([]float64, 0, period)
	for i := 1; i < len(window); i++ {
		if window[i-1] == 0 {
			return 0, contracts.ErrInsufficientData
		}
		returns = append(returns, window[i]/window[i-1]-1)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	return math.Sqrt(variance) * math.Sqrt(252), nil
}
