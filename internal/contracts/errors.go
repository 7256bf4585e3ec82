package contracts

import (
	"errors"
	"fmt"
)

// ErrInsufficientData reports that a price window is shorter than an
// indicator requires. Local and non-fatal: callers treat the indicator
// as absent and keep evaluating other strategies and tickers.
var ErrInsufficientData = errors.New("insufficient price data")

// ErrDataGap reports a missing snapshot or exit price for one ticker.
// Local and non-fatal: the ticker is skipped for that run or strategy.
var ErrDataGap = errors.New("data gap")

// ErrNoQualifyingDate reports that no historical date meets the
// market-breadth requirement. Fatal to a backtest invocation and
// distinct from "zero opportunities found".
var ErrNoQualifyingDate = errors.New("no qualifying entry date")

// ConfigurationError reports a missing or out-of-domain threshold.
// Fatal to the run: surfaced immediately, no partial results.
type ConfigurationError struct {
	Param  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Param, e.Reason)
}

// NewConfigurationError builds a ConfigurationError for a parameter.
func NewConfigurationError(param, reason string) *ConfigurationError {
	return &ConfigurationError{Param: param, Reason: reason}
}

// IsConfigurationError reports whether err wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
