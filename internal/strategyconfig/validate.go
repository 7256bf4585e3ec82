package strategyconfig

import "github.com/finsignal/screener/internal/contracts"

// Validate checks every threshold for domain validity. The first
// violation is returned as a ConfigurationError and aborts the run;
// there are no partial results.
func Validate(cfg *Config) error {
	// === Dividend ===
	if cfg.Dividend.MinCurrentYield <= 0 || cfg.Dividend.MinCurrentYield > 1 {
		return contracts.NewConfigurationError("dividend.min_current_yield", "must be a decimal fraction in (0, 1]")
	}
	if cfg.Dividend.MaxPE <= 0 {
		return contracts.NewConfigurationError("dividend.max_pe", "must be > 0")
	}
	if cfg.Dividend.MinMarketCap <= 0 {
		return contracts.NewConfigurationError("dividend.min_market_cap", "must be > 0")
	}
	if cfg.Dividend.MinYieldExpansionPP <= 0 {
		return contracts.NewConfigurationError("dividend.min_yield_expansion_pp", "must be > 0")
	}
	if cfg.Dividend.MinDiscount <= 0 || cfg.Dividend.MinDiscount >= 1 {
		return contracts.NewConfigurationError("dividend.min_discount", "must be in (0, 1)")
	}
	if cfg.Dividend.TrailingWindowDays < 1 {
		return contracts.NewConfigurationError("dividend.trailing_window_days", "must be >= 1")
	}
	if cfg.Dividend.MinTrailingDays < 1 || cfg.Dividend.MinTrailingDays > cfg.Dividend.TrailingWindowDays {
		return contracts.NewConfigurationError("dividend.min_trailing_days", "must be in [1, trailing_window_days]")
	}

	// === Volatility ===
	if cfg.Volatility.MinMarketCap <= 0 {
		return contracts.NewConfigurationError("volatility.min_market_cap", "must be > 0")
	}
	if cfg.Volatility.MinBeta <= 0 {
		return contracts.NewConfigurationError("volatility.min_beta", "must be > 0")
	}
	if cfg.Volatility.MinVolatility <= 0 {
		return contracts.NewConfigurationError("volatility.min_volatility", "must be > 0")
	}
	if cfg.Volatility.MaxPE <= 0 {
		return contracts.NewConfigurationError("volatility.max_pe", "must be > 0")
	}
	if cfg.Volatility.MinDrop <= 0 || cfg.Volatility.MinDrop >= 1 {
		return contracts.NewConfigurationError("volatility.min_drop", "must be in (0, 1)")
	}
	if cfg.Volatility.TrailingWindowDays < 1 {
		return contracts.NewConfigurationError("volatility.trailing_window_days", "must be >= 1")
	}

	// === Week52Low ===
	if cfg.Week52Low.MinMarketCap <= 0 {
		return contracts.NewConfigurationError("week52_low.min_market_cap", "must be > 0")
	}
	if cfg.Week52Low.MaxPE <= 0 {
		return contracts.NewConfigurationError("week52_low.max_pe", "must be > 0")
	}
	if cfg.Week52Low.MinYield < 0 || cfg.Week52Low.MinYield > 1 {
		return contracts.NewConfigurationError("week52_low.min_yield", "must be a decimal fraction in [0, 1]")
	}
	if cfg.Week52Low.MaxDistanceFromLowPct <= 0 || cfg.Week52Low.MaxDistanceFromLowPct >= 1 {
		return contracts.NewConfigurationError("week52_low.max_distance_from_low_pct", "must be in (0, 1)")
	}
	if cfg.Week52Low.WindowDays < 1 {
		return contracts.NewConfigurationError("week52_low.window_days", "must be >= 1")
	}
	if cfg.Week52Low.MinTrailingDays < 1 || cfg.Week52Low.MinTrailingDays > cfg.Week52Low.WindowDays {
		return contracts.NewConfigurationError("week52_low.min_trailing_days", "must be in [1, window_days]")
	}

	// === GoldenCross ===
	if cfg.GoldenCross.MinMarketCap <= 0 {
		return contracts.NewConfigurationError("golden_cross.min_market_cap", "must be > 0")
	}
	if cfg.GoldenCross.MaxPE <= 0 {
		return contracts.NewConfigurationError("golden_cross.max_pe", "must be > 0")
	}
	if cfg.GoldenCross.MinYield < 0 || cfg.GoldenCross.MinYield > 1 {
		return contracts.NewConfigurationError("golden_cross.min_yield", "must be a decimal fraction in [0, 1]")
	}
	if cfg.GoldenCross.ShortPeriod < 1 {
		return contracts.NewConfigurationError("golden_cross.short_period", "must be >= 1")
	}
	if cfg.GoldenCross.LongPeriod <= cfg.GoldenCross.ShortPeriod {
		return contracts.NewConfigurationError("golden_cross.long_period", "must be > short_period")
	}
	if cfg.GoldenCross.LookbackDays < 1 {
		return contracts.NewConfigurationError("golden_cross.lookback_days", "must be >= 1")
	}
	if cfg.GoldenCross.MinTrailingDays < cfg.GoldenCross.LongPeriod {
		return contracts.NewConfigurationError("golden_cross.min_trailing_days", "must be >= long_period")
	}

	// === Technical overlay ===
	if cfg.Technical.Enabled {
		if cfg.Technical.MaxRSI <= 0 || cfg.Technical.MaxRSI > 100 {
			return contracts.NewConfigurationError("technical.max_rsi", "must be in (0, 100]")
		}
		if cfg.Technical.RSIPeriod < 1 {
			return contracts.NewConfigurationError("technical.rsi_period", "must be >= 1")
		}
	}

	// === Alerts ===
	for _, w := range []struct {
		field string
		days  int
	}{
		{"alerts.dividend_days", cfg.Alerts.DividendDays},
		{"alerts.volatility_days", cfg.Alerts.VolatilityDays},
		{"alerts.week52_low_days", cfg.Alerts.Week52LowDays},
		{"alerts.golden_cross_days", cfg.Alerts.GoldenCrossDays},
	} {
		if w.days < 1 {
			return contracts.NewConfigurationError(w.field, "must be >= 1")
		}
	}

	// === Backtest ===
	if cfg.Backtest.MonthsBack < 1 {
		return contracts.NewConfigurationError("backtest.months_back", "must be >= 1")
	}
	if cfg.Backtest.HoldingPeriodDays < 1 {
		return contracts.NewConfigurationError("backtest.holding_period_days", "must be >= 1")
	}
	if cfg.Backtest.MinBreadth < 1 {
		return contracts.NewConfigurationError("backtest.min_breadth", "must be >= 1")
	}

	return nil
}
