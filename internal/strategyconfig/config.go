// Package strategyconfig holds the screening threshold configuration.
// Thresholds are loaded once, validated once, and passed immutably
// into the pure rule functions; no rule reads global state.
package strategyconfig

import "github.com/finsignal/screener/internal/contracts"

// Config is the full threshold set for all screening strategies.
type Config struct {
	Dividend    DividendConfig    `yaml:"dividend" json:"dividend"`
	Volatility  VolatilityConfig  `yaml:"volatility" json:"volatility"`
	Week52Low   Week52LowConfig   `yaml:"week52_low" json:"week52_low"`
	GoldenCross GoldenCrossConfig `yaml:"golden_cross" json:"golden_cross"`
	Technical   TechnicalConfig   `yaml:"technical" json:"technical"`
	Alerts      AlertsConfig      `yaml:"alerts" json:"alerts"`
	Backtest    BacktestConfig    `yaml:"backtest" json:"backtest"`
}

// DividendConfig gates the dividend yield-expansion strategy.
type DividendConfig struct {
	MinCurrentYield     float64 `yaml:"min_current_yield" json:"min_current_yield"` // decimal fraction
	MaxPE               float64 `yaml:"max_pe" json:"max_pe"`
	MinMarketCap        float64 `yaml:"min_market_cap" json:"min_market_cap"`
	MinYieldExpansionPP float64 `yaml:"min_yield_expansion_pp" json:"min_yield_expansion_pp"`
	MinDiscount         float64 `yaml:"min_discount" json:"min_discount"`
	TrailingWindowDays  int     `yaml:"trailing_window_days" json:"trailing_window_days"`
	MinTrailingDays     int     `yaml:"min_trailing_days" json:"min_trailing_days"`
}

// VolatilityConfig gates the volatility dip-buy strategy.
type VolatilityConfig struct {
	MinMarketCap       float64 `yaml:"min_market_cap" json:"min_market_cap"`
	MinBeta            float64 `yaml:"min_beta" json:"min_beta"`
	MinVolatility      float64 `yaml:"min_volatility" json:"min_volatility"`
	MaxPE              float64 `yaml:"max_pe" json:"max_pe"`
	MinDrop            float64 `yaml:"min_drop" json:"min_drop"` // positive fraction, e.g. 0.10
	TrailingWindowDays int     `yaml:"trailing_window_days" json:"trailing_window_days"`
}

// Week52LowConfig gates the 52-week-low value strategy.
type Week52LowConfig struct {
	MinMarketCap          float64 `yaml:"min_market_cap" json:"min_market_cap"`
	MaxPE                 float64 `yaml:"max_pe" json:"max_pe"`
	MinYield              float64 `yaml:"min_yield" json:"min_yield"`
	MaxDistanceFromLowPct float64 `yaml:"max_distance_from_low_pct" json:"max_distance_from_low_pct"`
	WindowDays            int     `yaml:"window_days" json:"window_days"`
	MinTrailingDays       int     `yaml:"min_trailing_days" json:"min_trailing_days"`
}

// GoldenCrossConfig gates the golden-cross momentum strategy.
// MinYield of zero disables the dividend gate.
type GoldenCrossConfig struct {
	MinMarketCap    float64 `yaml:"min_market_cap" json:"min_market_cap"`
	MaxPE           float64 `yaml:"max_pe" json:"max_pe"`
	MinYield        float64 `yaml:"min_yield" json:"min_yield"`
	ShortPeriod     int     `yaml:"short_period" json:"short_period"`
	LongPeriod      int     `yaml:"long_period" json:"long_period"`
	LookbackDays    int     `yaml:"lookback_days" json:"lookback_days"`
	MinTrailingDays int     `yaml:"min_trailing_days" json:"min_trailing_days"`
}

// TechnicalConfig controls the optional post-filter overlay that
// narrows an already emitted opportunity list.
type TechnicalConfig struct {
	Enabled          bool    `yaml:"enabled" json:"enabled"`
	MaxRSI           float64 `yaml:"max_rsi" json:"max_rsi"`
	RSIPeriod        int     `yaml:"rsi_period" json:"rsi_period"`
	RequireAboveMA50 bool    `yaml:"require_above_ma50" json:"require_above_ma50"`
}

// AlertsConfig sets the duplicate-suppression window per strategy,
// in days.
type AlertsConfig struct {
	DividendDays    int `yaml:"dividend_days" json:"dividend_days"`
	VolatilityDays  int `yaml:"volatility_days" json:"volatility_days"`
	Week52LowDays   int `yaml:"week52_low_days" json:"week52_low_days"`
	GoldenCrossDays int `yaml:"golden_cross_days" json:"golden_cross_days"`
}

// WindowFor returns the dedup window for a strategy.
func (a AlertsConfig) WindowFor(s contracts.Strategy) int {
	switch s {
	case contracts.StrategyDividend:
		return a.DividendDays
	case contracts.StrategyVolatility:
		return a.VolatilityDays
	case contracts.StrategyWeek52Low:
		return a.Week52LowDays
	case contracts.StrategyGoldenCross:
		return a.GoldenCrossDays
	}
	return 0
}

// BacktestConfig sets the simulator defaults.
type BacktestConfig struct {
	MonthsBack        int `yaml:"months_back" json:"months_back"`
	HoldingPeriodDays int `yaml:"holding_period_days" json:"holding_period_days"`
	MinBreadth        int `yaml:"min_breadth" json:"min_breadth"`
}

// Default returns the built-in threshold set. Load overrides it field
// by field from YAML.
func Default() *Config {
	return &Config{
		Dividend: DividendConfig{
			MinCurrentYield:     0.03,
			MaxPE:               25,
			MinMarketCap:        1e9,
			MinYieldExpansionPP: 0.002,
			MinDiscount:         0.05,
			TrailingWindowDays:  90,
			MinTrailingDays:     30,
		},
		Volatility: VolatilityConfig{
			MinMarketCap:       1e9,
			MinBeta:            1.2,
			MinVolatility:      0.30,
			MaxPE:              40,
			MinDrop:            0.10,
			TrailingWindowDays: 90,
		},
		Week52Low: Week52LowConfig{
			MinMarketCap:          1e9,
			MaxPE:                 20,
			MinYield:              0.02,
			MaxDistanceFromLowPct: 0.05,
			WindowDays:            252,
			MinTrailingDays:       100,
		},
		GoldenCross: GoldenCrossConfig{
			MinMarketCap:    1e9,
			MaxPE:           35,
			MinYield:        0,
			ShortPeriod:     50,
			LongPeriod:      200,
			LookbackDays:    5,
			MinTrailingDays: 200,
		},
		Technical: TechnicalConfig{
			Enabled:          false,
			MaxRSI:           70,
			RSIPeriod:        14,
			RequireAboveMA50: false,
		},
		Alerts: AlertsConfig{
			DividendDays:    7,
			VolatilityDays:  3,
			Week52LowDays:   7,
			GoldenCrossDays: 5,
		},
		Backtest: BacktestConfig{
			MonthsBack:        6,
			HoldingPeriodDays: 90,
			MinBreadth:        500,
		},
	}
}
