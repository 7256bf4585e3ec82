package strategyconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/finsignal/screener/internal/contracts"
)

func writeThresholds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write thresholds file: %v", err)
	}
	return path
}

func TestDefault_Valid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("Default() should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeThresholds(t, `
dividend:
  min_current_yield: 0.04
  min_discount: 0.08
week52_low:
  max_distance_from_low_pct: 0.03
backtest:
  months_back: 12
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Overridden fields
	if cfg.Dividend.MinCurrentYield != 0.04 {
		t.Errorf("MinCurrentYield = %v, want 0.04", cfg.Dividend.MinCurrentYield)
	}
	if cfg.Dividend.MinDiscount != 0.08 {
		t.Errorf("MinDiscount = %v, want 0.08", cfg.Dividend.MinDiscount)
	}
	if cfg.Week52Low.MaxDistanceFromLowPct != 0.03 {
		t.Errorf("MaxDistanceFromLowPct = %v, want 0.03", cfg.Week52Low.MaxDistanceFromLowPct)
	}
	if cfg.Backtest.MonthsBack != 12 {
		t.Errorf("MonthsBack = %v, want 12", cfg.Backtest.MonthsBack)
	}

	// Defaults survive where the file is silent
	if cfg.GoldenCross.LongPeriod != 200 {
		t.Errorf("LongPeriod = %v, want default 200", cfg.GoldenCross.LongPeriod)
	}
	if cfg.Alerts.DividendDays != 7 {
		t.Errorf("DividendDays = %v, want default 7", cfg.Alerts.DividendDays)
	}
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeThresholds(t, `
dividend:
  min_curent_yield: 0.04
`)

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject unknown fields")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/thresholds.yaml"); err == nil {
		t.Error("Load() should fail for a missing file")
	}
}

func TestLoad_InvalidThreshold(t *testing.T) {
	path := writeThresholds(t, `
dividend:
  min_current_yield: -0.02
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() should reject a negative yield threshold")
	}

	var ce *contracts.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("error = %v, want ConfigurationError", err)
	}
	if ce.Param != "dividend.min_current_yield" {
		t.Errorf("Param = %q, want dividend.min_current_yield", ce.Param)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantParam string
	}{
		{
			name:      "percent scaled yield threshold",
			mutate:    func(c *Config) { c.Dividend.MinCurrentYield = 3.0 },
			wantParam: "dividend.min_current_yield",
		},
		{
			name:      "zero market cap floor",
			mutate:    func(c *Config) { c.Volatility.MinMarketCap = 0 },
			wantParam: "volatility.min_market_cap",
		},
		{
			name:      "min trailing above window",
			mutate:    func(c *Config) { c.Week52Low.MinTrailingDays = 300 },
			wantParam: "week52_low.min_trailing_days",
		},
		{
			name:      "long period below short",
			mutate:    func(c *Config) { c.GoldenCross.LongPeriod = 40 },
			wantParam: "golden_cross.long_period",
		},
		{
			name: "overlay rsi out of range",
			mutate: func(c *Config) {
				c.Technical.Enabled = true
				c.Technical.MaxRSI = 140
			},
			wantParam: "technical.max_rsi",
		},
		{
			name:      "zero dedup window",
			mutate:    func(c *Config) { c.Alerts.GoldenCrossDays = 0 },
			wantParam: "alerts.golden_cross_days",
		},
		{
			name:      "zero breadth",
			mutate:    func(c *Config) { c.Backtest.MinBreadth = 0 },
			wantParam: "backtest.min_breadth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() should fail")
			}

			var ce *contracts.ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("error = %v, want ConfigurationError", err)
			}
			if ce.Param != tt.wantParam {
				t.Errorf("Param = %q, want %q", ce.Param, tt.wantParam)
			}
		})
	}
}

func TestAlertsConfig_WindowFor(t *testing.T) {
	alerts := AlertsConfig{
		DividendDays:    7,
		VolatilityDays:  3,
		Week52LowDays:   6,
		GoldenCrossDays: 5,
	}

	tests := []struct {
		strategy contracts.Strategy
		want     int
	}{
		{contracts.StrategyDividend, 7},
		{contracts.StrategyVolatility, 3},
		{contracts.StrategyWeek52Low, 6},
		{contracts.StrategyGoldenCross, 5},
		{contracts.Strategy("unknown"), 0},
	}

	for _, tt := range tests {
		if got := alerts.WindowFor(tt.strategy); got != tt.want {
			t.Errorf("WindowFor(%s) = %d, want %d", tt.strategy, got, tt.want)
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	h1, err := Hash(Default())
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, _ := Hash(Default())
	if h1 != h2 {
		t.Error("Hash() should be deterministic for identical configs")
	}

	changed := Default()
	changed.Dividend.MinDiscount = 0.09
	h3, _ := Hash(changed)
	if h1 == h3 {
		t.Error("Hash() should change when a threshold changes")
	}
}
