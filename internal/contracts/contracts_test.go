package contracts

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeYield(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"decimal fraction unchanged", 0.035, 0.035},
		{"percent scaled divided once", 3.5, 0.035},
		{"zero unchanged", 0.0, 0.0},
		{"boundary one unchanged", 1.0, 1.0},
		{"just above one divided", 1.2, 0.012},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeYield(tt.input)
			epsilon := 1e-9
			if diff := got - tt.want; diff > epsilon || diff < -epsilon {
				t.Errorf("NormalizeYield(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeYield_Idempotent(t *testing.T) {
	inputs := []float64{0.0, 0.005, 0.035, 0.5, 1.0, 2.8, 4.5, 150.0}

	for _, in := range inputs {
		once := NormalizeYield(in)
		twice := NormalizeYield(once)
		if once != twice {
			t.Errorf("NormalizeYield not idempotent for %v: once=%v twice=%v", in, once, twice)
		}
	}
}

func TestPriceSeries_Before(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 8, d, 0, 0, 0, 0, time.UTC)
	}

	series := PriceSeries{
		{Date: day(1), Price: 100},
		{Date: day(2), Price: 101},
		{Date: day(3), Price: 102},
		{Date: day(4), Price: 103},
	}

	trimmed := series.Before(day(3))
	if len(trimmed) != 2 {
		t.Fatalf("Before() returned %d points, want 2", len(trimmed))
	}
	if trimmed[len(trimmed)-1].Price != 101 {
		t.Errorf("Last trimmed price = %v, want 101", trimmed[len(trimmed)-1].Price)
	}

	// Cutoff before the series start yields nothing
	if got := series.Before(day(1)); len(got) != 0 {
		t.Errorf("Before(start) returned %d points, want 0", len(got))
	}

	// Cutoff after the series end keeps everything
	if got := series.Before(day(10)); len(got) != 4 {
		t.Errorf("Before(after end) returned %d points, want 4", len(got))
	}
}

func TestPriceSeries_Mean(t *testing.T) {
	series := PriceSeries{
		{Price: 100},
		{Price: 102},
		{Price: 104},
	}

	mean, ok := series.Mean()
	if !ok {
		t.Fatal("Mean() ok = false, want true")
	}
	if mean != 102 {
		t.Errorf("Mean() = %v, want 102", mean)
	}

	var empty PriceSeries
	if _, ok := empty.Mean(); ok {
		t.Error("Mean() on empty series should return ok = false")
	}
}

func TestPriceSeries_Last(t *testing.T) {
	series := PriceSeries{
		{Date: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), Price: 100},
		{Date: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC), Price: 105},
	}

	last, ok := series.Last()
	if !ok {
		t.Fatal("Last() ok = false, want true")
	}
	if last.Price != 105 {
		t.Errorf("Last().Price = %v, want 105", last.Price)
	}

	var empty PriceSeries
	if _, ok := empty.Last(); ok {
		t.Error("Last() on empty series should return ok = false")
	}
}

func TestStrategy_Valid(t *testing.T) {
	for _, s := range AllStrategies {
		if !s.Valid() {
			t.Errorf("Strategy %q should be valid", s)
		}
	}
	if Strategy("momentum").Valid() {
		t.Error("Unknown strategy should not be valid")
	}
}

func TestOpportunity_Key(t *testing.T) {
	opp := &Opportunity{
		Strategy: StrategyDividend,
		Ticker:   "ACME.DE",
	}
	if got := opp.Key(); got != "ACME.DE:dividend" {
		t.Errorf("Key() = %q, want %q", got, "ACME.DE:dividend")
	}
}

func TestOpportunity_SortValue(t *testing.T) {
	tests := []struct {
		name string
		opp  Opportunity
		want float64
	}{
		{
			name: "dividend negates yield expansion",
			opp: Opportunity{
				Strategy: StrategyDividend,
				Dividend: &DividendMetrics{YieldExpansion: 0.005},
			},
			want: -0.005,
		},
		{
			name: "volatility uses drop from high",
			opp: Opportunity{
				Strategy:   StrategyVolatility,
				Volatility: &VolatilityMetrics{DropFromHigh: -0.12},
			},
			want: -0.12,
		},
		{
			name: "week52 low uses distance from low",
			opp: Opportunity{
				Strategy:  StrategyWeek52Low,
				Week52Low: &Week52LowMetrics{DistanceFromLow: 0.04},
			},
			want: 0.04,
		},
		{
			name: "golden cross has no defined metric",
			opp: Opportunity{
				Strategy:    StrategyGoldenCross,
				GoldenCross: &GoldenCrossMetrics{ShortSMA: 55, LongSMA: 52},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opp.SortValue(); got != tt.want {
				t.Errorf("SortValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategySummary_WinRate(t *testing.T) {
	s := StrategySummary{Count: 4, Wins: 3, Losses: 1}
	if got := s.WinRate(); got != 0.75 {
		t.Errorf("WinRate() = %v, want 0.75", got)
	}

	empty := StrategySummary{}
	if got := empty.WinRate(); got != 0 {
		t.Errorf("WinRate() on empty summary = %v, want 0", got)
	}
}

func TestConfigurationError(t *testing.T) {
	err := NewConfigurationError("dividend.min_current_yield", "must be positive")

	if !IsConfigurationError(err) {
		t.Error("IsConfigurationError() = false, want true")
	}

	want := "configuration error: dividend.min_current_yield: must be positive"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if IsConfigurationError(ErrDataGap) {
		t.Error("IsConfigurationError(ErrDataGap) = true, want false")
	}
}

func TestOpportunity_JSON(t *testing.T) {
	rsi := 34.2
	original := &Opportunity{
		Strategy:  StrategyWeek52Low,
		Ticker:    "ACME.DE",
		Date:      time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Price:     52.0,
		MarketCap: 4.2e9,
		Rationale: "price within 4.0% of 52-week low",
		Week52Low: &Week52LowMetrics{
			Week52Low:       50,
			Week52High:      80,
			DistanceFromLow: 0.04,
			DividendYield:   0.031,
			RSI:             &rsi,
		},
	}

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded Opportunity
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if decoded.Ticker != original.Ticker {
		t.Errorf("Ticker mismatch: got %s, want %s", decoded.Ticker, original.Ticker)
	}
	if decoded.Week52Low == nil {
		t.Fatal("Week52Low metrics lost in round trip")
	}
	if decoded.Week52Low.DistanceFromLow != 0.04 {
		t.Errorf("DistanceFromLow = %v, want 0.04", decoded.Week52Low.DistanceFromLow)
	}
	if decoded.Dividend != nil || decoded.Volatility != nil || decoded.GoldenCross != nil {
		t.Error("Unrelated metric bundles should stay nil")
	}
}

func TestNewAlertRecord(t *testing.T) {
	opp := Opportunity{
		Strategy:  StrategyDividend,
		Ticker:    "ACME.DE",
		Date:      time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		Price:     90,
		Rationale: "yield 5.0% vs implied 4.5%",
	}

	rec := NewAlertRecord(opp)

	if rec.Ticker != "ACME.DE" || rec.Strategy != StrategyDividend {
		t.Errorf("record identity = (%s, %s), want (ACME.DE, dividend)", rec.Ticker, rec.Strategy)
	}
	if !rec.Date.Equal(opp.Date) {
		t.Errorf("Date = %v, want %v", rec.Date, opp.Date)
	}
	if rec.Price != 90 {
		t.Errorf("Price = %v, want 90", rec.Price)
	}
	if rec.Reason != opp.Rationale {
		t.Errorf("Reason = %q, want %q", rec.Reason, opp.Rationale)
	}
	if rec.Metrics == nil || rec.Metrics.Ticker != "ACME.DE" {
		t.Error("Metrics must carry the full opportunity")
	}
}
