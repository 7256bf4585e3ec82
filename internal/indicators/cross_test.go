package indicators

import "testing"

// crossSeries builds a 260-point series flat at base, with the last
// riseDays observations stepped up so the 50-day SMA overtakes the
// 200-day SMA within the last few days.
func crossSeries(base, step float64, riseDays int) []float64 {
	prices := make([]float64, 0, 260)
	for i := 0; i < 260-riseDays; i++ {
		prices = append(prices, base)
	}
	for i := 1; i <= riseDays; i++ {
		prices = append(prices, base+step*float64(i))
	}
	return prices
}

func TestDetectCross_Golden(t *testing.T) {
	// Sharp rise over the last 3 days lifts the short SMA above the
	// long SMA; 3 days back the series was still flat, so the lookback
	// scan finds a prior window without the relation.
	prices := crossSeries(100, 5, 3)

	cross := DetectCross(prices, 50, 200, 5, GoldenCross)
	if !cross.Detected {
		t.Fatal("DetectCross(golden) detected = false, want true")
	}
	if cross.ShortSMA <= cross.LongSMA {
		t.Errorf("ShortSMA = %v should exceed LongSMA = %v", cross.ShortSMA, cross.LongSMA)
	}
}

func TestDetectCross_Death(t *testing.T) {
	prices := crossSeries(100, -5, 3)

	cross := DetectCross(prices, 50, 200, 5, DeathCross)
	if !cross.Detected {
		t.Fatal("DetectCross(death) detected = false, want true")
	}
	if cross.ShortSMA >= cross.LongSMA {
		t.Errorf("ShortSMA = %v should sit below LongSMA = %v", cross.ShortSMA, cross.LongSMA)
	}
}

func TestDetectCross_MutuallyExclusive(t *testing.T) {
	seriesList := [][]float64{
		crossSeries(100, 5, 3),
		crossSeries(100, -5, 3),
		crossSeries(100, 0, 0),
		crossSeries(100, 1, 60),
	}

	for i, prices := range seriesList {
		golden := DetectCross(prices, 50, 200, 5, GoldenCross)
		death := DetectCross(prices, 50, 200, 5, DeathCross)
		if golden.Detected && death.Detected {
			t.Errorf("series %d: golden and death cross both detected", i)
		}
	}
}

func TestDetectCross_NoRelation(t *testing.T) {
	// Flat series: short SMA equals long SMA, neither direction holds
	prices := crossSeries(100, 0, 0)

	if cross := DetectCross(prices, 50, 200, 5, GoldenCross); cross.Detected {
		t.Error("flat series should not detect a golden cross")
	}
}

func TestDetectCross_OldCross(t *testing.T) {
	// Rise happened 60 days ago: the relation held throughout the
	// 5-day lookback, so the cross has aged out.
	prices := crossSeries(100, 5, 60)

	if cross := DetectCross(prices, 50, 200, 5, GoldenCross); cross.Detected {
		t.Error("cross older than lookback window should not be detected")
	}
}

func TestDetectCross_InsufficientData(t *testing.T) {
	prices := crossSeries(100, 5, 3)[:150]

	if cross := DetectCross(prices, 50, 200, 5, GoldenCross); cross.Detected {
		t.Error("series shorter than long period should not detect")
	}
}

func TestDetectCross_BadPeriods(t *testing.T) {
	prices := crossSeries(100, 5, 3)

	if cross := DetectCross(prices, 200, 50, 5, GoldenCross); cross.Detected {
		t.Error("long period below short period should not detect")
	}
	if cross := DetectCross(prices, 0, 200, 5, GoldenCross); cross.Detected {
		t.Error("zero short period should not detect")
	}
}
