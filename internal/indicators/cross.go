package indicators

// CrossDirection selects which moving-average crossover to look for.
type CrossDirection int

const (
	// GoldenCross: short-term SMA crossing above the long-term SMA.
	GoldenCross CrossDirection = iota
	// DeathCross: short-term SMA crossing below the long-term SMA.
	DeathCross
)

// Cross is the outcome of a crossover scan.
type Cross struct {
	Detected bool
	ShortSMA float64
	LongSMA  float64
}

// DetectCross scans for a recent moving-average crossover. The current
// short/long SMAs must already be in the requested relation; the scan
// then walks up to lookbackDays prior trailing windows, each dropping
// one observation from the end, looking for a window where the
// relation was reversed. Finding one reports a crossover as of the
// newest observation.
//
// This is a retrospective window scan, not an event log: overlapping
// calls re-detect the same historical cross until it ages out of
// lookbackDays.
func DetectCross(prices []float64, shortPeriod, longPeriod, lookbackDays int, direction CrossDirection) Cross {
	if shortPeriod < 1 || longPeriod <= shortPeriod || len(prices) < longPeriod {
		return Cross{}
	}

	shortSMA, ok := SMA(prices, shortPeriod)
	if !ok {
		return Cross{}
	}
	longSMA, ok := SMA(prices, longPeriod)
	if !ok {
		return Cross{}
	}

	result := Cross{ShortSMA: shortSMA, LongSMA: longSMA}

	if !inDirection(shortSMA, longSMA, direction) {
		return result
	}

	for back := 1; back <= lookbackDays; back++ {
		if len(prices)-back < longPeriod {
			break
		}
		prior := prices[:len(prices)-back]

		priorShort, ok := SMA(prior, shortPeriod)
		if !ok {
			break
		}
		priorLong, ok := SMA(prior, longPeriod)
		if !ok {
			break
		}

		if !inDirection(priorShort, priorLong, direction) {
			result.Detected = true
			return result
		}
	}

	return result
}

func inDirection(short, long float64, direction CrossDirection) bool {
	if direction == GoldenCross {
		return short > long
	}
	return short < long
}
