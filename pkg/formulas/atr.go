// Package formulas provides shared numeric calculations (volatility,
// returns) used by the recommendation engine.
package formulas

import (
	"github.com/markcheno/go-talib"
)

// DefaultATRPeriod is the lookback used for ATR when the caller does not
// specify one (14 bars, the conventional default).
const DefaultATRPeriod = 14

// ATRPercent calculates the Average True Range as a percentage of the
// closing price (normalized ATR).
//
// Args:
//
//	highs, lows, closes: OHLC series, oldest first
//	period: ATR lookback (typically 14)
//
// Returns the latest NATR value, or nil if there is insufficient data.
func ATRPercent(highs, lows, closes []float64, period int) *float64 {
	if period <= 0 {
		period = DefaultATRPeriod
	}
	if len(closes) < period+1 || len(highs) != len(closes) || len(lows) != len(closes) {
		return nil
	}

	natr := talib.Natr(highs, lows, closes, period)

	if len(natr) > 0 && !isNaN(natr[len(natr)-1]) {
		result := natr[len(natr)-1]
		return &result
	}

	return nil
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
