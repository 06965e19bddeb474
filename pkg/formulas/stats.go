package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// CalculateReturns converts prices to percentage returns
// Returns[i] = (Price[i] - Price[i-1]) / Price[i-1]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// CloseVolatilityPercent estimates daily volatility as a percentage of the
// last close, from closing prices alone. Used as a fallback when the price
// feed returns bars without high/low data, so the recommendation engine can
// still run with a best-effort ATR substitute.
func CloseVolatilityPercent(closes []float64, period int) *float64 {
	if period <= 0 {
		period = DefaultATRPeriod
	}
	if len(closes) < period+1 {
		return nil
	}

	window := closes[len(closes)-period-1:]
	returns := CalculateReturns(window)
	if len(returns) == 0 {
		return nil
	}

	vol := stat.StdDev(returns, nil) * 100
	if math.IsNaN(vol) || math.IsInf(vol, 0) {
		return nil
	}
	return &vol
}
