package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestATRPercent_InsufficientData(t *testing.T) {
	highs := []float64{10, 11, 12}
	lows := []float64{9, 10, 11}
	closes := []float64{9.5, 10.5, 11.5}

	result := ATRPercent(highs, lows, closes, 14)
	assert.Nil(t, result)
}

func TestATRPercent_MismatchedSeries(t *testing.T) {
	closes := make([]float64, 30)
	highs := make([]float64, 29)
	lows := make([]float64, 30)
	for i := range closes {
		closes[i] = 100
		lows[i] = 99
	}

	result := ATRPercent(highs, lows, closes, 14)
	assert.Nil(t, result)
}

func TestATRPercent_ConstantRange(t *testing.T) {
	// Every bar has a $2 true range on a $100 close, so NATR converges to ~2%.
	n := 60
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 101
		lows[i] = 99
		closes[i] = 100
	}

	result := ATRPercent(highs, lows, closes, 14)
	require.NotNil(t, result)
	assert.InDelta(t, 2.0, *result, 0.01)
}

func TestATRPercent_DefaultPeriod(t *testing.T) {
	n := 40
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		highs[i] = 202
		lows[i] = 198
		closes[i] = 200
	}

	result := ATRPercent(highs, lows, closes, 0)
	require.NotNil(t, result)
	assert.InDelta(t, 2.0, *result, 0.01)
}

func TestCloseVolatilityPercent(t *testing.T) {
	closes := []float64{100, 102, 100, 102, 100, 102, 100, 102, 100, 102, 100, 102, 100, 102, 100, 102}

	result := CloseVolatilityPercent(closes, 14)
	require.NotNil(t, result)
	assert.Greater(t, *result, 0.0)
}

func TestCloseVolatilityPercent_InsufficientData(t *testing.T) {
	result := CloseVolatilityPercent([]float64{100, 101}, 14)
	assert.Nil(t, result)
}

func TestCalculateReturns(t *testing.T) {
	returns := CalculateReturns([]float64{100, 110, 99})
	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0], 1e-9)
	assert.InDelta(t, -0.10, returns[1], 1e-9)
}

func TestMeanAndStdDev_Empty(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, StdDev(nil))
}
