package calculators

import (
	"testing"

	"github.com/aristath/lotwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lot(qty, cost float64) domain.TaxLotRecord {
	return domain.TaxLotRecord{Quantity: qty, CostPerShare: cost}
}

func TestCostBasisForShares(t *testing.T) {
	lots := []domain.TaxLotRecord{lot(20, 40), lot(50, 30)}

	cost, used := CostBasisForShares(30, lots)

	assert.Equal(t, 30, used)
	// 20 shares at 40 plus 10 shares at 30.
	assert.InDelta(t, (20*40.0+10*30.0)/30, cost, 1e-9)
}

func TestCostBasisForShares_LotsExhausted(t *testing.T) {
	lots := []domain.TaxLotRecord{lot(10, 40)}

	cost, used := CostBasisForShares(30, lots)

	assert.Equal(t, 10, used)
	assert.InDelta(t, 40, cost, 1e-9)
}

func TestCostBasisForShares_TruncatesFractions(t *testing.T) {
	lots := []domain.TaxLotRecord{lot(2.8, 40), lot(5, 30)}

	cost, used := CostBasisForShares(4, lots)

	assert.Equal(t, 4, used)
	assert.InDelta(t, (2*40.0+2*30.0)/4, cost, 1e-9)
}

func TestMinimumSharesForGain(t *testing.T) {
	// Target 100 at 5% gain: only the cost-90 shares qualify alone, the
	// walk keeps adding until the blended gain reaches the threshold.
	lots := []domain.TaxLotRecord{lot(5, 90), lot(10, 95)}

	shares, blended, ok := MinimumSharesForGain(5, 100, lots)

	require.True(t, ok)
	assert.Equal(t, 5, shares)
	assert.InDelta(t, 90, blended, 1e-9)
}

func TestMinimumSharesForGain_NotReachable(t *testing.T) {
	lots := []domain.TaxLotRecord{lot(10, 99)}

	_, _, ok := MinimumSharesForGain(5, 100, lots)

	assert.False(t, ok)
}

func TestMinimumSharesForGain_WholeSharesOnly(t *testing.T) {
	lots := []domain.TaxLotRecord{lot(0.9, 10)}

	_, _, ok := MinimumSharesForGain(5, 100, lots)

	assert.False(t, ok)
}

func TestMinimumSharesForRemainingProfit_WholeLots(t *testing.T) {
	// At price 60, selling the cost-55 lot leaves 100 shares at cost 40:
	// remaining profit 50%, comfortably above the 10% floor.
	lots := []domain.TaxLotRecord{lot(50, 55), lot(100, 40)}

	shares, blended, ok := MinimumSharesForRemainingProfit(10, 60, lots)

	require.True(t, ok)
	assert.InDelta(t, 50, shares, 1e-6)
	assert.InDelta(t, 55, blended, 1e-6)
}

func TestMinimumSharesForRemainingProfit_UniformCostSellsThrough(t *testing.T) {
	// With a single uniform-cost lot the remainder's profit never moves,
	// so the floor solve lands on the full quantity.
	lots := []domain.TaxLotRecord{lot(100, 50)}

	shares, blended, ok := MinimumSharesForRemainingProfit(10, 60, lots)

	require.True(t, ok)
	assert.InDelta(t, 100, shares, 1e-6)
	assert.InDelta(t, 50, blended, 1e-6)
}

func TestMinimumSharesForRemainingProfit_NothingSellable(t *testing.T) {
	// Position is under water; any sale breaches the floor.
	lots := []domain.TaxLotRecord{lot(100, 70)}

	_, _, ok := MinimumSharesForRemainingProfit(10, 60, lots)

	assert.False(t, ok)
}
