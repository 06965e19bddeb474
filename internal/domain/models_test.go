package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNearZero(t *testing.T) {
	assert.True(t, IsNearZero(0))
	assert.True(t, IsNearZero(0.00009))
	assert.True(t, IsNearZero(-0.00009))
	assert.False(t, IsNearZero(0.0002))
	assert.False(t, IsNearZero(-0.0002))
	assert.False(t, IsNearZero(1))
}

func TestNewTaxLotRecord_DerivedFields(t *testing.T) {
	rec := NewTaxLotRecord("2024-03-01", 100, 50, 60)

	assert.Equal(t, 6000.0, rec.MarketValue)
	assert.Equal(t, 5000.0, rec.CostBasis)
	assert.Equal(t, 1000.0, rec.GainLossDollar)
	assert.InDelta(t, 20.0, rec.GainLossPct, 1e-9)
}

func TestTaxLotRecord_RefreshAfterSplit(t *testing.T) {
	rec := NewTaxLotRecord("2024-03-01", 100, 50, 60)
	rec.Quantity = 40
	rec.Refresh()

	assert.Equal(t, 2400.0, rec.MarketValue)
	assert.Equal(t, 2000.0, rec.CostBasis)
	assert.InDelta(t, 20.0, rec.GainLossPct, 1e-9)
}

func TestTaxLotRecord_ZeroCostBasis(t *testing.T) {
	rec := NewTaxLotRecord("2024-03-01", 10, 0, 5)
	assert.Equal(t, 0.0, rec.GainLossPct)
}

func TestOrderCandidate_TaggedUnion(t *testing.T) {
	sell := NewSellOrderCandidate(SellCandidate{Symbol: "AAPL", Shares: 100, Tag: "Top100"})
	assert.Equal(t, CandidateKindSell, sell.Kind)
	assert.NotNil(t, sell.Sell)
	assert.Nil(t, sell.Buy)

	buy := NewBuyOrderCandidate(BuyCandidate{Symbol: "AAPL", Shares: 1})
	assert.Equal(t, CandidateKindBuy, buy.Kind)
	assert.NotNil(t, buy.Buy)
	assert.Nil(t, buy.Sell)
}
