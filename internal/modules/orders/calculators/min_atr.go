package calculators

import (
	"math"

	"github.com/aristath/lotwatch/internal/domain"
)

const (
	// minATRGateFloor is the lowest blended profit that opens the
	// Minimum-ATR order regardless of volatility.
	minATRGateFloor = 6.0

	// minATRGateMultiplier scales the ATR into the profit gate.
	minATRGateMultiplier = 3.5

	// minATRGateCap bounds the ATR used for the gate so a volatile name
	// does not demand an unreachable profit before selling.
	minATRGateCap = 5.0

	// minSellGainPercent is the blended gain the selected shares must
	// realize at the target price.
	minSellGainPercent = 5.0
)

// MinATRSell sells the minimum share count that locks in a 5% gain at a
// stop one ATR below the market, gated on the position carrying enough
// blended profit to be worth trimming.
type MinATRSell struct{}

// NewMinATRSell creates the Minimum-ATR sell calculator.
func NewMinATRSell() *MinATRSell {
	return &MinATRSell{}
}

// Name returns the candidate tag.
func (c *MinATRSell) Name() string {
	return "MinATR"
}

// Calculate gates on blended profit >= max(6, 3.5*min(ATR, cap)).
func (c *MinATRSell) Calculate(ctx SellContext) *domain.SellCandidate {
	atr := ctx.ATRPercent
	gate := math.Max(minATRGateFloor, minATRGateMultiplier*math.Min(atr, minATRGateCap))
	if ctx.ProfitPercent() < gate {
		return nil
	}

	price := ctx.CurrentPrice
	trailingStop := atr
	stopPrice := price * (1 - atr/100)

	shares, matchedCost, ok := MinimumSharesForGain(minSellGainPercent, stopPrice, ctx.Lots)
	if !ok {
		return nil
	}

	// Price the target two ATR under the market when the matched shares
	// are cheap enough, otherwise split the difference between the stop
	// and their cost. Never above the trailing-stop level.
	twoATRBelow := price * (1 - 2*atr/100)
	var target float64
	if matchedCost < twoATRBelow {
		target = twoATRBelow
	} else {
		target = (stopPrice + matchedCost) / 2
	}
	target = math.Min(target, price*(1-trailingStop/100))

	cancel := math.Max(target*(1-2*atr/100), matchedCost)

	return buildSellCandidate(ctx, sellParams{
		shares:       float64(shares),
		entry:        stopPrice,
		target:       target,
		cancel:       cancel,
		trailingStop: trailingStop,
		breakEven:    matchedCost,
		tag:          c.Name(),
		label:        "Min ATR",
	})
}
