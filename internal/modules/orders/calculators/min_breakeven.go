package calculators

import (
	"math"

	"github.com/aristath/lotwatch/internal/domain"
)

// minBreakEvenGatePercent is the blended profit required before a
// break-even trim is offered at all.
const minBreakEvenGatePercent = 1.0

// MinBreakEvenSell trims the position for a minimal guaranteed gain.
// When the highest-cost lot is profitable half of it goes at the
// midpoint; otherwise a shallow order sized for a 1% blended gain is
// priced with the ATR dampened to a fifth.
type MinBreakEvenSell struct{}

// NewMinBreakEvenSell creates the Minimum-Break-Even sell calculator.
func NewMinBreakEvenSell() *MinBreakEvenSell {
	return &MinBreakEvenSell{}
}

// Name returns the candidate tag.
func (c *MinBreakEvenSell) Name() string {
	return "MinBE"
}

func (c *MinBreakEvenSell) Calculate(ctx SellContext) *domain.SellCandidate {
	if ctx.ProfitPercent() < minBreakEvenGatePercent {
		return nil
	}
	if len(ctx.Lots) == 0 {
		return nil
	}

	price := ctx.CurrentPrice
	head := ctx.Lots[0]

	if price > head.CostPerShare {
		shares := math.Ceil(head.Quantity * 0.5)
		target := (price + head.CostPerShare) / 2
		entry := (price-head.CostPerShare)/4 + target
		cancel := target - (price-head.CostPerShare)/4
		trailingStop := (entry - target) / target * 100

		return buildSellCandidate(ctx, sellParams{
			shares:       shares,
			entry:        entry,
			target:       target,
			cancel:       cancel,
			trailingStop: trailingStop,
			breakEven:    head.CostPerShare,
			tag:          c.Name(),
			label:        "Min BE",
		})
	}

	adjustedATR := ctx.ATRPercent / 5
	entry := price * (1 - adjustedATR/100)
	target := entry * (1 - 2*adjustedATR/100)

	shares, matchedCost, ok := MinimumSharesForGain(minBreakEvenGatePercent, target, ctx.Lots)
	if !ok {
		return nil
	}

	cancel := math.Max(target*(1-2*adjustedATR/100), matchedCost)
	trailingStop := (entry - target) / target * 100

	return buildSellCandidate(ctx, sellParams{
		shares:       float64(shares),
		entry:        entry,
		target:       target,
		cancel:       cancel,
		trailingStop: trailingStop,
		breakEven:    matchedCost,
		tag:          c.Name(),
		label:        "Min BE",
	})
}
