package calculators

import (
	"fmt"
	"math"

	"github.com/aristath/lotwatch/internal/domain"
)

// atrMultipleGainPercent is the blended gain the selected shares must
// realize at the computed target price.
const atrMultipleGainPercent = 5.0

// ATRMultipleSell prices a sell one ATR below the market with a trailing
// stop widened to a multiple of the ATR, selling the fewest shares that
// still lock in a 5% gain at the resulting target.
type ATRMultipleSell struct {
	multiple float64
	tag      string
	label    string
}

// NewATRMultipleSell creates an incremental sell with trailing stop
// multiple×ATR, e.g. NewATRMultipleSell(2) tags candidates "2ATR".
func NewATRMultipleSell(multiple float64) *ATRMultipleSell {
	tag := fmt.Sprintf("%gATR", multiple)
	return &ATRMultipleSell{multiple: multiple, tag: tag, label: tag}
}

// NewOnePercentHigherTSSell creates the variant whose trailing stop is
// one point above the ATR rather than a multiple of it.
func NewOnePercentHigherTSSell() *ATRMultipleSell {
	return &ATRMultipleSell{multiple: 0, tag: "1%TS", label: "1% TS"}
}

// Name returns the candidate tag.
func (c *ATRMultipleSell) Name() string {
	return c.tag
}

func (c *ATRMultipleSell) Calculate(ctx SellContext) *domain.SellCandidate {
	atr := ctx.ATRPercent

	targetTrailingStop := atr + 1
	if c.multiple > 0 {
		targetTrailingStop = c.multiple * atr
	}

	entry := ctx.CurrentPrice * (1 - atr/100)
	target := entry / (1 + targetTrailingStop/100)

	shares, matchedCost, ok := MinimumSharesForGain(atrMultipleGainPercent, target, ctx.Lots)
	if !ok {
		return nil
	}

	cancel := math.Max(target*(1-2*atr/100), matchedCost)

	return buildSellCandidate(ctx, sellParams{
		shares:       float64(shares),
		entry:        entry,
		target:       target,
		cancel:       cancel,
		trailingStop: targetTrailingStop,
		breakEven:    matchedCost,
		tag:          c.tag,
		label:        c.label,
	})
}
