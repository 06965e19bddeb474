package calculators

import (
	"math"

	"github.com/aristath/lotwatch/internal/domain"
)

// MaxSharesSell liquidates everything tradeable at a price just above
// break-even, trailing the market down by exactly the cushion between
// the current price and a 1% gain.
type MaxSharesSell struct{}

// NewMaxSharesSell creates the max-shares sell calculator.
func NewMaxSharesSell() *MaxSharesSell {
	return &MaxSharesSell{}
}

// Name returns the candidate tag.
func (c *MaxSharesSell) Name() string {
	return "MaxShares"
}

func (c *MaxSharesSell) Calculate(ctx SellContext) *domain.SellCandidate {
	available := int(math.Floor(ctx.SharesAvailable))
	if available < 1 {
		return nil
	}

	cost, used := CostBasisForShares(available, ctx.Lots)
	if used < 1 {
		return nil
	}

	price := ctx.CurrentPrice
	profitableTarget := cost * 1.01
	trailingStop := (price - profitableTarget) / price * 100
	stopPrice := price * (1 - trailingStop/100)
	target := stopPrice + (cost-stopPrice)/2
	cancel := target * 0.95

	return buildSellCandidate(ctx, sellParams{
		shares:       float64(used),
		entry:        stopPrice,
		target:       target,
		cancel:       cancel,
		trailingStop: trailingStop,
		breakEven:    cost,
		tag:          c.Name(),
		label:        "Max Shares",
	})
}
