package calculators

import (
	"fmt"
	"math"

	"github.com/aristath/lotwatch/internal/domain"
)

// TopNSell sizes a sell of the N highest-cost shares. When the weighted
// cost of those shares is below the current price the order is priced at
// the midpoint; otherwise an UNPROFITABLE fallback is emitted that exits
// the position ATR-deep below the market.
type TopNSell struct {
	n int
}

// NewTopNSell creates a Top-N sell calculator for the given share count.
func NewTopNSell(n int) *TopNSell {
	return &TopNSell{n: n}
}

// Name returns the candidate tag, e.g. "Top100".
func (c *TopNSell) Name() string {
	return fmt.Sprintf("Top%d", c.n)
}

// Calculate requires the position to hold at least N shares.
func (c *TopNSell) Calculate(ctx SellContext) *domain.SellCandidate {
	if ctx.TotalShares < float64(c.n) {
		return nil
	}

	costN, used := CostBasisForShares(c.n, ctx.Lots)
	if used < c.n {
		return nil
	}

	price := ctx.CurrentPrice
	atr := ctx.ATRPercent

	var entry, target, trailingStop float64
	unprofitable := price <= costN
	if !unprofitable {
		target = (price + costN) / 2
		entry = (price-costN)/4 + target
		trailingStop = (entry - target) / target * 100
	} else {
		entry = price * (1 - atr/100)
		target = entry * (1 - 2*atr/100)
		trailingStop = atr
	}

	cancel := math.Max(target*(1-2*atr/100), costN)

	return buildSellCandidate(ctx, sellParams{
		shares:       float64(c.n),
		entry:        entry,
		target:       target,
		cancel:       cancel,
		trailingStop: trailingStop,
		breakEven:    costN,
		tag:          c.Name(),
		label:        fmt.Sprintf("Top %d", c.n),
		unprofitable: unprofitable,
	})
}
