// Package calculators implements the deterministic order-sizing
// algorithms. Each calculator is a pure function of a fixed snapshot
// (lots, price, ATR, caps) returning zero or one candidate order; the
// registry fans them out concurrently and merges the results.
package calculators

import (
	"fmt"

	"github.com/aristath/lotwatch/internal/domain"
)

// Trailing-stop bounds shared by every candidate. Anything outside is
// rejected, never clamped, on the sell side.
const (
	MinTrailingStop = 0.1
	MaxTrailingStop = 50.0
)

// SellContext is the fixed snapshot a sell calculator computes from.
// Lots are sorted by cost per share descending; calculators must not
// mutate the slice.
type SellContext struct {
	Symbol          string
	CurrentPrice    float64
	Lots            []domain.TaxLotRecord // cost-per-share descending
	ATRPercent      float64
	SharesAvailable float64
	TotalShares     float64
	TotalCost       float64 // cost basis dollars across all lots
}

// AverageCost returns the blended cost per share of the whole position.
func (ctx *SellContext) AverageCost() float64 {
	if ctx.TotalShares <= 0 {
		return 0
	}
	return ctx.TotalCost / ctx.TotalShares
}

// ProfitPercent returns the blended profit of the whole position at the
// current price.
func (ctx *SellContext) ProfitPercent() float64 {
	avg := ctx.AverageCost()
	if avg <= 0 {
		return 0
	}
	return (ctx.CurrentPrice - avg) / avg * 100
}

// BuyContext is the fixed snapshot a buy calculator computes from.
type BuyContext struct {
	Symbol       string
	CurrentPrice float64
	Lots         []domain.TaxLotRecord
	ATRPercent   float64
	TotalShares  float64
	TotalCost    float64
}

// AverageCost returns the blended cost per share of the whole position.
func (ctx *BuyContext) AverageCost() float64 {
	if ctx.TotalShares <= 0 {
		return 0
	}
	return ctx.TotalCost / ctx.TotalShares
}

// CurrentGainPercent returns the position's unrealized gain at the
// current price.
func (ctx *BuyContext) CurrentGainPercent() float64 {
	avg := ctx.AverageCost()
	if avg <= 0 {
		return 0
	}
	return (ctx.CurrentPrice - avg) / avg * 100
}

// SellCalculator produces zero or one sell order candidate from the
// snapshot. A nil result means the algorithm is inapplicable; calculators
// never return errors and never perform I/O.
type SellCalculator interface {
	// Name returns the candidate tag this calculator produces.
	Name() string

	// Calculate returns a candidate or nil.
	Calculate(ctx SellContext) *domain.SellCandidate
}

// BuyCalculator produces zero or one buy order candidate from the snapshot.
type BuyCalculator interface {
	Name() string
	Calculate(ctx BuyContext) *domain.BuyCandidate
}

// sellParams carries the raw numbers of a computed sell order into
// validation and assembly.
type sellParams struct {
	shares       float64
	entry        float64
	target       float64
	cancel       float64
	trailingStop float64
	breakEven    float64
	tag          string
	label        string
	unprofitable bool // explicitly labeled UNPROFITABLE fallback
}

// buildSellCandidate validates the shared numeric policy and assembles
// the candidate. Returns nil when any bound is violated:
// trailing stop within [0.1, 50], shares within [1, sharesAvailable],
// and target strictly above break-even unless explicitly unprofitable.
func buildSellCandidate(ctx SellContext, p sellParams) *domain.SellCandidate {
	if p.trailingStop < MinTrailingStop || p.trailingStop > MaxTrailingStop {
		return nil
	}
	if p.shares < 1 || p.shares > ctx.SharesAvailable {
		return nil
	}
	if !p.unprofitable && p.target <= p.breakEven {
		return nil
	}

	gain := 0.0
	if p.breakEven > 0 {
		gain = (p.target - p.breakEven) / p.breakEven * 100
	}

	label := p.label
	if p.unprofitable {
		label += " UNPROFITABLE"
	}

	return &domain.SellCandidate{
		Symbol:          ctx.Symbol,
		Shares:          p.shares,
		Entry:           p.entry,
		Target:          p.target,
		Cancel:          p.cancel,
		TrailingStop:    p.trailingStop,
		BreakEven:       p.breakEven,
		Gain:            gain,
		RollingGainLoss: (p.target - p.breakEven) * p.shares,
		Tag:             p.tag,
		Description: fmt.Sprintf("(%s) SELL -%.0f %s Target %.2f TS %.2f%% Cost/Share %.2f",
			label, p.shares, ctx.Symbol, p.target, p.trailingStop, p.breakEven),
	}
}

// buyParams carries the raw numbers of a computed buy order into
// validation and assembly.
type buyParams struct {
	shares            float64
	targetBuyPrice    float64
	entryPrice        float64
	trailingStop      float64
	targetGainPercent float64
	tag               string
	label             string
	isImmediate       bool
	preferDayDuration bool
}

// maxBuyOrderCost caps every buy order's notional value.
const maxBuyOrderCost = 2000.0

// buildBuyCandidate validates the buy-side policy ($2000 notional cap,
// [0.1, 50] trailing stop) and assembles the candidate.
func buildBuyCandidate(ctx BuyContext, p buyParams) *domain.BuyCandidate {
	if p.trailingStop < MinTrailingStop || p.trailingStop > MaxTrailingStop {
		return nil
	}
	if p.shares < 1 {
		return nil
	}

	orderCost := p.shares * p.targetBuyPrice
	if orderCost >= maxBuyOrderCost {
		return nil
	}

	return &domain.BuyCandidate{
		Symbol:             ctx.Symbol,
		Shares:             p.shares,
		TargetBuyPrice:     p.targetBuyPrice,
		EntryPrice:         p.entryPrice,
		TrailingStop:       p.trailingStop,
		TargetGainPercent:  p.targetGainPercent,
		CurrentGainPercent: ctx.CurrentGainPercent(),
		OrderCost:          orderCost,
		Tag:                p.tag,
		IsImmediate:        p.isImmediate,
		PreferDayDuration:  p.preferDayDuration,
		Description: fmt.Sprintf("BUY %.0f %s (%s) Target=%.2f TS=%.2f%% Gain=%.2f%% Cost=%.2f",
			p.shares, ctx.Symbol, p.label, p.targetBuyPrice, p.trailingStop, p.targetGainPercent, orderCost),
	}
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
