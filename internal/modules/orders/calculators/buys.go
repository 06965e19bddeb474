package calculators

import (
	"fmt"
	"math"

	"github.com/aristath/lotwatch/internal/domain"
)

const (
	// atrGainMultiplier scales the ATR into the target blended gain of a
	// percentage buy, bounded to [5, 35] percent.
	atrGainMultiplier = 3.0

	minBuyTargetGain = 5.0
	maxBuyTargetGain = 35.0

	// Percentage-buy target prices must land within this band around the
	// current price; the raw closed-form solution is clamped into it.
	buyBandLow  = 1.05
	buyBandHigh = 1.30

	// lowPriceBudget funds the budget buy for cheaper securities.
	lowPriceBudget    = 500.0
	lowPriceThreshold = 350.0
)

// buyTargetGain returns the ATR-scaled blended gain a percentage buy
// aims the averaged-up position at.
func buyTargetGain(atr float64) float64 {
	return clamp(atr*atrGainMultiplier, minBuyTargetGain, maxBuyTargetGain)
}

// solveTargetBuyPrice solves for the buy price at which adding
// sharesToBuy leaves the blended position exactly targetGainPercent
// above its new blended cost. Returns false when the denominator is not
// positive and no such price exists.
func solveTargetBuyPrice(totalCost, totalShares, sharesToBuy, targetGainPercent float64) (float64, bool) {
	g := targetGainPercent / 100
	denom := (totalShares + sharesToBuy) - sharesToBuy*(1+g)
	if denom <= 0 {
		return 0, false
	}
	return totalCost * (1 + g) / denom, true
}

// PercentageBuy averages up by a fixed fraction of the current holding.
// The target buy price is solved in closed form so the blended position
// sits exactly targetGain% above its new blended cost, then clamped into
// the [105%, 130%] band around the market.
type PercentageBuy struct {
	percent float64
}

// NewPercentageBuy creates a percentage buy; percent 1 buys a single
// share, larger values buy that fraction of the holding.
func NewPercentageBuy(percent float64) *PercentageBuy {
	return &PercentageBuy{percent: percent}
}

// Name returns the candidate tag, e.g. "Buy10%".
func (c *PercentageBuy) Name() string {
	return fmt.Sprintf("Buy%g%%", c.percent)
}

func (c *PercentageBuy) Calculate(ctx BuyContext) *domain.BuyCandidate {
	if ctx.TotalShares <= 0 {
		return nil
	}

	shares := 1.0
	if c.percent > 1 {
		shares = math.Floor(ctx.TotalShares * c.percent / 100)
	}
	if shares < 1 {
		return nil
	}

	gain := buyTargetGain(ctx.ATRPercent)
	raw, ok := solveTargetBuyPrice(ctx.TotalCost, ctx.TotalShares, shares, gain)
	if !ok {
		return nil
	}

	target := clamp(raw, ctx.CurrentPrice*buyBandLow, ctx.CurrentPrice*buyBandHigh)
	trailingStop := clamp(2*ctx.ATRPercent, 1, 15)
	entry := target * (1 - ctx.ATRPercent/100)

	return buildBuyCandidate(ctx, buyParams{
		shares:            shares,
		targetBuyPrice:    target,
		entryPrice:        entry,
		trailingStop:      trailingStop,
		targetGainPercent: gain,
		tag:               c.Name(),
		label:             fmt.Sprintf("%g%%", c.percent),
	})
}

// BudgetBuy spends a fixed dollar budget on lower-priced securities.
type BudgetBuy struct{}

// NewBudgetBuy creates the $500 budget buy.
func NewBudgetBuy() *BudgetBuy {
	return &BudgetBuy{}
}

// Name returns the candidate tag.
func (c *BudgetBuy) Name() string {
	return "Buy$500"
}

func (c *BudgetBuy) Calculate(ctx BuyContext) *domain.BuyCandidate {
	if ctx.TotalShares <= 0 || ctx.CurrentPrice >= lowPriceThreshold {
		return nil
	}

	target := ctx.CurrentPrice * buyBandLow
	shares := math.Floor(lowPriceBudget / target)
	if shares < 1 {
		return nil
	}

	return buildBuyCandidate(ctx, buyParams{
		shares:            shares,
		targetBuyPrice:    target,
		entryPrice:        target * (1 - ctx.ATRPercent/100),
		trailingStop:      clamp(2*ctx.ATRPercent, 1, 15),
		targetGainPercent: buyTargetGain(ctx.ATRPercent),
		tag:               c.Name(),
		label:             "$500",
	})
}

// SingleShareBuy adds one share with a wide ATR-padded trailing stop.
type SingleShareBuy struct{}

// NewSingleShareBuy creates the fixed one-share buy.
func NewSingleShareBuy() *SingleShareBuy {
	return &SingleShareBuy{}
}

// Name returns the candidate tag.
func (c *SingleShareBuy) Name() string {
	return "Buy1"
}

func (c *SingleShareBuy) Calculate(ctx BuyContext) *domain.BuyCandidate {
	if ctx.TotalShares <= 0 {
		return nil
	}

	target := ctx.CurrentPrice * buyBandLow

	return buildBuyCandidate(ctx, buyParams{
		shares:            1,
		targetBuyPrice:    target,
		entryPrice:        target * (1 - ctx.ATRPercent/100),
		trailingStop:      clamp(5+ctx.ATRPercent, MinTrailingStop, MaxTrailingStop),
		targetGainPercent: buyTargetGain(ctx.ATRPercent),
		tag:               c.Name(),
		label:             "1 Share",
	})
}

// DayBuy is an immediate one-share order meant to fill the same session:
// a pinned 0.95% trailing stop and a target two percent over the market.
type DayBuy struct{}

// NewDayBuy creates the "5% DAY" one-share buy.
func NewDayBuy() *DayBuy {
	return &DayBuy{}
}

// Name returns the candidate tag.
func (c *DayBuy) Name() string {
	return "Buy5%DAY"
}

func (c *DayBuy) Calculate(ctx BuyContext) *domain.BuyCandidate {
	if ctx.TotalShares <= 0 {
		return nil
	}

	target := ctx.CurrentPrice * 1.02

	return buildBuyCandidate(ctx, buyParams{
		shares:            1,
		targetBuyPrice:    target,
		entryPrice:        ctx.CurrentPrice,
		trailingStop:      0.95,
		targetGainPercent: 2.0,
		tag:               c.Name(),
		label:             "5% DAY",
		isImmediate:       true,
		preferDayDuration: true,
	})
}

// RecoveryBuy averages down one share when the position is under water,
// widening the trailing stop with the depth of the loss.
type RecoveryBuy struct{}

// NewRecoveryBuy creates the recovery buy.
func NewRecoveryBuy() *RecoveryBuy {
	return &RecoveryBuy{}
}

// Name returns the candidate tag.
func (c *RecoveryBuy) Name() string {
	return "BuyRecovery"
}

func (c *RecoveryBuy) Calculate(ctx BuyContext) *domain.BuyCandidate {
	if ctx.TotalShares <= 0 {
		return nil
	}
	pl := ctx.CurrentGainPercent()
	if pl >= 0 {
		return nil
	}

	target := ctx.CurrentPrice * buyBandLow

	return buildBuyCandidate(ctx, buyParams{
		shares:            1,
		targetBuyPrice:    target,
		entryPrice:        target * (1 - ctx.ATRPercent/100),
		trailingStop:      clamp(math.Abs(pl)+3*ctx.ATRPercent, MinTrailingStop, MaxTrailingStop),
		targetGainPercent: buyTargetGain(ctx.ATRPercent),
		tag:               c.Name(),
		label:             "Recovery",
	})
}
