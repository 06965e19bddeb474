package calculators

import (
	"math"

	"github.com/aristath/lotwatch/internal/domain"
)

// CostBasisForShares accumulates whole shares highest-cost-first until n
// shares are covered and returns the blended cost per share plus the
// actual share count used. The count may be smaller than n when the lots
// run out; fractional lot remainders are truncated.
func CostBasisForShares(n int, lotsHighestCostFirst []domain.TaxLotRecord) (float64, int) {
	if n <= 0 {
		return 0, 0
	}

	used := 0
	totalCost := 0.0
	for _, lot := range lotsHighestCostFirst {
		whole := int(math.Floor(lot.Quantity))
		if whole <= 0 {
			continue
		}
		take := whole
		if used+take > n {
			take = n - used
		}
		used += take
		totalCost += float64(take) * lot.CostPerShare
		if used >= n {
			break
		}
	}

	if used == 0 {
		return 0, 0
	}
	return totalCost / float64(used), used
}

// MinimumSharesForGain walks lots highest-cost-first accumulating one
// whole share at a time, recomputing the blended cost after each share,
// and returns the smallest share count whose blended gain at targetPrice
// reaches targetGainPercent.
//
// Returns the share count, the blended cost per share of the selection,
// and false when no prefix of the lots reaches the target gain.
func MinimumSharesForGain(targetGainPercent, targetPrice float64, lotsHighestCostFirst []domain.TaxLotRecord) (int, float64, bool) {
	shares := 0
	totalCost := 0.0

	for _, lot := range lotsHighestCostFirst {
		whole := int(math.Floor(lot.Quantity))
		for i := 0; i < whole; i++ {
			shares++
			totalCost += lot.CostPerShare

			blended := totalCost / float64(shares)
			if blended <= 0 {
				continue
			}
			gain := (targetPrice - blended) / blended * 100
			if gain >= targetGainPercent {
				return shares, blended, true
			}
		}
	}

	return 0, 0, false
}

// MinimumSharesForRemainingProfit walks lots highest-cost-first selling
// whole lots for as long as the remaining position's blended profit at
// currentPrice stays at or above targetProfitPercent. When selling a full
// lot would breach the floor, only the partial quantity that keeps the
// remainder exactly at the floor is sold, and the walk stops.
//
// Returns the shares to sell and the blended cost per share of the
// selection; ok is false when nothing can be sold without breaching the
// floor.
//
// The current calculators size by absolute gain via
// MinimumSharesForGain; this variant backs the older selection policy
// that preserved remaining-pool profit instead, and is kept for callers
// that want that behavior.
func MinimumSharesForRemainingProfit(targetProfitPercent, currentPrice float64, lotsHighestCostFirst []domain.TaxLotRecord) (float64, float64, bool) {
	remainingShares := 0.0
	remainingCost := 0.0
	for _, lot := range lotsHighestCostFirst {
		remainingShares += lot.Quantity
		remainingCost += lot.CostPerShare * lot.Quantity
	}

	soldShares := 0.0
	soldCost := 0.0

	for _, lot := range lotsHighestCostFirst {
		if lot.Quantity <= 0 {
			continue
		}

		afterShares := remainingShares - lot.Quantity
		afterCost := remainingCost - lot.CostPerShare*lot.Quantity

		if afterShares > domain.Epsilon && remainingProfit(afterCost, afterShares, currentPrice) >= targetProfitPercent {
			// Whole lot can go.
			soldShares += lot.Quantity
			soldCost += lot.CostPerShare * lot.Quantity
			remainingShares = afterShares
			remainingCost = afterCost
			continue
		}

		// Solve for the partial quantity q that leaves the remainder at
		// exactly the floor:
		//   (price - (cost - q*lotCost)/(shares - q)) / ((cost - q*lotCost)/(shares - q)) = g
		// rearranged to q = (cost*(1+g) - price*shares) / (lotCost*(1+g) - price).
		g := targetProfitPercent / 100
		denom := lot.CostPerShare*(1+g) - currentPrice
		if domain.IsNearZero(denom) {
			break
		}
		q := (remainingCost*(1+g) - currentPrice*remainingShares) / denom
		if q > domain.Epsilon && q <= lot.Quantity {
			// A solve that empties the pool is only acceptable when the
			// pool was already at or above the floor (uniform-cost case);
			// otherwise it would liquidate an underwater remainder.
			leftover := remainingShares - q
			if leftover > domain.Epsilon || remainingProfit(remainingCost, remainingShares, currentPrice) >= targetProfitPercent {
				soldShares += q
				soldCost += lot.CostPerShare * q
			}
		}
		break
	}

	if soldShares <= domain.Epsilon {
		return 0, 0, false
	}
	return soldShares, soldCost / soldShares, true
}

// remainingProfit returns the blended profit percent of a position with
// the given cost basis and share count at the given price.
func remainingProfit(costBasis, shares, price float64) float64 {
	if shares <= 0 || costBasis <= 0 {
		return 0
	}
	avg := costBasis / shares
	return (price - avg) / avg * 100
}
