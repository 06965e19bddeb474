// Package lots reconstructs per-symbol tax lots from raw trade
// transaction history. The brokerage reports executed transactions but
// not lots, so the current lot set is replayed on demand from the history
// and the live share count.
package lots

import (
	"sort"
	"time"

	"github.com/aristath/lotwatch/internal/domain"
)

// minLotQuantity is the smallest remainder a partial lot split may leave
// behind. Remainders below this are dropped rather than kept as dust.
const minLotQuantity = 0.01

// holdingPeriodDays is the settlement/holding window: shares opened within
// this many days are not counted as available for trading.
const holdingPeriodDays = 30

// sharesPerContract is the number of shares covered by one written
// derivative contract.
const sharesPerContract = 100

// Result is the outcome of a lot reconstruction pass.
type Result struct {
	// Lots is the final open lot list, sorted ascending by open date.
	Lots []domain.TaxLotRecord

	// Remainder is the share count left unexplained after walking the
	// full transaction window. Positive means the window was too short.
	Remainder float64

	// Incomplete is set when the transaction window did not account for
	// the full current share count. The lot list is still best-effort.
	Incomplete bool
}

// Reconstruct replays the transaction history for a symbol against the
// current held share count and returns the open tax lots.
//
// Transactions are walked newest first, decrementing a running share count
// per trade leg until it reaches zero (within epsilon) or goes negative;
// older transactions beyond that point are irrelevant. The emitted records
// are then re-sorted chronologically and sells are matched against buys
// highest-cost-first (HIFO).
//
// The function is pure: identical inputs always produce an identical
// result, and it never fails: data-quality problems surface as the
// Incomplete flag or as dropped residuals, per the error taxonomy.
func Reconstruct(txs []domain.Transaction, symbol string, currentShareCount, currentPrice float64) Result {
	// Newest first. The feed usually delivers this order already, but the
	// walk depends on it, so sort defensively.
	sorted := make([]domain.Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TradeDate.After(sorted[j].TradeDate)
	})

	records, remainder := collectRecords(sorted, symbol, currentShareCount, currentPrice)

	// Chronological replay order: ascending open date, highest cost first
	// on the same day so HIFO matching sees expensive buys before sells
	// consume them.
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].OpenDate != records[j].OpenDate {
			return records[i].OpenDate < records[j].OpenDate
		}
		return records[i].CostPerShare > records[j].CostPerShare
	})

	lots := matchSells(records)

	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].OpenDate != lots[j].OpenDate {
			return lots[i].OpenDate < lots[j].OpenDate
		}
		return lots[i].CostPerShare > lots[j].CostPerShare
	})

	for i := range lots {
		lots[i].Refresh()
	}

	return Result{
		Lots:       lots,
		Remainder:  remainder,
		Incomplete: remainder > domain.Epsilon,
	}
}

// collectRecords walks transactions newest-first emitting one raw record
// per participating trade leg, stopping once the running share count is
// accounted for.
func collectRecords(txs []domain.Transaction, symbol string, currentShareCount, currentPrice float64) ([]domain.TaxLotRecord, float64) {
	running := currentShareCount
	var records []domain.TaxLotRecord

	for _, tx := range txs {
		if running < domain.Epsilon {
			break
		}
		openDate := tx.TradeDate.Format(domain.DateFormat)
		for _, leg := range tx.Legs {
			if leg.Symbol != symbol {
				continue
			}
			if leg.Amount == 0 || leg.Cost == 0 || leg.PricePerShare == 0 {
				continue
			}
			records = append(records, domain.NewTaxLotRecord(openDate, leg.Amount, leg.PricePerShare, currentPrice))
			running -= leg.Amount
		}
	}

	return records, running
}

// matchSells replays records chronologically, accumulating buys into a
// pending queue and consuming them highest-cost-first whenever a sell
// record is encountered.
func matchSells(records []domain.TaxLotRecord) []domain.TaxLotRecord {
	var buyQueue []domain.TaxLotRecord
	var residuals []domain.TaxLotRecord

	for _, rec := range records {
		if rec.Quantity > 0 {
			buyQueue = append(buyQueue, rec)
			continue
		}

		// A sell with no buy history at all is pre-history noise from a
		// truncated window; drop it silently.
		if len(buyQueue) == 0 {
			continue
		}

		sort.SliceStable(buyQueue, func(i, j int) bool {
			return buyQueue[i].CostPerShare > buyQueue[j].CostPerShare
		})

		remaining := -rec.Quantity
		for remaining > domain.Epsilon && len(buyQueue) > 0 {
			head := &buyQueue[0]
			if head.Quantity <= remaining+domain.Epsilon {
				remaining -= head.Quantity
				buyQueue = buyQueue[1:]
				continue
			}
			head.Quantity -= remaining
			remaining = 0
			if head.Quantity < minLotQuantity {
				// Too small to keep as a split remainder.
				buyQueue = buyQueue[1:]
			}
		}

		if remaining > domain.Epsilon {
			residual := rec
			residual.Quantity = -remaining
			residuals = append(residuals, residual)
		}
	}

	return append(buyQueue, residuals...)
}

// SharesAvailableForTrading sums the quantities of lots held longer than
// the holding period, then excludes shares covered by written derivative
// contracts.
func SharesAvailableForTrading(lotList []domain.TaxLotRecord, now time.Time, contracts int) float64 {
	cutoff := now.AddDate(0, 0, -holdingPeriodDays).Format(domain.DateFormat)

	available := 0.0
	for _, lot := range lotList {
		if lot.OpenDate < cutoff {
			available += lot.Quantity
		}
	}

	return available - float64(contracts)*sharesPerContract
}
