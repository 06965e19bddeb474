package calculators

import (
	"sort"
	"sync"

	"github.com/aristath/lotwatch/internal/domain"
)

// Registry holds the calculator set and evaluates it against a snapshot.
// Calculators are pure, so evaluation fans out one goroutine per
// calculator over the shared context and joins before merging.
type Registry struct {
	sells []SellCalculator
	buys  []BuyCalculator
}

// NewRegistry returns a registry with the full calculator set.
func NewRegistry() *Registry {
	r := &Registry{}

	for _, n := range []int{100, 200, 300, 400} {
		r.RegisterSell(NewTopNSell(n))
	}
	r.RegisterSell(NewMinATRSell())
	r.RegisterSell(NewMinBreakEvenSell())
	r.RegisterSell(NewOnePercentHigherTSSell())
	for _, m := range []float64{1.5, 2, 3, 4, 5} {
		r.RegisterSell(NewATRMultipleSell(m))
	}
	r.RegisterSell(NewMaxSharesSell())

	for _, pct := range []float64{1, 5, 10, 15, 25, 50} {
		r.RegisterBuy(NewPercentageBuy(pct))
	}
	r.RegisterBuy(NewBudgetBuy())
	r.RegisterBuy(NewSingleShareBuy())
	r.RegisterBuy(NewDayBuy())
	r.RegisterBuy(NewRecoveryBuy())

	return r
}

// RegisterSell appends a sell calculator.
func (r *Registry) RegisterSell(c SellCalculator) {
	r.sells = append(r.sells, c)
}

// RegisterBuy appends a buy calculator.
func (r *Registry) RegisterBuy(c BuyCalculator) {
	r.buys = append(r.buys, c)
}

// EvaluateSells runs every sell calculator concurrently over the
// snapshot and returns the merged candidates sorted by shares descending
// then trailing stop ascending.
func (r *Registry) EvaluateSells(ctx SellContext) []domain.SellCandidate {
	results := make([]*domain.SellCandidate, len(r.sells))

	var wg sync.WaitGroup
	for i, calc := range r.sells {
		wg.Add(1)
		go func(i int, calc SellCalculator) {
			defer wg.Done()
			results[i] = calc.Calculate(ctx)
		}(i, calc)
	}
	wg.Wait()

	candidates := make([]domain.SellCandidate, 0, len(results))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Shares != candidates[b].Shares {
			return candidates[a].Shares > candidates[b].Shares
		}
		return candidates[a].TrailingStop < candidates[b].TrailingStop
	})
	return candidates
}

// EvaluateBuys runs every buy calculator concurrently over the snapshot,
// drops percentage buys that resolve to a share count an earlier
// percentage already produced, and returns the rest sorted by shares
// ascending then trailing stop descending.
func (r *Registry) EvaluateBuys(ctx BuyContext) []domain.BuyCandidate {
	results := make([]*domain.BuyCandidate, len(r.buys))

	var wg sync.WaitGroup
	for i, calc := range r.buys {
		wg.Add(1)
		go func(i int, calc BuyCalculator) {
			defer wg.Done()
			results[i] = calc.Calculate(ctx)
		}(i, calc)
	}
	wg.Wait()

	seenPercentageShares := make(map[int]bool)
	candidates := make([]domain.BuyCandidate, 0, len(results))
	for i, c := range results {
		if c == nil {
			continue
		}
		if _, isPct := r.buys[i].(*PercentageBuy); isPct {
			n := int(c.Shares)
			if seenPercentageShares[n] {
				continue
			}
			seenPercentageShares[n] = true
		}
		candidates = append(candidates, *c)
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Shares != candidates[b].Shares {
			return candidates[a].Shares < candidates[b].Shares
		}
		return candidates[a].TrailingStop > candidates[b].TrailingStop
	})
	return candidates
}
