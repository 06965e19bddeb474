package calculators

import (
	"strings"
	"testing"

	"github.com/aristath/lotwatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_EvaluateSellsSortedAndBounded(t *testing.T) {
	ctx := sellCtx(60, 2, 100, lot(100, 50))

	candidates := NewRegistry().EvaluateSells(ctx)

	require.NotEmpty(t, candidates)
	for i, c := range candidates {
		assert.GreaterOrEqual(t, c.TrailingStop, MinTrailingStop)
		assert.LessOrEqual(t, c.TrailingStop, MaxTrailingStop)
		assert.GreaterOrEqual(t, c.Shares, 1.0)
		assert.LessOrEqual(t, c.Shares, ctx.SharesAvailable)
		if !strings.Contains(c.Description, "UNPROFITABLE") {
			assert.Greater(t, c.Target, c.BreakEven, "tag %s", c.Tag)
		}
		if i > 0 {
			prev := candidates[i-1]
			if prev.Shares == c.Shares {
				assert.LessOrEqual(t, prev.TrailingStop, c.TrailingStop)
			} else {
				assert.Greater(t, prev.Shares, c.Shares)
			}
		}
	}
}

func TestRegistry_EvaluateSellsIdempotent(t *testing.T) {
	ctx := sellCtx(60, 2, 100, lot(60, 55), lot(40, 45))
	reg := NewRegistry()

	first := reg.EvaluateSells(ctx)
	second := reg.EvaluateSells(ctx)

	assert.Equal(t, first, second)
}

func TestRegistry_EvaluateBuysSortedAndDeduped(t *testing.T) {
	ctx := BuyContext{
		Symbol:       "TEST",
		CurrentPrice: 50,
		ATRPercent:   3,
		TotalShares:  30,
		TotalCost:    30 * 45,
	}

	candidates := NewRegistry().EvaluateBuys(ctx)

	require.NotEmpty(t, candidates)

	// 1% and 5% of 30 shares both resolve to a single share; only the
	// first survives among the percentage buys.
	pctShareCounts := make(map[int]int)
	for _, c := range candidates {
		if strings.HasSuffix(c.Tag, "%") && strings.HasPrefix(c.Tag, "Buy") && c.Tag != "Buy5%DAY" {
			pctShareCounts[int(c.Shares)]++
		}
	}
	for n, count := range pctShareCounts {
		assert.Equal(t, 1, count, "duplicate percentage buy for %d shares", n)
	}

	for i := 1; i < len(candidates); i++ {
		prev, cur := candidates[i-1], candidates[i]
		if prev.Shares == cur.Shares {
			assert.GreaterOrEqual(t, prev.TrailingStop, cur.TrailingStop)
		} else {
			assert.Less(t, prev.Shares, cur.Shares)
		}
	}
}

func TestRegistry_EvaluateBuysIdempotent(t *testing.T) {
	ctx := BuyContext{
		Symbol:       "TEST",
		CurrentPrice: 50,
		ATRPercent:   3,
		TotalShares:  100,
		TotalCost:    100 * 45,
	}
	reg := NewRegistry()

	first := reg.EvaluateBuys(ctx)
	second := reg.EvaluateBuys(ctx)

	assert.Equal(t, first, second)
}

func TestRegistry_EmptyLots(t *testing.T) {
	reg := NewRegistry()

	sells := reg.EvaluateSells(sellCtx(60, 2, 0))
	assert.Empty(t, sells)

	buys := reg.EvaluateBuys(BuyContext{Symbol: "TEST", CurrentPrice: 60, ATRPercent: 2})
	assert.Empty(t, buys)
}

// Candidate lists convert cleanly into the tagged order union.
func TestRegistry_CandidatesWrapIntoOrderCandidates(t *testing.T) {
	reg := NewRegistry()
	sells := reg.EvaluateSells(sellCtx(60, 2, 100, lot(100, 50)))
	require.NotEmpty(t, sells)

	wrapped := domain.NewSellOrderCandidate(sells[0])
	assert.Equal(t, domain.CandidateKindSell, wrapped.Kind)
	require.NotNil(t, wrapped.Sell)
	assert.Equal(t, sells[0].Tag, wrapped.Sell.Tag)
}
