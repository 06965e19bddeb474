package calculators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestATRMultipleSell_TwoATR(t *testing.T) {
	ctx := sellCtx(60, 2, 100, lot(100, 50))

	c := NewATRMultipleSell(2).Calculate(ctx)

	require.NotNil(t, c)
	entry := 60 * 0.98
	assert.InDelta(t, entry, c.Entry, 1e-9)
	assert.InDelta(t, entry/1.04, c.Target, 1e-9)
	assert.InDelta(t, 4, c.TrailingStop, 1e-9)
	assert.InDelta(t, 1, c.Shares, 1e-9)
	assert.Equal(t, "2ATR", c.Tag)
}

func TestATRMultipleSell_OnePercentHigherTS(t *testing.T) {
	ctx := sellCtx(60, 2, 100, lot(100, 50))

	c := NewOnePercentHigherTSSell().Calculate(ctx)

	require.NotNil(t, c)
	entry := 60 * 0.98
	assert.InDelta(t, entry/1.03, c.Target, 1e-9)
	assert.InDelta(t, 3, c.TrailingStop, 1e-9)
	assert.Equal(t, "1%TS", c.Tag)
}

func TestATRMultipleSell_DeeperMultiplesNeedMoreShares(t *testing.T) {
	// A mix of expensive and cheap lots: deeper targets need more cheap
	// shares blended in to reach the 5% gain.
	lots := []struct{ qty, cost float64 }{{20, 56}, {200, 40}}
	ctx := sellCtx(60, 5, 250, lot(lots[0].qty, lots[0].cost), lot(lots[1].qty, lots[1].cost))

	shallow := NewATRMultipleSell(1.5).Calculate(ctx)
	deep := NewATRMultipleSell(5).Calculate(ctx)

	require.NotNil(t, shallow)
	require.NotNil(t, deep)
	assert.Less(t, deep.Target, shallow.Target)
	assert.GreaterOrEqual(t, deep.Shares, shallow.Shares)
}

func TestATRMultipleSell_GainUnreachable(t *testing.T) {
	// Every lot costs more than any achievable target.
	ctx := sellCtx(60, 2, 100, lot(100, 59))

	assert.Nil(t, NewATRMultipleSell(2).Calculate(ctx))
}
