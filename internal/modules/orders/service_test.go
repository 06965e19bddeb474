package orders

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lotwatch/internal/domain"
	"github.com/aristath/lotwatch/internal/modules/lots"
)

type mockSnapshots struct {
	snap *lots.Snapshot
	err  error
}

func (m *mockSnapshots) GetSnapshot(symbol string) (*lots.Snapshot, error) {
	return m.snap, m.err
}

type mockPriceFeed struct {
	bars    []domain.OHLCV
	barsErr error
}

func (m *mockPriceFeed) GetTransactions(symbol string, quarters int) ([]domain.Transaction, error) {
	return nil, nil
}

func (m *mockPriceFeed) GetQuote(symbol string) (*domain.Quote, error) {
	return nil, nil
}

func (m *mockPriceFeed) GetHistoricalPrices(symbol string, days int) ([]domain.OHLCV, error) {
	if m.barsErr != nil {
		return nil, m.barsErr
	}
	return m.bars, nil
}

func (m *mockPriceFeed) GetOptionContractCounts() (map[string]int, error) {
	return nil, nil
}

// constantRangeBars yields bars whose true range is a fixed percent of
// the close, pinning the ATR for assertions.
func constantRangeBars(n int, close, rangePct float64) []domain.OHLCV {
	bars := make([]domain.OHLCV, n)
	for i := range bars {
		bars[i] = domain.OHLCV{
			High:  close * (1 + rangePct/100),
			Low:   close,
			Close: close,
		}
	}
	return bars
}

func testOrdersService(snap *mockSnapshots, feed *mockPriceFeed) *Service {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	s := NewService(snap, feed, log)
	s.newID = func() string { return "run-1" }
	return s
}

func testSnapshot() *lots.Snapshot {
	return &lots.Snapshot{
		Symbol:          "TEST",
		CurrentPrice:    60,
		TotalShares:     100,
		Lots:            []domain.TaxLotRecord{{Quantity: 100, CostPerShare: 50}},
		SharesAvailable: 100,
	}
}

func TestGetRecommendations_Success(t *testing.T) {
	snaps := &mockSnapshots{snap: testSnapshot()}
	feed := &mockPriceFeed{bars: constantRangeBars(30, 60, 2)}

	rec, err := testOrdersService(snaps, feed).GetRecommendations("TEST")

	require.NoError(t, err)
	assert.Equal(t, "run-1", rec.RunID)
	assert.InDelta(t, 2, rec.ATRPercent, 0.05)
	require.NotEmpty(t, rec.Sells)
	require.NotEmpty(t, rec.Buys)

	// The Top-100 midpoint candidate is present with the full position.
	var top *domain.SellCandidate
	for i := range rec.Sells {
		if rec.Sells[i].Tag == "Top100" {
			top = &rec.Sells[i]
		}
	}
	require.NotNil(t, top)
	assert.InDelta(t, 100, top.Shares, 1e-9)
	assert.InDelta(t, 55, top.Target, 1e-9)

	combined := rec.Candidates()
	assert.Len(t, combined, len(rec.Sells)+len(rec.Buys))
	assert.Equal(t, domain.CandidateKindSell, combined[0].Kind)
}

func TestGetRecommendations_ATROutOfRange(t *testing.T) {
	snaps := &mockSnapshots{snap: testSnapshot()}
	feed := &mockPriceFeed{bars: constantRangeBars(30, 60, 60)}

	rec, err := testOrdersService(snaps, feed).GetRecommendations("TEST")

	require.NoError(t, err)
	assert.Empty(t, rec.Sells)
	assert.Empty(t, rec.Buys)
}

func TestGetRecommendations_EmptyLots(t *testing.T) {
	snap := testSnapshot()
	snap.Lots = nil
	snaps := &mockSnapshots{snap: snap}
	feed := &mockPriceFeed{bars: constantRangeBars(30, 60, 2)}

	rec, err := testOrdersService(snaps, feed).GetRecommendations("TEST")

	require.NoError(t, err)
	assert.Empty(t, rec.Sells)
	assert.Empty(t, rec.Buys)
}

func TestGetRecommendations_NothingTradeable(t *testing.T) {
	snap := testSnapshot()
	snap.SharesAvailable = 0
	snaps := &mockSnapshots{snap: snap}
	feed := &mockPriceFeed{bars: constantRangeBars(30, 60, 2)}

	rec, err := testOrdersService(snaps, feed).GetRecommendations("TEST")

	require.NoError(t, err)
	assert.Empty(t, rec.Sells)
	assert.Empty(t, rec.Buys)
}

func TestGetRecommendations_SnapshotError(t *testing.T) {
	snaps := &mockSnapshots{err: errors.New("quote failed")}
	feed := &mockPriceFeed{}

	_, err := testOrdersService(snaps, feed).GetRecommendations("TEST")

	require.Error(t, err)
}

func TestGetRecommendations_HistoryErrorYieldsEmptyLists(t *testing.T) {
	snaps := &mockSnapshots{snap: testSnapshot()}
	feed := &mockPriceFeed{barsErr: errors.New("history unavailable")}

	rec, err := testOrdersService(snaps, feed).GetRecommendations("TEST")

	require.NoError(t, err)
	assert.Empty(t, rec.Sells)
	assert.Empty(t, rec.Buys)
}

func TestGetRecommendations_IncompleteFlagPropagates(t *testing.T) {
	snap := testSnapshot()
	snap.Incomplete = true
	snaps := &mockSnapshots{snap: snap}
	feed := &mockPriceFeed{bars: constantRangeBars(30, 60, 2)}

	rec, err := testOrdersService(snaps, feed).GetRecommendations("TEST")

	require.NoError(t, err)
	assert.True(t, rec.Incomplete)
}
