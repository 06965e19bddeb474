package brokerage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/lotwatch/internal/clientdata"
	"github.com/aristath/lotwatch/internal/database"
	"github.com/aristath/lotwatch/internal/domain"
)

type stubFeed struct {
	quote      *domain.Quote
	quoteErr   error
	quoteCalls int
}

func (s *stubFeed) GetQuote(symbol string) (*domain.Quote, error) {
	s.quoteCalls++
	if s.quoteErr != nil {
		return nil, s.quoteErr
	}
	return s.quote, nil
}

func (s *stubFeed) GetTransactions(symbol string, quarters int) ([]domain.Transaction, error) {
	return nil, nil
}

func (s *stubFeed) GetHistoricalPrices(symbol string, days int) ([]domain.OHLCV, error) {
	return nil, nil
}

func (s *stubFeed) GetOptionContractCounts() (map[string]int, error) {
	return nil, nil
}

func testCache(t *testing.T) *clientdata.Repository {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := clientdata.NewRepository(db.Conn())
	require.NoError(t, repo.EnsureSchema())
	return repo
}

func TestCachedFeed_QuoteCacheHitSkipsAPI(t *testing.T) {
	feed := &stubFeed{quote: &domain.Quote{Symbol: "TEST", Price: 60, Quantity: 100}}
	log := zerolog.New(nil).Level(zerolog.Disabled)
	cached := NewCachedFeed(feed, testCache(t), log)

	first, err := cached.GetQuote("TEST")
	require.NoError(t, err)
	second, err := cached.GetQuote("TEST")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, feed.quoteCalls)
}

func TestCachedFeed_StaleFallbackOnError(t *testing.T) {
	cache := testCache(t)
	log := zerolog.New(nil).Level(zerolog.Disabled)

	// Seed an already-expired entry, then fail the API call.
	require.NoError(t, cache.Store("quotes", "TEST", domain.Quote{Symbol: "TEST", Price: 59}, -1))

	feed := &stubFeed{quoteErr: errors.New("API down")}
	cached := NewCachedFeed(feed, cache, log)

	quote, err := cached.GetQuote("TEST")

	require.NoError(t, err)
	assert.Equal(t, 59.0, quote.Price)
}

func TestCachedFeed_ErrorWithoutCachePropagates(t *testing.T) {
	feed := &stubFeed{quoteErr: errors.New("API down")}
	log := zerolog.New(nil).Level(zerolog.Disabled)
	cached := NewCachedFeed(feed, testCache(t), log)

	_, err := cached.GetQuote("TEST")

	require.Error(t, err)
}
