package brokerage

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/lotwatch/internal/clientdata"
	"github.com/aristath/lotwatch/internal/domain"
)

// optionContractsKey caches the account-wide contract map under one key.
const optionContractsKey = "all"

// CachedFeed is a cache-first decorator around a transaction feed. Fresh
// cache entries short-circuit the API; on API failure it falls back to
// stale cache data rather than failing the caller.
type CachedFeed struct {
	inner domain.TransactionFeed
	cache *clientdata.Repository
	log   zerolog.Logger

	// Cache lifetimes, overridable from configuration.
	QuoteTTL   time.Duration
	HistoryTTL time.Duration
}

// NewCachedFeed wraps a feed with the cache repository.
func NewCachedFeed(inner domain.TransactionFeed, cache *clientdata.Repository, log zerolog.Logger) *CachedFeed {
	return &CachedFeed{
		inner:      inner,
		cache:      cache,
		log:        log.With().Str("component", "cached_feed").Logger(),
		QuoteTTL:   clientdata.TTLQuote,
		HistoryTTL: clientdata.TTLPriceHistory,
	}
}

// GetQuote returns a cached quote when fresh, otherwise fetches and
// caches it.
func (f *CachedFeed) GetQuote(symbol string) (*domain.Quote, error) {
	var cached domain.Quote
	if hit, err := f.cache.GetIfFresh("quotes", symbol, &cached); err == nil && hit {
		return &cached, nil
	}

	quote, err := f.inner.GetQuote(symbol)
	if err != nil {
		// Stale quote beats no quote.
		if hit, cacheErr := f.cache.Get("quotes", symbol, &cached); cacheErr == nil && hit {
			f.log.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed, serving stale cache")
			return &cached, nil
		}
		return nil, err
	}

	if err := f.cache.Store("quotes", symbol, quote, f.QuoteTTL); err != nil {
		f.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache quote")
	}
	return quote, nil
}

// GetTransactions returns cached history per symbol-and-window when
// fresh, otherwise fetches and caches it.
func (f *CachedFeed) GetTransactions(symbol string, quarters int) ([]domain.Transaction, error) {
	key := fmt.Sprintf("%s:%dq", symbol, quarters)

	var cached []domain.Transaction
	if hit, err := f.cache.GetIfFresh("transactions", key, &cached); err == nil && hit {
		return cached, nil
	}

	txs, err := f.inner.GetTransactions(symbol, quarters)
	if err != nil {
		if hit, cacheErr := f.cache.Get("transactions", key, &cached); cacheErr == nil && hit {
			f.log.Warn().Err(err).Str("symbol", symbol).Msg("Transaction fetch failed, serving stale cache")
			return cached, nil
		}
		return nil, err
	}

	if err := f.cache.Store("transactions", key, txs, clientdata.TTLTransactions); err != nil {
		f.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache transactions")
	}
	return txs, nil
}

// GetHistoricalPrices returns cached bars when fresh, otherwise fetches
// and caches them.
func (f *CachedFeed) GetHistoricalPrices(symbol string, days int) ([]domain.OHLCV, error) {
	key := fmt.Sprintf("%s:%dd", symbol, days)

	var cached []domain.OHLCV
	if hit, err := f.cache.GetIfFresh("price_history", key, &cached); err == nil && hit {
		return cached, nil
	}

	bars, err := f.inner.GetHistoricalPrices(symbol, days)
	if err != nil {
		if hit, cacheErr := f.cache.Get("price_history", key, &cached); cacheErr == nil && hit {
			f.log.Warn().Err(err).Str("symbol", symbol).Msg("History fetch failed, serving stale cache")
			return cached, nil
		}
		return nil, err
	}

	if err := f.cache.Store("price_history", key, bars, f.HistoryTTL); err != nil {
		f.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to cache price history")
	}
	return bars, nil
}

// GetOptionContractCounts returns the cached contract map when fresh,
// otherwise fetches and caches it.
func (f *CachedFeed) GetOptionContractCounts() (map[string]int, error) {
	var cached map[string]int
	if hit, err := f.cache.GetIfFresh("option_contracts", optionContractsKey, &cached); err == nil && hit {
		return cached, nil
	}

	counts, err := f.inner.GetOptionContractCounts()
	if err != nil {
		if hit, cacheErr := f.cache.Get("option_contracts", optionContractsKey, &cached); cacheErr == nil && hit {
			f.log.Warn().Err(err).Msg("Contract count fetch failed, serving stale cache")
			return cached, nil
		}
		return nil, err
	}

	if err := f.cache.Store("option_contracts", optionContractsKey, counts, clientdata.TTLOptionContracts); err != nil {
		f.log.Warn().Err(err).Msg("Failed to cache contract counts")
	}
	return counts, nil
}
