package domain

// TransactionFeed defines broker-agnostic read access to the data the
// core computations need. It abstracts the brokerage HTTP client so the
// lot reconstructor and recommendation engine can be tested against
// in-memory fakes.
//
// Authentication, token refresh, and payload caching live behind the
// implementation; the core never sees them.
type TransactionFeed interface {
	// GetTransactions returns trade transactions for a symbol covering the
	// given number of calendar quarters back from now, newest first.
	GetTransactions(symbol string, quarters int) ([]Transaction, error)

	// GetQuote returns the current price and held share count for a symbol.
	GetQuote(symbol string) (*Quote, error)

	// GetHistoricalPrices returns daily OHLCV bars, oldest first.
	GetHistoricalPrices(symbol string, days int) ([]OHLCV, error)

	// GetOptionContractCounts returns the number of derivative contracts
	// written per symbol. Each contract covers 100 shares, which are
	// excluded from the shares available for trading.
	GetOptionContractCounts() (map[string]int, error)
}
