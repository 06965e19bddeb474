package clientdata

import "time"

// TTL constants for the cached brokerage data. These are added to
// time.Now() when storing to calculate expires_at.
const (
	// Quotes move constantly; keep them just long enough to serve a
	// burst of recommendation runs.
	TTLQuote = 10 * time.Minute

	// Transaction history only grows at the pace of actual trading.
	TTLTransactions = time.Hour

	// Daily bars change once per session.
	TTLPriceHistory = 4 * time.Hour

	// Open derivative positions change rarely.
	TTLOptionContracts = time.Hour
)
