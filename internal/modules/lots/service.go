package lots

import (
	"fmt"
	"time"

	"github.com/aristath/lotwatch/internal/domain"
	"github.com/rs/zerolog"
)

const (
	// initialLookbackQuarters is the transaction window requested on the
	// first reconstruction attempt.
	initialLookbackQuarters = 4

	// lookbackStepQuarters widens the window between attempts when the
	// walk cannot account for the full share count.
	lookbackStepQuarters = 4

	// maxFetchAttempts bounds the re-fetch loop.
	maxFetchAttempts = 5

	// retryBackoff is the fixed delay between re-fetch attempts.
	retryBackoff = 2 * time.Second
)

// Snapshot is the fixed input the recommendation engine computes from:
// the reconstructed lots plus position totals. Building it is the only
// fetch-dependent step in the core.
type Snapshot struct {
	Symbol          string                `json:"symbol"`
	CurrentPrice    float64               `json:"current_price"`
	TotalShares     float64               `json:"total_shares"`
	Lots            []domain.TaxLotRecord `json:"lots"`
	SharesAvailable float64               `json:"shares_available"`

	// Incomplete warns that the lot list may be missing history. The
	// caller surfaces it as an advisory, never as a failure.
	Incomplete bool `json:"incomplete"`
}

// Service reconstructs lots for a symbol via the transaction feed,
// widening the lookback window with bounded retries when the history does
// not cover the current share count.
type Service struct {
	feed  domain.TransactionFeed
	log   zerolog.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewService creates a new lots service.
func NewService(feed domain.TransactionFeed, log zerolog.Logger) *Service {
	return &Service{
		feed:  feed,
		log:   log.With().Str("service", "lots").Logger(),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// newServiceWithClock is used by tests to pin time and skip backoff.
func newServiceWithClock(feed domain.TransactionFeed, log zerolog.Logger, now func() time.Time, sleep func(time.Duration)) *Service {
	s := NewService(feed, log)
	s.now = now
	s.sleep = sleep
	return s
}

// GetSnapshot fetches the quote and transaction history for a symbol and
// reconstructs its open lots and shares available for trading.
func (s *Service) GetSnapshot(symbol string) (*Snapshot, error) {
	quote, err := s.feed.GetQuote(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}

	result, err := s.reconstructWithRetry(symbol, quote.Quantity, quote.Price)
	if err != nil {
		return nil, err
	}

	if result.Remainder < -domain.Epsilon {
		// More shares traded than currently held. The history and the
		// live position disagree; proceed with best-effort lots.
		s.log.Warn().
			Str("symbol", symbol).
			Float64("remainder", result.Remainder).
			Msg("Transaction history overshoots current share count")
	}

	contracts := 0
	counts, err := s.feed.GetOptionContractCounts()
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("Failed to get option contract counts, assuming none")
	} else {
		contracts = counts[symbol]
	}

	available := SharesAvailableForTrading(result.Lots, s.now(), contracts)

	s.log.Debug().
		Str("symbol", symbol).
		Int("lots", len(result.Lots)).
		Float64("available", available).
		Bool("incomplete", result.Incomplete).
		Msg("Reconstructed lots")

	return &Snapshot{
		Symbol:          symbol,
		CurrentPrice:    quote.Price,
		TotalShares:     quote.Quantity,
		Lots:            result.Lots,
		SharesAvailable: available,
		Incomplete:      result.Incomplete,
	}, nil
}

// reconstructWithRetry pulls progressively wider transaction windows until
// the reconstruction accounts for the full share count, up to
// maxFetchAttempts. The last best-effort result is returned with its
// Incomplete flag set when the budget runs out.
func (s *Service) reconstructWithRetry(symbol string, shareCount, price float64) (Result, error) {
	quarters := initialLookbackQuarters
	var result Result

	for attempt := 1; attempt <= maxFetchAttempts; attempt++ {
		txs, err := s.feed.GetTransactions(symbol, quarters)
		if err != nil {
			return Result{}, fmt.Errorf("failed to get transactions for %s: %w", symbol, err)
		}

		result = Reconstruct(txs, symbol, shareCount, price)
		if !result.Incomplete {
			return result, nil
		}

		s.log.Debug().
			Str("symbol", symbol).
			Int("attempt", attempt).
			Int("quarters", quarters).
			Float64("remainder", result.Remainder).
			Msg("Lot reconstruction incomplete, widening lookback")

		if attempt < maxFetchAttempts {
			quarters += lookbackStepQuarters
			s.sleep(retryBackoff)
		}
	}

	s.log.Warn().
		Str("symbol", symbol).
		Float64("remainder", result.Remainder).
		Msg("Lot data may be incomplete after maximum lookback")

	return result, nil
}
