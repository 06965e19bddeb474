package orders

import (
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/lotwatch/internal/domain"
	"github.com/aristath/lotwatch/internal/modules/lots"
	"github.com/aristath/lotwatch/internal/modules/orders/calculators"
	"github.com/aristath/lotwatch/pkg/formulas"
)

// historyDays is the price-history window fetched for the ATR.
const historyDays = 30

// SnapshotProvider supplies the reconstructed position the engine
// computes from.
type SnapshotProvider interface {
	GetSnapshot(symbol string) (*lots.Snapshot, error)
}

// Recommendation is one full engine run: both candidate lists plus the
// inputs they were computed from.
type Recommendation struct {
	RunID        string                 `json:"run_id"`
	Symbol       string                 `json:"symbol"`
	CurrentPrice float64                `json:"current_price"`
	ATRPercent   float64                `json:"atr_percent"`
	Incomplete   bool                   `json:"incomplete"`
	Sells        []domain.SellCandidate `json:"sells"`
	Buys         []domain.BuyCandidate  `json:"buys"`
}

// Candidates flattens both lists into the tagged order union, sells
// first.
func (r *Recommendation) Candidates() []domain.OrderCandidate {
	out := make([]domain.OrderCandidate, 0, len(r.Sells)+len(r.Buys))
	for _, s := range r.Sells {
		out = append(out, domain.NewSellOrderCandidate(s))
	}
	for _, b := range r.Buys {
		out = append(out, domain.NewBuyOrderCandidate(b))
	}
	return out
}

// Service runs the calculator set against a reconstructed position.
type Service struct {
	snapshots SnapshotProvider
	feed      domain.TransactionFeed
	registry  *calculators.Registry
	log       zerolog.Logger
	newID     func() string
}

// NewService creates a new orders service.
func NewService(snapshots SnapshotProvider, feed domain.TransactionFeed, log zerolog.Logger) *Service {
	return &Service{
		snapshots: snapshots,
		feed:      feed,
		registry:  calculators.NewRegistry(),
		log:       log.With().Str("service", "orders").Logger(),
		newID:     func() string { return uuid.New().String() },
	}
}

// GetRecommendations reconstructs the position for a symbol and runs
// every sizing algorithm over it. Invalid inputs (no lots, nothing
// tradeable, ATR out of range) produce a recommendation with empty
// lists, never an error.
func (s *Service) GetRecommendations(symbol string) (*Recommendation, error) {
	snap, err := s.snapshots.GetSnapshot(symbol)
	if err != nil {
		return nil, err
	}

	rec := &Recommendation{
		RunID:        s.newID(),
		Symbol:       symbol,
		CurrentPrice: snap.CurrentPrice,
		Incomplete:   snap.Incomplete,
	}
	log := s.log.With().Str("run_id", rec.RunID).Str("symbol", symbol).Logger()

	if len(snap.Lots) == 0 || snap.SharesAvailable <= 0 {
		log.Info().Msg("No open lots or tradeable shares, skipping recommendations")
		return rec, nil
	}

	atr := s.atrPercent(symbol, log)
	if atr == nil {
		log.Warn().Msg("No usable volatility data, skipping recommendations")
		return rec, nil
	}
	rec.ATRPercent = *atr

	if *atr < calculators.MinTrailingStop || *atr > calculators.MaxTrailingStop {
		log.Warn().Float64("atr", *atr).Msg("ATR out of range, skipping recommendations")
		return rec, nil
	}

	sorted := make([]domain.TaxLotRecord, len(snap.Lots))
	copy(sorted, snap.Lots)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].CostPerShare > sorted[b].CostPerShare
	})

	totalShares := 0.0
	totalCost := 0.0
	for _, l := range sorted {
		totalShares += l.Quantity
		totalCost += l.Quantity * l.CostPerShare
	}

	rec.Sells = s.registry.EvaluateSells(calculators.SellContext{
		Symbol:          symbol,
		CurrentPrice:    snap.CurrentPrice,
		Lots:            sorted,
		ATRPercent:      *atr,
		SharesAvailable: snap.SharesAvailable,
		TotalShares:     totalShares,
		TotalCost:       totalCost,
	})
	rec.Buys = s.registry.EvaluateBuys(calculators.BuyContext{
		Symbol:       symbol,
		CurrentPrice: snap.CurrentPrice,
		Lots:         sorted,
		ATRPercent:   *atr,
		TotalShares:  totalShares,
		TotalCost:    totalCost,
	})

	for _, c := range rec.Sells {
		log.Info().Str("tag", c.Tag).Msg(c.Description)
	}
	for _, c := range rec.Buys {
		log.Info().Str("tag", c.Tag).Msg(c.Description)
	}
	log.Debug().
		Int("sells", len(rec.Sells)).
		Int("buys", len(rec.Buys)).
		Float64("atr", *atr).
		Msg("Recommendation run complete")

	return rec, nil
}

// atrPercent computes the ATR from price history, falling back to
// close-to-close volatility when the bars lack high/low data.
func (s *Service) atrPercent(symbol string, log zerolog.Logger) *float64 {
	bars, err := s.feed.GetHistoricalPrices(symbol, historyDays)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to get price history")
		return nil
	}

	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}

	if atr := formulas.ATRPercent(highs, lows, closes, formulas.DefaultATRPeriod); atr != nil {
		return atr
	}
	log.Debug().Msg("ATR unavailable, falling back to close volatility")
	return formulas.CloseVolatilityPercent(closes, formulas.DefaultATRPeriod)
}
