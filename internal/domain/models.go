// Package domain provides core domain models and types.
package domain

import "time"

// DateFormat is the lexicographically sortable date layout used for lot
// open dates throughout the system.
const DateFormat = "2006-01-02"

// Epsilon is the tolerance used for share-count comparisons. Share counts
// are doubles coming from the brokerage and accumulate float error during
// reconstruction.
const Epsilon = 1e-4

// IsNearZero reports whether x is within Epsilon of zero.
func IsNearZero(x float64) bool {
	return x < Epsilon && x > -Epsilon
}

// TransferLeg is a single movement of shares within a trade transaction.
// Amount is signed: positive for shares bought, negative for shares sold.
type TransferLeg struct {
	Symbol        string  `json:"symbol"`
	Amount        float64 `json:"amount"`
	PricePerShare float64 `json:"price_per_share"`
	Cost          float64 `json:"cost"`
}

// Transaction is a raw trade transaction as reported by the brokerage.
// A transaction carries one or more transfer legs; only legs with non-zero
// amount, price, and cost participate in lot reconstruction.
type Transaction struct {
	TradeDate time.Time     `json:"trade_date"`
	Legs      []TransferLeg `json:"legs"`
}

// TaxLotRecord is a reconstructed tax lot. The brokerage does not expose
// lots directly, so these are replayed from transaction history.
//
// Quantity is positive for an open buy remainder. During reconstruction a
// record may carry a negative quantity (an unmatched sell remainder); such
// residuals can survive into the final list when the transaction window
// does not cover the originating buys.
type TaxLotRecord struct {
	OpenDate       string  `json:"open_date"` // YYYY-MM-DD, sortable
	Quantity       float64 `json:"quantity"`
	Price          float64 `json:"price"` // current market price, same for all lots of a symbol
	CostPerShare   float64 `json:"cost_per_share"`
	MarketValue    float64 `json:"market_value"`
	CostBasis      float64 `json:"cost_basis"`
	GainLossDollar float64 `json:"gain_loss_dollar"`
	GainLossPct    float64 `json:"gain_loss_pct"`
}

// NewTaxLotRecord builds a lot record with the derived fields populated.
func NewTaxLotRecord(openDate string, quantity, costPerShare, price float64) TaxLotRecord {
	rec := TaxLotRecord{
		OpenDate:     openDate,
		Quantity:     quantity,
		Price:        price,
		CostPerShare: costPerShare,
	}
	rec.Refresh()
	return rec
}

// Refresh recomputes the derived valuation fields from quantity, cost and
// price. Call after mutating Quantity during lot matching.
func (r *TaxLotRecord) Refresh() {
	r.MarketValue = r.Price * r.Quantity
	r.CostBasis = r.CostPerShare * r.Quantity
	r.GainLossDollar = r.MarketValue - r.CostBasis
	if r.CostBasis != 0 {
		r.GainLossPct = r.GainLossDollar / r.CostBasis * 100
	} else {
		r.GainLossPct = 0
	}
}

// OHLCV is a single price history bar.
type OHLCV struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Quote is a current market snapshot for a symbol.
type Quote struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"` // shares currently held
}
