package domain

// SellCandidate is one proposed sell order produced by a sizing algorithm.
// Target must exceed BreakEven unless the candidate is explicitly labeled
// UNPROFITABLE in its description.
type SellCandidate struct {
	Symbol          string  `json:"symbol"`
	Shares          float64 `json:"shares"`
	Entry           float64 `json:"entry"`
	Target          float64 `json:"target"`
	Cancel          float64 `json:"cancel"`
	TrailingStop    float64 `json:"trailing_stop"` // percent
	BreakEven       float64 `json:"break_even"`    // weighted cost of the selected shares
	Gain            float64 `json:"gain"`          // percent
	RollingGainLoss float64 `json:"rolling_gain_loss"`
	Description     string  `json:"description"`
	Tag             string  `json:"tag"` // producing algorithm, e.g. "Top100", "MinATR"
}

// BuyCandidate is one proposed buy order produced by a sizing algorithm.
type BuyCandidate struct {
	Symbol             string  `json:"symbol"`
	Shares             float64 `json:"shares"`
	TargetBuyPrice     float64 `json:"target_buy_price"`
	EntryPrice         float64 `json:"entry_price"`
	TrailingStop       float64 `json:"trailing_stop"` // percent
	TargetGainPercent  float64 `json:"target_gain_percent"`
	CurrentGainPercent float64 `json:"current_gain_percent"`
	OrderCost          float64 `json:"order_cost"`
	Description        string  `json:"description"`
	Tag                string  `json:"tag"`
	IsImmediate        bool    `json:"is_immediate"`
	PreferDayDuration  bool    `json:"prefer_day_duration"`
}

// CandidateKind discriminates the two order candidate variants.
type CandidateKind string

const (
	CandidateKindSell CandidateKind = "SELL"
	CandidateKindBuy  CandidateKind = "BUY"
)

// OrderCandidate is a tagged union over the two candidate types. Exactly
// one of Sell or Buy is set, matching Kind.
type OrderCandidate struct {
	Kind CandidateKind  `json:"kind"`
	Sell *SellCandidate `json:"sell,omitempty"`
	Buy  *BuyCandidate  `json:"buy,omitempty"`
}

// NewSellOrderCandidate wraps a sell candidate in the tagged union.
func NewSellOrderCandidate(c SellCandidate) OrderCandidate {
	return OrderCandidate{Kind: CandidateKindSell, Sell: &c}
}

// NewBuyOrderCandidate wraps a buy candidate in the tagged union.
func NewBuyOrderCandidate(c BuyCandidate) OrderCandidate {
	return OrderCandidate{Kind: CandidateKindBuy, Buy: &c}
}
