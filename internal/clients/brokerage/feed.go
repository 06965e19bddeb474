package brokerage

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/lotwatch/internal/domain"
)

// tradeDateLayout is how the API reports trade timestamps.
const tradeDateLayout = "2006-01-02 15:04:05"

// Wire types. The API reports each trade as a flat record; lot
// reconstruction wants transactions carrying transfer legs.

type tradeRecord struct {
	Date     string  `json:"date"`
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"q"` // signed: negative for sells
	Price    float64 `json:"p"`
	Amount   float64 `json:"summ"` // total cost of the leg
}

type tradesData struct {
	Trades []tradeRecord `json:"trades"`
}

type quoteData struct {
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"ltp"` // last trade price
	Position float64 `json:"position"`
}

type candleData struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

type historyData struct {
	Candles []candleData `json:"candles"`
}

type contractData struct {
	Underlying string `json:"underlying"`
	Contracts  int    `json:"contracts"`
}

type optionsData struct {
	Positions []contractData `json:"positions"`
}

// GetTransactions fetches the trade history for a symbol over the given
// number of quarters, newest first.
func (c *Client) GetTransactions(symbol string, quarters int) ([]domain.Transaction, error) {
	var data tradesData
	params := map[string]interface{}{
		"symbol":   symbol,
		"quarters": quarters,
	}
	if err := c.call("getTradesHistory", params, &data); err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(data.Trades))
	for _, t := range data.Trades {
		date, err := time.Parse(tradeDateLayout, t.Date)
		if err != nil {
			c.log.Warn().Str("date", t.Date).Str("symbol", t.Symbol).Msg("Skipping trade with unparseable date")
			continue
		}
		txs = append(txs, domain.Transaction{
			TradeDate: date,
			Legs: []domain.TransferLeg{{
				Symbol:        t.Symbol,
				Amount:        t.Quantity,
				PricePerShare: t.Price,
				Cost:          t.Amount,
			}},
		})
	}

	// Newest first, the order reconstruction expects.
	sort.SliceStable(txs, func(a, b int) bool {
		return txs[a].TradeDate.After(txs[b].TradeDate)
	})

	c.log.Debug().
		Str("symbol", symbol).
		Int("quarters", quarters).
		Int("trades", len(txs)).
		Msg("Fetched trade history")

	return txs, nil
}

// GetQuote fetches the current price and held share count for a symbol.
func (c *Client) GetQuote(symbol string) (*domain.Quote, error) {
	var data quoteData
	params := map[string]interface{}{"symbol": symbol}
	if err := c.call("getQuote", params, &data); err != nil {
		return nil, err
	}

	if data.Price <= 0 {
		return nil, fmt.Errorf("no price available for %s", symbol)
	}

	return &domain.Quote{
		Symbol:   symbol,
		Price:    data.Price,
		Quantity: data.Position,
	}, nil
}

// GetHistoricalPrices fetches daily bars for a symbol over the last
// `days` days, oldest first.
func (c *Client) GetHistoricalPrices(symbol string, days int) ([]domain.OHLCV, error) {
	var data historyData
	params := map[string]interface{}{
		"symbol": symbol,
		"days":   days,
	}
	if err := c.call("getHloc", params, &data); err != nil {
		return nil, err
	}

	bars := make([]domain.OHLCV, 0, len(data.Candles))
	for _, b := range data.Candles {
		bars = append(bars, domain.OHLCV{
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}

	sort.SliceStable(bars, func(a, b int) bool {
		return bars[a].Timestamp < bars[b].Timestamp
	})

	return bars, nil
}

// GetOptionContractCounts fetches open derivative contract counts keyed
// by underlying symbol.
func (c *Client) GetOptionContractCounts() (map[string]int, error) {
	var data optionsData
	if err := c.call("getOptionPositions", map[string]interface{}{}, &data); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(data.Positions))
	for _, p := range data.Positions {
		counts[p.Underlying] += p.Contracts
	}
	return counts, nil
}
