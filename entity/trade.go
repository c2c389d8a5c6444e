package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Trade is a normalized market-trade history entry. Amounts are signed
// subunits; BaseAmount and QuoteAmount carry opposite signs.
type Trade struct {
	BaseCurrency  string
	QuoteCurrency string
	BaseAmount    int64
	QuoteAmount   int64
	FeeCurrency   string
	FeeAmount     int64
	ExternalID    string
	Type          string
	State         string
	TradeTime     time.Time
	Raw           RawTransaction
}

// RawOrder is the exchange response to placing an order, annotated with
// the order side the client chose.
type RawOrder struct {
	ID       int64       `json:"id"`
	DateTime string      `json:"datetime"`
	Price    string      `json:"price"`
	Amount   string      `json:"amount"`
	Type     json.Number `json:"type"`
	Side     Side        `json:"orderType"`
}

// PlacedTrade is the result of placing a limit order. BaseAmount keeps
// the caller's sign convention (negative for sells).
type PlacedTrade struct {
	BaseCurrency  string
	QuoteCurrency string
	BaseAmount    int64
	ExternalID    string
	Type          string
	State         string
	LimitPrice    decimal.Decimal
	Side          Side
	Raw           RawOrder
}

// Fill is one partial execution of an order, with per-currency
// main-unit decimal strings the way the order-status endpoint reports
// them.
type Fill struct {
	TID   int64  `json:"tid"`
	Price string `json:"price"`
	Fee   string `json:"fee"`
	USD   string `json:"usd"`
	EUR   string `json:"eur"`
	BTC   string `json:"btc"`
	ETH   string `json:"eth"`
	BCH   string `json:"bch"`
	USDC  string `json:"usdc"`
	USDT  string `json:"usdt"`
}

// Amount returns the fill's decimal-string amount in the given
// currency, or "" if the fill has no such field.
func (f Fill) Amount(code string) string {
	switch code {
	case "USD":
		return f.USD
	case "EUR":
		return f.EUR
	case "BTC":
		return f.BTC
	case "ETH":
		return f.ETH
	case "BCH":
		return f.BCH
	case "USDC":
		return f.USDC
	case "USDT":
		return f.USDT
	}
	return ""
}

// Order aggregates the fills of one order. The amount fields are signed
// subunit sums across all fills, following the order side's sign
// convention.
type Order struct {
	BaseCurrency  string
	QuoteCurrency string
	FeeCurrency   string
	ExternalID    string
	Type          string
	State         string
	BaseAmount    int64
	QuoteAmount   int64
	FeeAmount     int64
	Status        string
	Fills         []Fill
}
