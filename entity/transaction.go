package entity

import "encoding/json"

// Transaction type codes as reported by the exchange.
const (
	TxTypeDeposit     = 0
	TxTypeWithdrawal  = 1
	TxTypeMarketTrade = 2
)

// Transaction states. The exchange has no transaction state concept, so
// normalized deposits/withdrawals are always completed.
const (
	StateCompleted = "completed"
	StatePending   = "pending"
	StateOpen      = "open"
	StateClosed    = "closed"
)

// RawTransaction is a user-transactions entry exactly as the exchange
// returns it: a numeric type code, a naive timestamp and one decimal
// string per currency, of which at most one (besides the fee) is
// non-zero.
type RawTransaction struct {
	ID       int64       `json:"id"`
	OrderID  json.Number `json:"order_id"`
	Type     json.Number `json:"type"`
	DateTime string      `json:"datetime"`
	Fee      string      `json:"fee"`
	USD      string      `json:"usd"`
	EUR      string      `json:"eur"`
	BTC      string      `json:"btc"`
	ETH      string      `json:"eth"`
	BCH      string      `json:"bch"`
	USDC     string      `json:"usdc"`
	BTCUSD   string      `json:"btc_usd"`
	ETHUSD   string      `json:"eth_usd"`
	BCHUSD   string      `json:"bch_usd"`
}

// Amount returns the decimal-string amount field for the given currency
// code, or "" if the entry carries no such field.
func (t RawTransaction) Amount(code string) string {
	switch code {
	case "USD":
		return t.USD
	case "EUR":
		return t.EUR
	case "BTC":
		return t.BTC
	case "ETH":
		return t.ETH
	case "BCH":
		return t.BCH
	case "USDC":
		return t.USDC
	}
	return ""
}

// TypeCode returns the numeric transaction type, or -1 if it cannot be
// parsed.
func (t RawTransaction) TypeCode() int {
	n, err := t.Type.Int64()
	if err != nil {
		return -1
	}
	return int(n)
}

// Transaction is a normalized deposit or withdrawal. Amount is a signed
// subunit amount of Currency, Timestamp is ISO-8601 in UTC.
type Transaction struct {
	Currency   string
	Amount     int64
	ExternalID string
	Timestamp  string
	State      string
	Type       string
	Raw        RawTransaction
}
