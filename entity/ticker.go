package entity

import "github.com/shopspring/decimal"

// Ticker is a point-in-time market snapshot for one currency pair.
// Volume24Hours is denominated in subunits of the base currency, all
// other amounts are main-unit prices.
type Ticker struct {
	BaseCurrency  string
	QuoteCurrency string
	Bid           decimal.Decimal
	Ask           decimal.Decimal
	LastPrice     decimal.Decimal
	High24Hours   decimal.Decimal
	Low24Hours    decimal.Decimal
	Vwap24Hours   decimal.Decimal
	Volume24Hours int64
}
