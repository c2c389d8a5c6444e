package entity

import "github.com/shopspring/decimal"

// OrderBookEntry is a single price level. BaseAmount is in subunits of
// the book's base currency.
type OrderBookEntry struct {
	Price      decimal.Decimal
	BaseAmount int64
}

// OrderBook holds price levels in the order supplied by the exchange:
// bids descending, asks ascending.
type OrderBook struct {
	BaseCurrency  string
	QuoteCurrency string
	Bids          []OrderBookEntry
	Asks          []OrderBookEntry
}
