package bitstamp

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/coinmesh/bitstamp/currency"
	"github.com/coinmesh/bitstamp/entity"
)

type orderBookResponse struct {
	Timestamp string     `json:"timestamp"`
	Bids      [][]string `json:"bids"`
	Asks      [][]string `json:"asks"`
}

// GetOrderBook fetches the current order book for a supported pair.
// Entry order is preserved as supplied by the exchange: bids descending
// by price, asks ascending. Absent sides come back as empty slices.
func (c *Client) GetOrderBook(ctx context.Context, baseCurrency, quoteCurrency string) (entity.OrderBook, error) {
	pair, err := resolvePair(baseCurrency, quoteCurrency)
	if err != nil {
		return entity.OrderBook{}, err
	}

	var res orderBookResponse
	if err := c.get(ctx, "v2/order_book/"+pair.Token(), &res); err != nil {
		return entity.OrderBook{}, err
	}

	bids, err := convertBookEntries(res.Bids, pair.Base)
	if err != nil {
		return entity.OrderBook{}, err
	}
	asks, err := convertBookEntries(res.Asks, pair.Base)
	if err != nil {
		return entity.OrderBook{}, err
	}

	return entity.OrderBook{
		BaseCurrency:  pair.Base,
		QuoteCurrency: pair.Quote,
		Bids:          bids,
		Asks:          asks,
	}, nil
}

func convertBookEntries(raw [][]string, baseCurrency string) ([]entity.OrderBookEntry, error) {
	entries := make([]entity.OrderBookEntry, 0, len(raw))
	for _, pair := range raw {
		if len(pair) != 2 {
			return nil, &MalformedResponseError{Cause: errors.Errorf("order book entry has %d elements, want 2", len(pair))}
		}
		price, err := decimal.NewFromString(pair[0])
		if err != nil {
			return nil, &MalformedResponseError{Cause: errors.Wrapf(err, "order book price %q", pair[0])}
		}
		amount, err := currency.ParseToSubunit(pair[1], baseCurrency)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entity.OrderBookEntry{Price: price, BaseAmount: amount})
	}
	return entries, nil
}
