package bitstamp

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinmesh/bitstamp/entity"
)

func TestGetOrderBook(t *testing.T) {
	body := `{
	  "timestamp": "1455629907",
	  "bids": [["403.53", "0.81383821"], ["403.35", "1.61018019"]],
	  "asks": [["404.00", "19.67704402"], ["404.39", "7.36300000"]]
	}`
	rt := &stubRequester{handler: respondWith(body)}
	c := newTestClient(rt)

	book, err := c.GetOrderBook(context.Background(), "BTC", "USD")
	require.NoError(t, err)

	require.Len(t, rt.calls, 1)
	assert.Equal(t, "v2/order_book/btcusd", rt.calls[0].action)

	assert.Equal(t, "BTC", book.BaseCurrency)
	assert.Equal(t, "USD", book.QuoteCurrency)

	require.Len(t, book.Bids, 2)
	assert.True(t, book.Bids[0].Price.Equal(decimal.RequireFromString("403.53")))
	assert.Equal(t, int64(81383821), book.Bids[0].BaseAmount)
	assert.True(t, book.Bids[1].Price.Equal(decimal.RequireFromString("403.35")))
	assert.Equal(t, int64(161018019), book.Bids[1].BaseAmount)

	require.Len(t, book.Asks, 2)
	assert.True(t, book.Asks[0].Price.Equal(decimal.RequireFromString("404")))
	assert.Equal(t, int64(1967704402), book.Asks[0].BaseAmount)
}

func TestGetOrderBookAbsentSidesAreEmpty(t *testing.T) {
	rt := &stubRequester{handler: respondWith(`{"timestamp": "1455629907"}`)}
	c := newTestClient(rt)

	book, err := c.GetOrderBook(context.Background(), "BTC", "USD")
	require.NoError(t, err)

	assert.Equal(t, []entity.OrderBookEntry{}, book.Bids)
	assert.Equal(t, []entity.OrderBookEntry{}, book.Asks)
}

func TestGetOrderBookUnsupportedPairIssuesNoRequest(t *testing.T) {
	rt := &stubRequester{handler: respondWith(`{}`)}
	c := newTestClient(rt)

	_, err := c.GetOrderBook(context.Background(), "BTC", "JPY")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Empty(t, rt.calls)
}
