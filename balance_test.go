package bitstamp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const balanceBody = `{
  "btc_reserved": "6.123",
  "fee": "0.2500",
  "btc_available": "0.10000069",
  "usd_reserved": "0.0",
  "btc_balance": "0.12345678",
  "usd_balance": "51.00",
  "usd_available": "49.00"
}`

func TestGetBalance(t *testing.T) {
	rt := &stubRequester{handler: respondWith(balanceBody)}
	c := newTestClient(rt)
	c.currencies = []string{"BTC", "USD"}

	balance, err := c.GetBalance(context.Background())
	require.NoError(t, err)

	require.Len(t, rt.calls, 1)
	assert.Equal(t, "POST", rt.calls[0].method)
	assert.Equal(t, "v2/balance", rt.calls[0].action)

	assert.Equal(t, int64(10000069), balance.Available["BTC"])
	assert.Equal(t, int64(4900), balance.Available["USD"])
	assert.Equal(t, int64(12345678), balance.Total["BTC"])
	assert.Equal(t, int64(5100), balance.Total["USD"])
}

func TestGetBalanceRequestedCurrencyMissing(t *testing.T) {
	rt := &stubRequester{handler: respondWith(balanceBody)}
	c := newTestClient(rt)
	c.currencies = []string{"BTC", "ETH"}

	_, err := c.GetBalance(context.Background())

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "eth_available", missing.Field)
}

func TestGetBalanceIgnoresUnrequestedCurrencies(t *testing.T) {
	rt := &stubRequester{handler: respondWith(balanceBody)}
	c := newTestClient(rt)
	c.currencies = []string{"USD"}

	balance, err := c.GetBalance(context.Background())
	require.NoError(t, err)

	assert.NotContains(t, balance.Available, "BTC")
	assert.Equal(t, int64(4900), balance.Available["USD"])
}
