package bitstamp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinmesh/bitstamp/entity"
)

func TestWithdraw(t *testing.T) {
	rt := &stubRequester{handler: respondWith(`{"id": 4325578}`)}
	c := newTestClient(rt)

	res, err := c.Withdraw(context.Background(), entity.WithdrawalRequest{
		Amount:   1250000,
		Currency: "ETH",
		Address:  "0x4cce4f9480a8ff26bc32bd22739b1c4fd4989a9a",
	})
	require.NoError(t, err)

	require.Len(t, rt.calls, 1)
	assert.Equal(t, "v2/eth_withdrawal", rt.calls[0].action)
	assert.Equal(t, "0.00000125", rt.calls[0].form.Get("amount"))
	assert.Equal(t, "0x4cce4f9480a8ff26bc32bd22739b1c4fd4989a9a", rt.calls[0].form.Get("address"))
	assert.Equal(t, "0", rt.calls[0].form.Get("instant"))

	assert.Equal(t, "4325578", res.ExternalID)
	assert.Equal(t, entity.StatePending, res.State)
}

func TestWithdrawValidation(t *testing.T) {
	tests := []struct {
		name string
		req  entity.WithdrawalRequest
	}{
		{name: "unsupported currency", req: entity.WithdrawalRequest{Amount: 100, Currency: "USD", Address: "x"}},
		{name: "zero amount", req: entity.WithdrawalRequest{Amount: 0, Currency: "BTC", Address: "x"}},
		{name: "missing address", req: entity.WithdrawalRequest{Amount: 100, Currency: "BTC"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &stubRequester{handler: respondWith(`{"id": 1}`)}
			c := newTestClient(rt)

			_, err := c.Withdraw(context.Background(), tt.req)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Empty(t, rt.calls)
		})
	}
}
