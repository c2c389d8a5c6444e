package bitstamp

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/coinmesh/bitstamp/currency"
	"github.com/coinmesh/bitstamp/entity"
)

// supportedWithdrawCurrencies is the fixed set of currencies the
// exchange accepts withdrawal requests for.
var supportedWithdrawCurrencies = map[string]struct{}{
	"ETH": {},
	"BTC": {},
	"BCH": {},
}

type withdrawResponse struct {
	ID json.Number `json:"id"`
}

// Withdraw submits a withdrawal of req.Amount subunits of req.Currency
// to req.Address. The exchange reports no further progress, so the
// returned state is always pending.
func (c *Client) Withdraw(ctx context.Context, req entity.WithdrawalRequest) (entity.WithdrawalResult, error) {
	cur := strings.ToUpper(req.Currency)
	if _, ok := supportedWithdrawCurrencies[cur]; !ok {
		return entity.WithdrawalResult{}, validationErrorf("withdrawals are not allowed for %s", req.Currency)
	}
	if req.Amount <= 0 {
		return entity.WithdrawalResult{}, validationErrorf("withdrawal amount must be a positive subunit amount")
	}
	if req.Address == "" {
		return entity.WithdrawalResult{}, validationErrorf("withdrawal address is required")
	}

	amount, err := currency.ToMainUnit(req.Amount, cur)
	if err != nil {
		return entity.WithdrawalResult{}, err
	}

	form := url.Values{}
	form.Set("address", req.Address)
	form.Set("amount", amount.String())
	form.Set("instant", "0")

	var res withdrawResponse
	if err := c.post(ctx, "v2/"+strings.ToLower(cur)+"_withdrawal", form, &res); err != nil {
		return entity.WithdrawalResult{}, err
	}

	return entity.WithdrawalResult{
		ExternalID: res.ID.String(),
		State:      entity.StatePending,
	}, nil
}
