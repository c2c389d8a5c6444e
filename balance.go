package bitstamp

import (
	"context"
	"strings"

	"github.com/coinmesh/bitstamp/currency"
	"github.com/coinmesh/bitstamp/entity"
)

// GetBalance fetches available and total amounts for the configured
// currency set. The exchange reports one decimal string per currency
// suffix (<cur>_available, <cur>_balance); a configured currency whose
// fields are absent from the response is a MissingFieldError.
func (c *Client) GetBalance(ctx context.Context) (entity.Balance, error) {
	var res map[string]string
	if err := c.post(ctx, "v2/balance", nil, &res); err != nil {
		return entity.Balance{}, err
	}

	balance := entity.Balance{
		Available: make(map[string]int64, len(c.currencies)),
		Total:     make(map[string]int64, len(c.currencies)),
	}

	for _, cur := range c.currencies {
		prefix := strings.ToLower(cur)

		available, err := balanceField(res, prefix+"_available", cur)
		if err != nil {
			return entity.Balance{}, err
		}
		total, err := balanceField(res, prefix+"_balance", cur)
		if err != nil {
			return entity.Balance{}, err
		}

		balance.Available[cur] = available
		balance.Total[cur] = total
	}

	return balance, nil
}

func balanceField(res map[string]string, field, cur string) (int64, error) {
	value, ok := res[field]
	if !ok {
		return 0, &MissingFieldError{Field: field}
	}
	return currency.ParseToSubunit(value, cur)
}
