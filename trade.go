package bitstamp

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/coinmesh/bitstamp/currency"
	"github.com/coinmesh/bitstamp/entity"
)

// orderStatusFinished is the exchange's sentinel for a fully executed
// order, matched case-insensitively.
const orderStatusFinished = "finished"

// PlaceTrade places a limit order. baseAmount is in subunits of the
// base currency and its sign picks the side: negative sells, positive
// buys. The limit price is rounded to two decimal places before
// submission.
func (c *Client) PlaceTrade(ctx context.Context, baseAmount int64, limitPrice decimal.Decimal, baseCurrency, quoteCurrency string) (entity.PlacedTrade, error) {
	pair, err := resolvePair(baseCurrency, quoteCurrency)
	if err != nil {
		return entity.PlacedTrade{}, err
	}
	if baseAmount == 0 {
		return entity.PlacedTrade{}, validationErrorf("base amount must be a non-zero subunit amount")
	}
	if limitPrice.IsNegative() {
		return entity.PlacedTrade{}, validationErrorf("limit price must be a positive number")
	}

	side := entity.SideBuy
	amountSubunit := baseAmount
	if baseAmount < 0 {
		side = entity.SideSell
		amountSubunit = -baseAmount
	}

	// The exchange wants main-unit amounts; the caller passes subunits.
	amount, err := currency.ToMainUnit(amountSubunit, pair.Base)
	if err != nil {
		return entity.PlacedTrade{}, err
	}
	price := limitPrice.Round(2)

	form := url.Values{}
	form.Set("amount", amount.String())
	form.Set("price", price.String())

	var res entity.RawOrder
	if err := c.post(ctx, "v2/"+string(side)+"/"+pair.Token(), form, &res); err != nil {
		return entity.PlacedTrade{}, err
	}
	res.Side = side

	return entity.PlacedTrade{
		BaseCurrency:  pair.Base,
		QuoteCurrency: pair.Quote,
		BaseAmount:    baseAmount,
		ExternalID:    strconv.FormatInt(res.ID, 10),
		Type:          orderTypeLimit,
		State:         entity.StateOpen,
		LimitPrice:    price,
		Side:          side,
		Raw:           res,
	}, nil
}

type orderStatusResponse struct {
	Status       string        `json:"status"`
	Transactions []entity.Fill `json:"transactions"`
}

// GetTrade queries the status of a previously placed trade and
// aggregates its fills into an order record. The trade must carry the
// external id, the side and both currencies from PlaceTrade.
func (c *Client) GetTrade(ctx context.Context, trade entity.PlacedTrade) (entity.Order, error) {
	if trade.BaseCurrency == "" || trade.QuoteCurrency == "" {
		return entity.Order{}, validationErrorf("trade requires baseCurrency and quoteCurrency")
	}
	if trade.Side != entity.SideBuy && trade.Side != entity.SideSell {
		return entity.Order{}, validationErrorf("trade side must be either %q or %q", entity.SideBuy, entity.SideSell)
	}
	if trade.ExternalID == "" {
		return entity.Order{}, validationErrorf("trade requires an external id")
	}

	form := url.Values{}
	form.Set("id", trade.ExternalID)

	var res orderStatusResponse
	if err := c.post(ctx, "v2/order_status", form, &res); err != nil {
		return entity.Order{}, err
	}

	baseAmount, quoteAmount, feeAmount, err := aggregateFills(res.Transactions, trade.Side, trade.BaseCurrency, trade.QuoteCurrency)
	if err != nil {
		return entity.Order{}, err
	}

	state := entity.StateOpen
	if strings.EqualFold(res.Status, orderStatusFinished) {
		state = entity.StateClosed
	}

	return entity.Order{
		BaseCurrency:  trade.BaseCurrency,
		QuoteCurrency: trade.QuoteCurrency,
		FeeCurrency:   feeCurrency,
		ExternalID:    trade.ExternalID,
		Type:          orderTypeLimit,
		State:         state,
		BaseAmount:    baseAmount,
		QuoteAmount:   quoteAmount,
		FeeAmount:     feeAmount,
		Status:        res.Status,
		Fills:         res.Transactions,
	}, nil
}

// aggregateFills sums base, quote and fee subunit amounts across an
// order's fills, applying the side's sign convention: a sell gives up
// base and receives quote, a buy the opposite. Summation is
// commutative, so fill order does not matter.
func aggregateFills(fills []entity.Fill, side entity.Side, baseCurrency, quoteCurrency string) (baseAmount, quoteAmount, feeAmount int64, err error) {
	for _, fill := range fills {
		base, err := currency.ParseToSubunit(fill.Amount(baseCurrency), baseCurrency)
		if err != nil {
			return 0, 0, 0, err
		}
		quote, err := currency.ParseToSubunit(fill.Amount(quoteCurrency), quoteCurrency)
		if err != nil {
			return 0, 0, 0, err
		}
		fee, err := currency.ParseToSubunit(fill.Fee, feeCurrency)
		if err != nil {
			return 0, 0, 0, err
		}

		if side == entity.SideSell {
			base = -base
		} else {
			quote = -quote
		}

		baseAmount += base
		quoteAmount += quote
		feeAmount += fee
	}
	return baseAmount, quoteAmount, feeAmount, nil
}
