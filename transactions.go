package bitstamp

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinmesh/bitstamp/currency"
	"github.com/coinmesh/bitstamp/entity"
)

// txPageSize is the page size requested from the user-transactions
// endpoint.
const txPageSize = 100

// ErrPageCapExceeded is returned when a pagination cycle hits the
// configured MaxPages cap before reaching the watermark or the end of
// history. No partial results are returned.
var ErrPageCapExceeded = errors.New("transaction history page cap exceeded")

// currencyPriority is the order in which currency fields of a raw
// transaction are inspected to infer its currency. The first non-zero
// field wins.
var currencyPriority = []string{"USD", "EUR", "BTC", "ETH", "BCH", "USDC"}

// ListTransactions returns all deposits and withdrawals newer than or
// equal to the since watermark, newest first. A zero since fetches the
// complete account history.
func (c *Client) ListTransactions(ctx context.Context, since time.Time) ([]entity.Transaction, error) {
	raw, err := c.fetchUserTransactions(ctx, since)
	if err != nil {
		return nil, err
	}

	transactions := make([]entity.Transaction, 0, len(raw))
	for _, tx := range raw {
		code := tx.TypeCode()
		if code != entity.TxTypeDeposit && code != entity.TxTypeWithdrawal {
			continue
		}
		normalized, err := classifyTransaction(tx)
		if err != nil {
			c.log.Error("error parsing transaction", zap.Int64("id", tx.ID), zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, normalized)
	}
	return transactions, nil
}

// ListTrades returns all market trades newer than or equal to the
// since watermark, newest first. A zero since fetches the complete
// history.
func (c *Client) ListTrades(ctx context.Context, since time.Time) ([]entity.Trade, error) {
	raw, err := c.fetchUserTransactions(ctx, since)
	if err != nil {
		return nil, err
	}

	trades := make([]entity.Trade, 0, len(raw))
	for _, tx := range raw {
		if tx.TypeCode() != entity.TxTypeMarketTrade {
			continue
		}
		trade, err := normalizeMarketTrade(tx)
		if err != nil {
			c.log.Error("error parsing trade", zap.Int64("id", tx.ID), zap.Error(err))
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// fetchUserTransactions drives the pagination cycle: fixed-size pages
// are requested newest first until a page entry is strictly older than
// the watermark, a short page signals the end of history, or the
// context/page cap stops the loop. Any single page failure aborts the
// whole cycle with no partial results.
func (c *Client) fetchUserTransactions(ctx context.Context, since time.Time) ([]entity.RawTransaction, error) {
	var all []entity.RawTransaction
	offset := 0

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "transaction pagination cancelled")
		}
		if c.maxPages > 0 && page >= c.maxPages {
			return nil, errors.Wrapf(ErrPageCapExceeded, "stopped after %d pages", page)
		}

		form := url.Values{}
		form.Set("limit", strconv.Itoa(txPageSize))
		form.Set("offset", strconv.Itoa(offset))
		form.Set("sort", "desc")

		var txs []entity.RawTransaction
		if err := c.post(ctx, "v2/user_transactions", form, &txs); err != nil {
			return nil, err
		}
		c.log.Debug("fetched transaction page",
			zap.Int("page", page), zap.Int("offset", offset), zap.Int("entries", len(txs)))

		reachedWatermark := false
		for _, tx := range txs {
			ts, err := parseExchangeTime(tx.DateTime)
			if err != nil {
				return nil, &MalformedResponseError{Cause: errors.Wrapf(err, "transaction %d datetime", tx.ID)}
			}
			// Strictly older than the watermark: the rest of this page
			// and all further pages are already known.
			if ts.Before(since) {
				reachedWatermark = true
				break
			}
			all = append(all, tx)
		}

		if reachedWatermark || len(txs) < txPageSize {
			return all, nil
		}
		offset += txPageSize
	}
}

// classifyTransaction turns a raw deposit/withdrawal entry into a
// normalized Transaction. The currency is the first entry of
// currencyPriority whose field parses to a non-zero amount.
func classifyTransaction(raw entity.RawTransaction) (entity.Transaction, error) {
	code, ok := inferCurrency(raw)
	if !ok {
		return entity.Transaction{}, &AmbiguousCurrencyError{Raw: raw}
	}

	amount, err := currency.ParseToSubunit(raw.Amount(code), code)
	if err != nil {
		return entity.Transaction{}, err
	}

	ts, err := parseExchangeTime(raw.DateTime)
	if err != nil {
		return entity.Transaction{}, &MalformedResponseError{Cause: errors.Wrapf(err, "transaction %d datetime", raw.ID)}
	}

	txType := "withdrawal"
	if raw.TypeCode() == entity.TxTypeDeposit {
		txType = "deposit"
	}

	return entity.Transaction{
		Currency:   code,
		Amount:     amount,
		ExternalID: strconv.FormatInt(raw.ID, 10),
		Timestamp:  ts.Format(time.RFC3339),
		State:      entity.StateCompleted,
		Type:       txType,
		Raw:        raw,
	}, nil
}

func inferCurrency(raw entity.RawTransaction) (string, bool) {
	for _, code := range currencyPriority {
		field := raw.Amount(code)
		if field == "" {
			continue
		}
		d, err := decimal.NewFromString(field)
		if err != nil || d.IsZero() {
			continue
		}
		return code, true
	}
	return "", false
}

// normalizeMarketTrade maps a type-2 history entry to a Trade. The base
// currency is inferred from which per-currency quote field is
// populated: an eth_usd price means an ETH trade, bch_usd a BCH trade,
// everything else is BTC. Quote and fee are always USD.
func normalizeMarketTrade(tx entity.RawTransaction) (entity.Trade, error) {
	baseCurrency := "BTC"
	baseMainUnit := tx.BTC
	switch {
	case tx.ETHUSD != "":
		baseCurrency = "ETH"
		baseMainUnit = tx.ETH
	case tx.BCHUSD != "":
		baseCurrency = "BCH"
		baseMainUnit = tx.BCH
	}

	baseAmount, err := currency.ParseToSubunit(baseMainUnit, baseCurrency)
	if err != nil {
		return entity.Trade{}, err
	}
	quoteAmount, err := currency.ParseToSubunit(tx.USD, "USD")
	if err != nil {
		return entity.Trade{}, err
	}
	feeAmount, err := currency.ParseToSubunit(tx.Fee, feeCurrency)
	if err != nil {
		return entity.Trade{}, err
	}

	tradeTime, err := parseExchangeTime(tx.DateTime)
	if err != nil {
		return entity.Trade{}, &MalformedResponseError{Cause: errors.Wrapf(err, "trade %d datetime", tx.ID)}
	}

	return entity.Trade{
		BaseCurrency:  baseCurrency,
		QuoteCurrency: "USD",
		BaseAmount:    baseAmount,
		QuoteAmount:   quoteAmount,
		FeeCurrency:   feeCurrency,
		FeeAmount:     feeAmount,
		ExternalID:    tx.OrderID.String(),
		Type:          orderTypeLimit,
		State:         entity.StateClosed,
		TradeTime:     tradeTime,
		Raw:           tx,
	}, nil
}

// exchangeTimeLayouts cover the naive timestamp formats the exchange
// emits. The timestamps carry no zone; by documented assumption they
// are interpreted as UTC.
var exchangeTimeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

func parseExchangeTime(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range exchangeTimeLayouts {
		ts, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
