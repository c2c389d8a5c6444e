package bitstamp

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/coinmesh/bitstamp/currency"
	"github.com/coinmesh/bitstamp/entity"
)

type tickerResponse struct {
	High   string `json:"high"`
	Last   string `json:"last"`
	Bid    string `json:"bid"`
	Vwap   string `json:"vwap"`
	Volume string `json:"volume"`
	Low    string `json:"low"`
	Ask    string `json:"ask"`
}

// GetTicker fetches the market snapshot for a supported pair. The
// 24-hour volume is converted to base-currency subunits, all price
// fields stay main-unit decimals.
func (c *Client) GetTicker(ctx context.Context, baseCurrency, quoteCurrency string) (entity.Ticker, error) {
	pair, err := resolvePair(baseCurrency, quoteCurrency)
	if err != nil {
		return entity.Ticker{}, err
	}

	var res tickerResponse
	if err := c.get(ctx, "v2/ticker/"+pair.Token(), &res); err != nil {
		return entity.Ticker{}, err
	}

	fields := map[string]string{
		"bid":    res.Bid,
		"ask":    res.Ask,
		"last":   res.Last,
		"high":   res.High,
		"low":    res.Low,
		"vwap":   res.Vwap,
		"volume": res.Volume,
	}
	parsed := make(map[string]decimal.Decimal, len(fields))
	for name, value := range fields {
		if value == "" {
			return entity.Ticker{}, &MissingFieldError{Field: name}
		}
		d, err := decimal.NewFromString(value)
		if err != nil {
			return entity.Ticker{}, &MalformedResponseError{Cause: errors.Wrapf(err, "ticker field %q", name)}
		}
		parsed[name] = d
	}

	volume, err := currency.ToSubunit(parsed["volume"], pair.Base)
	if err != nil {
		return entity.Ticker{}, err
	}

	return entity.Ticker{
		BaseCurrency:  pair.Base,
		QuoteCurrency: pair.Quote,
		Bid:           parsed["bid"],
		Ask:           parsed["ask"],
		LastPrice:     parsed["last"],
		High24Hours:   parsed["high"],
		Low24Hours:    parsed["low"],
		Vwap24Hours:   parsed["vwap"],
		Volume24Hours: volume,
	}, nil
}
