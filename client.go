// Package bitstamp is a client for the Bitstamp REST API. It signs
// private requests, normalizes the exchange's loosely-typed payloads
// into canonical records with subunit integer amounts, and paginates
// through transaction history.
package bitstamp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/coinmesh/bitstamp/entity"
)

const (
	// DefaultHost is the production API host.
	DefaultHost = "https://www.bitstamp.net"

	defaultTimeout = 5 * time.Second

	// feeCurrency is fixed by the exchange: fees are always charged in
	// USD.
	feeCurrency = "USD"

	orderTypeLimit = "limit"
)

// supportedPairs is the fixed allow-list of tradeable pairs, keyed by
// pair token.
var supportedPairs = map[string]struct{}{
	"btcusd":  {},
	"btceur":  {},
	"ethusd":  {},
	"etheur":  {},
	"bchusd":  {},
	"bcheur":  {},
	"usdcusd": {},
	"usdceur": {},
	"usdtusd": {},
	"usdteur": {},
}

// defaultBalanceCurrencies is the balance currency set when the caller
// does not configure one.
var defaultBalanceCurrencies = []string{"BTC", "ETH", "BCH", "USD"}

// Config carries the immutable per-client configuration. It is read
// once at construction and never mutated afterwards.
type Config struct {
	Key    string
	Secret string
	// Host overrides DefaultHost, e.g. for a sandbox environment.
	Host string
	// Timeout bounds each individual HTTP request.
	Timeout time.Duration
	// Currencies is the set of currencies GetBalance converts.
	Currencies []string
	// MaxPages caps a single pagination cycle; 0 means unlimited.
	MaxPages int
	Logger   *zap.Logger
}

// Client talks to the exchange. It holds no mutable state between
// calls; concurrent use is safe but overlapping pagination calls
// against one account must be serialized by the caller.
type Client struct {
	rt         Requester
	currencies []string
	maxPages   int
	log        *zap.Logger
}

// New builds a Client from the given configuration.
func New(cfg Config) (*Client, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if len(cfg.Currencies) == 0 {
		cfg.Currencies = defaultBalanceCurrencies
	}

	rt, err := newHTTPRequester(cfg.Host, cfg.Key, cfg.Secret, cfg.Timeout, cfg.Logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		rt:         rt,
		currencies: cfg.Currencies,
		maxPages:   cfg.MaxPages,
		log:        cfg.Logger,
	}, nil
}

// resolvePair validates base/quote against the supported set and
// returns the normalized pair. Called before any network interaction
// on pair-scoped operations.
func resolvePair(base, quote string) (entity.Pair, error) {
	pair := entity.NewPair(base, quote)
	if _, ok := supportedPairs[pair.Token()]; !ok {
		return entity.Pair{}, validationErrorf("currency pair %s not supported", pair)
	}
	return pair, nil
}

// get performs a public request and decodes the response into out.
func (c *Client) get(ctx context.Context, action string, out any) error {
	body, err := c.rt.Public(ctx, action)
	if err != nil {
		return err
	}
	return decodeResponse(body, out)
}

// post performs a signed request and decodes the response into out.
func (c *Client) post(ctx context.Context, action string, form url.Values, out any) error {
	body, err := c.rt.Signed(ctx, http.MethodPost, action, form)
	if err != nil {
		return err
	}
	return decodeResponse(body, out)
}

// decodeResponse rejects exchange-reported error payloads and
// unmarshals everything else into out.
func decodeResponse(body []byte, out any) error {
	body = bytes.TrimSpace(body)
	if appErr := exchangeErrorFromBody(body); appErr != nil {
		return appErr
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &MalformedResponseError{Body: body, Cause: err}
	}
	return nil
}
