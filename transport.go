package bitstamp

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const authVersion = "v2"

// Requester abstracts the transport/signing collaborator the client
// depends on. Implementations must surface transport failures, HTTP
// error statuses and exchange-reported errors as distinct error kinds.
type Requester interface {
	// Public performs an unauthenticated GET of an API action.
	Public(ctx context.Context, action string) ([]byte, error)
	// Signed performs an authenticated request with a form-encoded body.
	Signed(ctx context.Context, method, action string, form url.Values) ([]byte, error)
}

// httpRequester is the production Requester: it owns auth header
// construction (nonce, HMAC-SHA256 signature, timestamp) and raw HTTP
// transport.
type httpRequester struct {
	base   *url.URL
	key    string
	secret string
	client *http.Client
	log    *zap.Logger
}

func newHTTPRequester(host, key, secret string, timeout time.Duration, log *zap.Logger) (*httpRequester, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid host %q", host)
	}
	return &httpRequester{
		base:   base,
		key:    key,
		secret: secret,
		client: &http.Client{Timeout: timeout},
		log:    log,
	}, nil
}

func apiPath(action string) string {
	return "/api/" + action + "/"
}

func (r *httpRequester) Public(ctx context.Context, action string) ([]byte, error) {
	path := apiPath(action)
	r.log.Debug("bitstamp GET request", zap.String("path", path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.base.String()+path, nil)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	return r.do(req)
}

func (r *httpRequester) Signed(ctx context.Context, method, action string, form url.Values) ([]byte, error) {
	if r.key == "" || r.secret == "" {
		return nil, validationErrorf("API key and secret are required for signed requests")
	}

	path := apiPath(action)
	r.log.Debug("bitstamp signed request", zap.String("method", method), zap.String("path", path))

	var body string
	contentType := ""
	if len(form) > 0 {
		body = form.Encode()
		contentType = "application/x-www-form-urlencoded"
	}

	xAuth := "BITSTAMP " + r.key
	nonce := uuid.NewString()
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)

	// Signed string recipe fixed by the exchange:
	// X-Auth + method + host + path + query + content type + nonce +
	// timestamp + auth version + request body.
	toSign := xAuth + method + r.base.Host + path + "" + contentType + nonce + timestamp + authVersion + body

	mac := hmac.New(sha256.New, []byte(r.secret))
	mac.Write([]byte(toSign))
	signature := strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))

	req, err := http.NewRequestWithContext(ctx, method, r.base.String()+path, bytes.NewBufferString(body))
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Auth", xAuth)
	req.Header.Set("X-Auth-Version", authVersion)
	req.Header.Set("X-Auth-Timestamp", timestamp)
	req.Header.Set("X-Auth-Nonce", nonce)
	req.Header.Set("X-Auth-Signature", signature)

	return r.do(req)
}

func (r *httpRequester) do(req *http.Request) ([]byte, error) {
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: errors.Wrap(err, "reading response body")}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		if appErr := exchangeErrorFromBody(bytes.TrimSpace(body)); appErr != nil {
			return nil, appErr
		}
		return nil, &ExchangeError{
			Message: "exchange returned HTTP " + resp.Status + ": " + string(body),
			Raw:     body,
		}
	}

	return body, nil
}
