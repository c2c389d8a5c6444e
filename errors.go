package bitstamp

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/coinmesh/bitstamp/entity"
)

// ValidationError reports bad caller input detected before any request
// is sent.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failed request that produced no usable
// response.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string { return "request failed: " + e.Cause.Error() }
func (e *TransportError) Unwrap() error { return e.Cause }

// MalformedResponseError reports a response body that does not match
// the expected JSON shape.
type MalformedResponseError struct {
	Body  []byte
	Cause error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed exchange response: %v", e.Cause)
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// ExchangeError is an application-level error reported inside an
// otherwise well-formed exchange response.
type ExchangeError struct {
	Message string
	Raw     json.RawMessage
}

func (e *ExchangeError) Error() string { return e.Message }

// InsufficientFundsError is an ExchangeError whose message matched one
// of the exchange's insufficient-funds phrasings. Message holds the
// matched exchange string verbatim.
type InsufficientFundsError struct {
	ExchangeError
}

func (e *InsufficientFundsError) Unwrap() error { return &e.ExchangeError }

// AmbiguousCurrencyError reports a raw transaction whose currency could
// not be inferred because every currency field was zero or absent.
type AmbiguousCurrencyError struct {
	Raw entity.RawTransaction
}

func (e *AmbiguousCurrencyError) Error() string {
	return fmt.Sprintf("cannot infer currency of transaction %d: no non-zero currency field", e.Raw.ID)
}

// MissingFieldError reports a response lacking a field the caller
// requires.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("response is missing required field %q", e.Field)
}

// The exchange reports insufficient funds with human-readable messages
// in exactly two phrasings, one for buys and one for sells.
var (
	buyInsufficientFundsRe = regexp.MustCompile(
		`^You need [0-9.]+ [A-Z]+ to open that order\. You have only [0-9.]+ [A-Z]+ available\. Check your account balance for details\.$`)
	sellInsufficientFundsRe = regexp.MustCompile(
		`^You have only [0-9.]+ [A-Z]+ available\. Check your account balance for details\.$`)
)

// errorEnvelope matches the two error payload shapes the exchange
// uses: {"status":"error","reason":...} and {"error":{"__all__":[...]}}.
type errorEnvelope struct {
	Status string          `json:"status"`
	Reason json.RawMessage `json:"reason"`
	Error  json.RawMessage `json:"error"`
	Code   string          `json:"code"`
}

// exchangeErrorFromBody inspects a JSON object body and returns the
// matching application error, or nil if the body reports no error.
func exchangeErrorFromBody(body []byte) error {
	if len(body) == 0 || body[0] != '{' {
		return nil
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Status != "error" && len(env.Error) == 0 {
		return nil
	}

	for _, msg := range errorMessages(env) {
		if buyInsufficientFundsRe.MatchString(msg) || sellInsufficientFundsRe.MatchString(msg) {
			return &InsufficientFundsError{ExchangeError{Message: msg, Raw: body}}
		}
	}

	return &ExchangeError{Message: fmt.Sprintf("exchange reported error: %s", body), Raw: body}
}

// errorMessages collects human-readable strings from the reason/error
// members, which may be plain strings or {"__all__": [...]} objects.
func errorMessages(env errorEnvelope) []string {
	var out []string
	for _, raw := range []json.RawMessage{env.Reason, env.Error} {
		if len(raw) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			out = append(out, s)
			continue
		}
		var all struct {
			All []string `json:"__all__"`
		}
		if err := json.Unmarshal(raw, &all); err == nil {
			out = append(out, all.All...)
		}
	}
	return out
}
