// Package currency converts between main-unit decimal amounts and
// integer subunit amounts (satoshi, cent) per currency. All arithmetic
// is done on scaled decimals so conversions are exact within each
// currency's precision.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// decimalPlaces is the smallest-unit exponent per supported currency.
var decimalPlaces = map[string]int32{
	"USD":  2,
	"EUR":  2,
	"BTC":  8,
	"BCH":  8,
	"ETH":  12,
	"USDC": 6,
	"USDT": 6,
}

// ConversionError reports an amount that could not be converted for a
// currency.
type ConversionError struct {
	Input    string
	Currency string
	Reason   string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %q for currency %s: %s", e.Input, e.Currency, e.Reason)
}

// Supported reports whether the currency code has a known subunit
// precision.
func Supported(code string) bool {
	_, ok := decimalPlaces[code]
	return ok
}

// Decimals returns the number of decimal places of the currency's main
// unit.
func Decimals(code string) (int32, bool) {
	d, ok := decimalPlaces[code]
	return d, ok
}

// ToSubunit converts a main-unit decimal amount to a signed subunit
// integer. Amounts with more fractional digits than the currency
// supports are rounded half away from zero.
func ToSubunit(amount decimal.Decimal, code string) (int64, error) {
	places, ok := decimalPlaces[code]
	if !ok {
		return 0, &ConversionError{Input: amount.String(), Currency: code, Reason: "unsupported currency"}
	}
	return amount.Shift(places).Round(0).IntPart(), nil
}

// ParseToSubunit parses a decimal string and converts it to subunits.
func ParseToSubunit(s, code string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &ConversionError{Input: s, Currency: code, Reason: "not a number"}
	}
	return ToSubunit(d, code)
}

// ToMainUnit converts a signed subunit integer back to a main-unit
// decimal.
func ToMainUnit(subunits int64, code string) (decimal.Decimal, error) {
	places, ok := decimalPlaces[code]
	if !ok {
		return decimal.Decimal{}, &ConversionError{
			Input:    fmt.Sprintf("%d", subunits),
			Currency: code,
			Reason:   "unsupported currency",
		}
	}
	return decimal.New(subunits, -places), nil
}
