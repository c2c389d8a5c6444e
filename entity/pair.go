package entity

import (
	"fmt"
	"strings"
)

// Pair is an ordered base/quote currency pair.
type Pair struct {
	Base  string
	Quote string
}

func NewPair(base, quote string) Pair {
	return Pair{Base: strings.ToUpper(base), Quote: strings.ToUpper(quote)}
}

// Token returns the lowercase concatenation used by the exchange to key
// pair-scoped endpoints, e.g. "btcusd".
func (p Pair) Token() string {
	return strings.ToLower(p.Base) + strings.ToLower(p.Quote)
}

func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}
