// Package pricing provides currency-safe monetary arithmetic: tax
// decomposition at the fixed retail rate and conversion to local currency.
package pricing

import (
	"github.com/shopspring/decimal"

	"puntoventa/internal/core/apperror"
	"puntoventa/internal/core/types"
)

// TaxRate is the fixed retail tax rate applied to all products.
var TaxRate = decimal.New(16, -2) // 0.16

var onePlusTaxRate = decimal.NewFromInt(1).Add(TaxRate)

// Breakdown decomposes a tax-inclusive price into its layers.
// Invariant: WithoutTax + Tax == WithTax exactly.
type Breakdown struct {
	WithoutTax types.Money
	Tax        types.Money
	WithTax    types.Money
}

// DecomposeTax splits a tax-inclusive USD price:
// withoutTax = p/(1+r), tax = p - withoutTax, withTax = p.
// Division precision is kept high enough that rounding only happens at
// the presentation boundary.
func DecomposeTax(withTax types.Money) Breakdown {
	withoutTax := withTax.DivRound(onePlusTaxRate, 10)
	return Breakdown{
		WithoutTax: withoutTax,
		Tax:        withTax.Sub(withoutTax),
		WithTax:    withTax,
	}
}

// ExchangeRate is a local-currency-per-USD conversion factor.
type ExchangeRate struct {
	rate types.Money
}

// NewExchangeRate validates and wraps a conversion factor.
// The rate must be strictly positive.
func NewExchangeRate(rate types.Money) (ExchangeRate, error) {
	if !rate.IsPositive() {
		return ExchangeRate{}, apperror.NewValidation("exchange rate must be positive").
			WithDetail("rate", rate.String())
	}
	return ExchangeRate{rate: rate}, nil
}

// Rate returns the raw conversion factor.
func (e ExchangeRate) Rate() types.Money { return e.rate }

// IsSet reports whether the rate has been configured.
func (e ExchangeRate) IsSet() bool { return e.rate.IsPositive() }

// ToLocal converts a USD amount to local currency units.
func (e ExchangeRate) ToLocal(usd types.Money) types.Money {
	return usd.Mul(e.rate)
}
