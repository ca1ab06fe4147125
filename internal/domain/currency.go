package domain

// Currency side of the exchange pair.
type Currency int

const (
	// Base the asset being bought or sold.
	Base Currency = iota
	// Quote the currency priced against the base.
	Quote
)

const (
	// BaseDecimals maximal fractional digits of base amounts.
	BaseDecimals int32 = 6
	// QuoteDecimals maximal fractional digits of quote amounts.
	QuoteDecimals int32 = 2
)

// Decimals returns the maximal number of fractional digits for the currency.
func (c Currency) Decimals() int32 {
	if c == Quote {
		return QuoteDecimals
	}
	return BaseDecimals
}

// Other returns the opposite side of the pair.
func (c Currency) Other() Currency {
	if c == Quote {
		return Base
	}
	return Quote
}

// String returns the string representation.
func (c Currency) String() string {
	switch c {
	case Base:
		return "base"
	case Quote:
		return "quote"
	default:
		return "unknown"
	}
}
