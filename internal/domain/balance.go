package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance holdings of both sides of the pair.
type Balance struct {
	Base  decimal.Decimal
	Quote decimal.Decimal
}

// NewBalance creates a new Balance.
func NewBalance(base, quote decimal.Decimal) Balance {
	return Balance{Base: base, Quote: quote}
}

// Of returns the amount held in the given currency.
func (b Balance) Of(c Currency) decimal.Decimal {
	if c == Quote {
		return b.Quote
	}
	return b.Base
}

// IsNegative reports whether any side is below zero.
func (b Balance) IsNegative() bool {
	return b.Base.IsNegative() || b.Quote.IsNegative()
}

// Equal reports whether both sides are numerically equal.
func (b Balance) Equal(o Balance) bool {
	return b.Base.Equal(o.Base) && b.Quote.Equal(o.Quote)
}

// BalanceSnapshot wallet state for a pair.
// Uses string fields to avoid float precision issues when consumed by UI layers.
type BalanceSnapshot struct {
	Timestamp time.Time `json:"ts"`
	Pair      string    `json:"pair"`
	Base      string    `json:"base"`
	Quote     string    `json:"quote"`
	Price     string    `json:"price,omitempty"`
}

// NewBalanceSnapshot creates a new BalanceSnapshot.
func NewBalanceSnapshot(timestamp time.Time, pair Pair, balance Balance, price decimal.Decimal) BalanceSnapshot {
	s := BalanceSnapshot{
		Timestamp: timestamp,
		Pair:      pair.String(),
		Base:      balance.Base.StringFixed(BaseDecimals),
		Quote:     balance.Quote.StringFixed(QuoteDecimals),
	}
	if price.IsPositive() {
		s.Price = price.String()
	}
	return s
}
