package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt result of a settled exchange.
type Receipt struct {
	ID         string
	Mode       Mode
	Pair       Pair
	Base       string
	Quote      string
	Rate       decimal.Decimal
	Balance    Balance
	ExecutedAt time.Time
}

// Acquired returns the amount and currency received by the exchange.
func (r Receipt) Acquired() (string, Currency) {
	if r.Mode == ModeSell {
		return r.Quote, Quote
	}
	return r.Base, Base
}

// Spent returns the amount and currency paid by the exchange.
func (r Receipt) Spent() (string, Currency) {
	if r.Mode == ModeSell {
		return r.Base, Base
	}
	return r.Quote, Quote
}
