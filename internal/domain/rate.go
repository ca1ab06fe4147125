package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateUpdate refreshed exchange rate of a pair.
type RateUpdate struct {
	Timestamp time.Time       `json:"ts"`
	Pair      string          `json:"pair"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source,omitempty"`
}
