package domain

import "github.com/pkg/errors"

// Mode exchange direction.
type Mode int

const (
	// ModeBuy acquire base, spend quote.
	ModeBuy Mode = iota
	// ModeSell acquire quote, spend base.
	ModeSell
)

const (
	modeStringBuy  = "buy"
	modeStringSell = "sell"
)

// Toggle returns the opposite mode.
func (m Mode) Toggle() Mode {
	if m == ModeBuy {
		return ModeSell
	}
	return ModeBuy
}

// Spends returns the currency the mode pays with.
func (m Mode) Spends() Currency {
	if m == ModeSell {
		return Base
	}
	return Quote
}

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeBuy:
		return modeStringBuy
	case ModeSell:
		return modeStringSell
	default:
		return "unknown"
	}
}

// ParseMode parses "buy" or "sell".
func ParseMode(s string) (Mode, error) {
	switch s {
	case modeStringBuy:
		return ModeBuy, nil
	case modeStringSell:
		return ModeSell, nil
	}
	return ModeBuy, errors.Errorf("unknown exchange mode %q", s)
}
