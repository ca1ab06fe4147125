// Package domain defines core data structures used throughout the exchange desk.
package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Pair exchange pair.
type Pair struct {
	// From base currency symbol.
	From string
	// To quote currency symbol.
	To string
}

// String returns the string representation.
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Symbol returns the concatenated symbol representation.
func (p Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.From, p.To)
}

// Code returns the symbol of the given side of the pair.
func (p Pair) Code(c Currency) string {
	if c == Quote {
		return p.To
	}
	return p.From
}

// ParsePair parses BASE_QUOTE notation, e.g. BTC_USD.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(strings.TrimSpace(s), "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, errors.Errorf("invalid pair %q, expected BASE_QUOTE", s)
	}
	return Pair{From: strings.ToUpper(parts[0]), To: strings.ToUpper(parts[1])}, nil
}
