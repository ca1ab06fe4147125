// Package amount turns free-form numeric keystrokes into canonical decimal strings
// and converts amounts between the two sides of an exchange pair.
package amount

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidInput is returned when a keystroke cannot be normalized and must be ignored.
var ErrInvalidInput = errors.New("invalid amount input")

const separator = '.'

// Normalize canonicalizes raw user input into a decimal string with at most
// maxDecimals fractional digits.
//
// The result is always one of: empty (field cleared), a trailing-separator form such
// as "123." (user is typing the fraction), or a valid decimal literal. Excess
// fractional digits are truncated, never rounded. Commas are accepted as separators
// and anything after a second separator is folded into the fractional part.
func Normalize(raw string, maxDecimals int32) (string, error) {
	if raw == "" {
		return "", nil
	}
	if maxDecimals < 0 {
		return "", errors.Wrapf(ErrInvalidInput, "negative precision %d", maxDecimals)
	}
	if raw == "." || raw == "," {
		return "0.", nil
	}

	integer, fraction, hasSeparator := split(clean(raw))

	integer = strings.TrimLeft(integer, "0")
	if integer == "" {
		integer = "0"
	}

	if !hasSeparator {
		return integer, nil
	}
	if fraction == "" {
		return integer + string(separator), nil
	}

	if int32(len(fraction)) > maxDecimals {
		fraction = fraction[:maxDecimals]
	}
	if fraction == "" {
		return integer, nil
	}

	return integer + string(separator) + fraction, nil
}

// clean keeps digits and separators, standardizing commas to dots.
func clean(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteByte(separator)
		}
	}
	return b.String()
}

// split cuts at the first separator and drops every later one.
func split(s string) (integer, fraction string, hasSeparator bool) {
	idx := strings.IndexByte(s, separator)
	if idx < 0 {
		return s, "", false
	}
	return s[:idx], strings.ReplaceAll(s[idx+1:], string(separator), ""), true
}

// Trim drops a trailing separator so the value can be parsed as a number.
func Trim(s string) string {
	return strings.TrimSuffix(s, string(separator))
}
