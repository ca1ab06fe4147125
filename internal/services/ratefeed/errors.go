package ratefeed

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrNonPositiveRate is returned when a source reports a zero or negative rate.
var ErrNonPositiveRate = errors.New("non-positive rate")

func errNonPositive(price decimal.Decimal) error {
	return errors.Wrapf(ErrNonPositiveRate, "got %s", price.String())
}
