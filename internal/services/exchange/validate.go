package exchange

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
	"github.com/vadiminshakov/swapdesk/internal/services/amount"
	"go.uber.org/zap"
)

// setAmount must be called with mu held.
func (s *Session) setAmount(value string, which domain.Currency) {
	normalized, err := amount.Normalize(value, which.Decimals())
	if err != nil {
		return
	}

	s.err = nil
	s.setField(which, normalized)
	if normalized == "" {
		s.setField(which.Other(), "")
		return
	}

	v, err := parseAmount(normalized)
	if err != nil {
		return
	}

	rate := s.rates.Rate()
	baseEq, err := amount.BaseEquivalent(v, which, rate)
	if err != nil {
		s.setField(which.Other(), "")
		s.logger.Warn("cannot convert amount", zap.String("rate", rate.String()), zap.Error(err))
		return
	}

	switch {
	case baseEq.LessThan(s.minBase):
		s.err = minError(s.pair, s.minBase)
	case baseEq.GreaterThan(s.maxBase):
		s.err = maxError(s.pair, s.maxBase)
	}

	counterpart, err := amount.Convert(v, which, rate)
	if err != nil {
		s.setField(which.Other(), "")
		s.logger.Warn("cannot convert amount", zap.String("rate", rate.String()), zap.Error(err))
		return
	}
	s.setField(which.Other(), counterpart)
}

// checkBalance must be called with mu held.
func (s *Session) checkBalance() *ValidationError {
	spend := s.mode.Spends()
	raw := s.field(spend)
	if raw == "" {
		return nil
	}
	v, err := parseAmount(raw)
	if err != nil {
		return nil
	}
	if v.GreaterThan(s.balance.Of(spend)) {
		return insufficientError(s.pair, spend)
	}
	return nil
}

// parsed must be called with mu held.
func (s *Session) parsed() (decimal.Decimal, decimal.Decimal, error) {
	base, err := parseAmount(s.base)
	if err != nil {
		return decimal.Zero, decimal.Zero, errors.Wrap(err, "base amount")
	}
	quote, err := parseAmount(s.quote)
	if err != nil {
		return decimal.Zero, decimal.Zero, errors.Wrap(err, "quote amount")
	}
	return base, quote, nil
}

func (s *Session) field(c domain.Currency) string {
	if c == domain.Quote {
		return s.quote
	}
	return s.base
}

func (s *Session) setField(c domain.Currency, v string) {
	if c == domain.Quote {
		s.quote = v
	} else {
		s.base = v
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(amount.Trim(s))
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse amount %q", s)
	}
	return v, nil
}
