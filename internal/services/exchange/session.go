// Package exchange implements the swap session: two linked amount fields,
// a buy/sell mode, validation against bounds and balance, and settlement
// through a balance-change handler.
package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
	"go.uber.org/zap"
)

// DefaultExecuteTimeout upper bound for settling an exchange.
const DefaultExecuteTimeout = 10 * time.Second

var (
	// DefaultMinBase smallest base amount accepted.
	DefaultMinBase = decimal.RequireFromString("0.000001")
	// DefaultMaxBase largest base amount accepted.
	DefaultMaxBase = decimal.NewFromInt(100)
)

// RateSource provides the latest exchange rate.
type RateSource interface {
	Rate() decimal.Decimal
	Loading() bool
}

// BalanceHandler applies the balance resulting from a settled exchange.
type BalanceHandler interface {
	OnBalanceChange(ctx context.Context, balance domain.Balance) error
}

// BalanceHandlerFunc adapts a function to BalanceHandler.
type BalanceHandlerFunc func(ctx context.Context, balance domain.Balance) error

// OnBalanceChange calls f.
func (f BalanceHandlerFunc) OnBalanceChange(ctx context.Context, balance domain.Balance) error {
	return f(ctx, balance)
}

// State read-only snapshot of a session.
type State struct {
	Mode        domain.Mode
	Base        string
	Quote       string
	Error       string
	ErrorKind   Kind
	Phase       domain.Phase
	Rate        decimal.Decimal
	RateLoading bool
	Balance     domain.Balance
	Receipt     *domain.Receipt
}

// Session holds the state of one exchange form.
type Session struct {
	pair           domain.Pair
	rates          RateSource
	handler        BalanceHandler
	logger         *zap.Logger
	minBase        decimal.Decimal
	maxBase        decimal.Decimal
	executeTimeout time.Duration
	now            func() time.Time

	mu      sync.Mutex
	mode    domain.Mode
	base    string
	quote   string
	err     *ValidationError
	phase   domain.Phase
	balance domain.Balance
	receipt *domain.Receipt
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBounds sets the accepted range of base amounts.
func WithBounds(min, max decimal.Decimal) Option {
	return func(s *Session) {
		s.minBase, s.maxBase = min, max
	}
}

// WithExecuteTimeout bounds the balance handler call.
func WithExecuteTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.executeTimeout = d
		}
	}
}

// WithClock overrides time.Now for receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSession creates a session in buy mode with empty fields.
// handler may be nil when nobody owns the balance outside the session.
func NewSession(pair domain.Pair, balance domain.Balance, rates RateSource, handler BalanceHandler, opts ...Option) *Session {
	s := &Session{
		pair:           pair,
		rates:          rates,
		handler:        handler,
		logger:         zap.NewNop(),
		minBase:        DefaultMinBase,
		maxBase:        DefaultMaxBase,
		executeTimeout: DefaultExecuteTimeout,
		now:            time.Now,
		mode:           domain.ModeBuy,
		phase:          domain.PhaseIdle,
		balance:        balance,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pair returns the pair the session exchanges.
func (s *Session) Pair() domain.Pair {
	return s.pair
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Mode:        s.mode,
		Base:        s.base,
		Quote:       s.quote,
		Phase:       s.phase,
		Rate:        s.rates.Rate(),
		RateLoading: s.rates.Loading(),
		Balance:     s.balance,
	}
	if s.err != nil {
		st.Error, st.ErrorKind = s.err.Message, s.err.Kind
	}
	if s.receipt != nil {
		r := *s.receipt
		st.Receipt = &r
	}
	return st
}

// SwitchMode toggles buy/sell and clears both fields and the error.
func (s *Session) SwitchMode() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = s.mode.Toggle()
	s.base, s.quote = "", ""
	s.err = nil
	s.logger.Debug("exchange mode switched", zap.String("mode", s.mode.String()))
}

// SetAmount handles an edit of the field of the given currency. Input that
// cannot be normalized is ignored. Otherwise the error is cleared, the edited
// field stores the normalized text, bounds are checked on the base equivalent
// and the other field receives the converted amount.
// Edits are ignored unless the session is idle.
func (s *Session) SetAmount(value string, which domain.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseIdle {
		return
	}
	s.setAmount(value, which)
}

// ValidateOnBlur checks the spending side of the form against the balance.
// Bounds are not re-checked here.
func (s *Session) ValidateOnBlur(which domain.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseIdle {
		return
	}
	s.err = nil
	if verr := s.checkBalance(); verr != nil {
		s.err = verr
		s.logger.Debug("blur validation failed",
			zap.String("field", which.String()),
			zap.String("error", verr.Message))
	}
}

// SetMax fills the field of the given currency with the largest amount the
// balance allows in the current mode, truncated to the currency precision.
func (s *Session) SetMax(which domain.Currency) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseIdle {
		return
	}

	spend := s.mode.Spends()
	available := s.balance.Of(spend)
	if which != spend {
		rate := s.rates.Rate()
		if !rate.IsPositive() {
			return
		}
		if which == domain.Base {
			available = available.Div(rate)
		} else {
			available = available.Mul(rate)
		}
	}

	d := which.Decimals()
	s.setAmount(available.Truncate(d).StringFixed(d), which)
}

// CanSubmit reports whether both fields hold amounts and the spending side fits
// the balance.
func (s *Session) CanSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != domain.PhaseIdle || s.base == "" || s.quote == "" {
		return false
	}
	if _, _, err := s.parsed(); err != nil {
		return false
	}
	return s.checkBalance() == nil
}

// SetBalance replaces the balance used for validation and settlement.
func (s *Session) SetBalance(balance domain.Balance) error {
	if balance.IsNegative() {
		return ErrNegativeBalance
	}
	s.mu.Lock()
	s.balance = balance
	s.mu.Unlock()
	return nil
}

// Execute settles the exchange described by the two fields.
// The balance handler is invoked exactly once per successful call, bounded by
// the execute timeout. Failures of the handler leave the session idle with a
// retry message and return an error matching ErrRetryable.
func (s *Session) Execute(ctx context.Context) (domain.Receipt, error) {
	s.mu.Lock()
	if s.phase != domain.PhaseIdle {
		s.mu.Unlock()
		return domain.Receipt{}, ErrNotIdle
	}

	s.err = nil
	baseAmt, quoteAmt, err := s.parsed()
	if err != nil {
		verr := &ValidationError{Kind: KindInvalidAmount, Message: msgInvalidAmounts}
		s.err = verr
		s.mu.Unlock()
		return domain.Receipt{}, verr
	}
	if verr := s.checkBalance(); verr != nil {
		s.err = verr
		s.mu.Unlock()
		return domain.Receipt{}, verr
	}

	mode := s.mode
	next := s.balance
	if mode == domain.ModeBuy {
		next.Base = next.Base.Add(baseAmt)
		next.Quote = next.Quote.Sub(quoteAmt)
	} else {
		next.Base = next.Base.Sub(baseAmt)
		next.Quote = next.Quote.Add(quoteAmt)
	}
	rate := s.rates.Rate()
	s.phase = domain.PhaseLoading
	s.mu.Unlock()

	err = s.settle(ctx, next)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.phase = domain.PhaseIdle
		s.err = &ValidationError{Kind: KindExecution, Message: msgExecFailed}
		s.logger.Warn("exchange failed",
			zap.String("pair", s.pair.String()),
			zap.String("mode", mode.String()),
			zap.Error(err))
		return domain.Receipt{}, &RetryableError{Err: err}
	}

	receipt := domain.Receipt{
		ID:         uuid.NewString(),
		Mode:       mode,
		Pair:       s.pair,
		Base:       baseAmt.StringFixed(domain.BaseDecimals),
		Quote:      quoteAmt.StringFixed(domain.QuoteDecimals),
		Rate:       rate,
		Balance:    next,
		ExecutedAt: s.now(),
	}
	s.balance = next
	s.receipt = &receipt
	s.phase = domain.PhaseSuccess

	s.logger.Info("exchange executed",
		zap.String("id", receipt.ID),
		zap.String("pair", s.pair.String()),
		zap.String("mode", mode.String()),
		zap.String("base", receipt.Base),
		zap.String("quote", receipt.Quote),
		zap.String("rate", rate.String()))

	return receipt, nil
}

// Reset clears both fields and the error and returns to idle.
// It has no effect while an exchange is in flight.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == domain.PhaseLoading {
		return
	}
	s.base, s.quote = "", ""
	s.err = nil
	s.receipt = nil
	s.phase = domain.PhaseIdle
}

func (s *Session) settle(ctx context.Context, next domain.Balance) error {
	if s.handler == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.executeTimeout)
	defer cancel()

	return s.handler.OnBalanceChange(ctx, next)
}
