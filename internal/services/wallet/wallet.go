// Package wallet holds the in-memory balance of the desk and applies the
// balances produced by settled exchanges.
package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
	"github.com/vadiminshakov/swapdesk/internal/events"
	"go.uber.org/zap"
)

// ErrNegativeBalance balances are non-negative only.
var ErrNegativeBalance = errors.New("balance must not be negative")

// RateSource provides the price attached to balance snapshots.
type RateSource interface {
	Rate() decimal.Decimal
}

// Wallet in-memory holdings of both currencies of a pair.
type Wallet struct {
	mu     sync.RWMutex
	pair   domain.Pair
	logger *zap.Logger
	wallet map[string]decimal.Decimal

	rates     RateSource
	snapshots *events.BalanceBroadcaster
	now       func() time.Time
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithSnapshots publishes a snapshot after every balance change.
func WithSnapshots(b *events.BalanceBroadcaster) Option {
	return func(w *Wallet) {
		w.snapshots = b
	}
}

// WithRates attaches the current rate to published snapshots.
func WithRates(r RateSource) Option {
	return func(w *Wallet) {
		w.rates = r
	}
}

// New creates a Wallet holding the initial balance.
func New(pair domain.Pair, initial domain.Balance, logger *zap.Logger, opts ...Option) (*Wallet, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if initial.IsNegative() {
		return nil, errors.Wrapf(ErrNegativeBalance, "initial balance %s %s / %s %s",
			initial.Base.String(), pair.From, initial.Quote.String(), pair.To)
	}

	w := &Wallet{
		pair:   pair,
		logger: logger,
		wallet: map[string]decimal.Decimal{pair.From: initial.Base, pair.To: initial.Quote},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	logger.Info("wallet init",
		zap.String("pair", pair.String()),
		zap.String("base", initial.Base.String()),
		zap.String("quote", initial.Quote.String()))

	return w, nil
}

// Balance returns the current holdings.
func (w *Wallet) Balance() domain.Balance {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return domain.NewBalance(w.wallet[w.pair.From], w.wallet[w.pair.To])
}

// GetBalance returns the amount held in the given currency code.
func (w *Wallet) GetBalance(_ context.Context, currency string) (decimal.Decimal, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.wallet[currency]
	if !ok {
		return decimal.Zero, errors.Errorf("unknown currency %s", currency)
	}
	return v, nil
}

// OnBalanceChange replaces the holdings with the balance of a settled exchange.
func (w *Wallet) OnBalanceChange(ctx context.Context, balance domain.Balance) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "apply balance")
	}
	if balance.IsNegative() {
		return errors.Wrapf(ErrNegativeBalance, "got %s %s / %s %s",
			balance.Base.String(), w.pair.From, balance.Quote.String(), w.pair.To)
	}

	w.mu.Lock()
	prev := domain.NewBalance(w.wallet[w.pair.From], w.wallet[w.pair.To])
	w.wallet[w.pair.From] = balance.Base
	w.wallet[w.pair.To] = balance.Quote
	w.mu.Unlock()

	w.logger.Info("balance changed",
		zap.String("pair", w.pair.String()),
		zap.String("base_before", prev.Base.String()),
		zap.String("base", balance.Base.String()),
		zap.String("quote_before", prev.Quote.String()),
		zap.String("quote", balance.Quote.String()))

	w.publish(balance)

	return nil
}

func (w *Wallet) publish(balance domain.Balance) {
	price := decimal.Zero
	if w.rates != nil {
		price = w.rates.Rate()
	}
	w.snapshots.Publish(domain.NewBalanceSnapshot(w.now(), w.pair, balance, price))
}
