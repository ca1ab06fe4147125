// Package ratefeed keeps the exchange rate of a pair fresh in the background.
package ratefeed

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
	"github.com/vadiminshakov/swapdesk/internal/events"
	"go.uber.org/zap"
)

const (
	// DefaultInterval period between two refreshes.
	DefaultInterval = 60 * time.Second
	// DefaultRequestTimeout upper bound for a single fetch.
	DefaultRequestTimeout = 10 * time.Second
)

//go:generate mockgen -source=feed.go -destination=mock_pricer_test.go -package=ratefeed_test Pricer

// Pricer defines an interface for getting the price of a trading pair.
type Pricer interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}

// Feed holds the latest known rate of a pair and refreshes it on a fixed interval.
// Readers always see the last successfully fetched rate; fetch failures are logged
// and leave the previous rate in place.
type Feed struct {
	pricer         Pricer
	pair           domain.Pair
	source         string
	interval       time.Duration
	requestTimeout time.Duration
	logger         *zap.Logger
	updates        *events.RateBroadcaster
	now            func() time.Time

	mu        sync.RWMutex
	rate      decimal.Decimal
	loading   bool
	updatedAt time.Time

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

// Option configures a Feed.
type Option func(*Feed)

// WithInterval sets the refresh period.
func WithInterval(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.interval = d
		}
	}
}

// WithRequestTimeout bounds every fetch.
func WithRequestTimeout(d time.Duration) Option {
	return func(f *Feed) {
		if d > 0 {
			f.requestTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Feed) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithUpdates publishes every refreshed rate to the broadcaster.
func WithUpdates(b *events.RateBroadcaster) Option {
	return func(f *Feed) {
		f.updates = b
	}
}

// WithSource names the price source in published updates.
func WithSource(name string) Option {
	return func(f *Feed) {
		f.source = name
	}
}

// New creates a Feed for pair starting from initial until the first fetch succeeds.
// The feed reports loading until the first refresh completes.
func New(pricer Pricer, pair domain.Pair, initial decimal.Decimal, opts ...Option) *Feed {
	f := &Feed{
		pricer:         pricer,
		pair:           pair,
		interval:       DefaultInterval,
		requestTimeout: DefaultRequestTimeout,
		logger:         zap.NewNop(),
		now:            time.Now,
		rate:           initial,
		loading:        true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Rate returns the latest known rate.
func (f *Feed) Rate() decimal.Decimal {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.rate
}

// Loading reports whether a refresh is in flight or none has completed yet.
func (f *Feed) Loading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}

// UpdatedAt returns the time of the last successful refresh.
func (f *Feed) UpdatedAt() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.updatedAt
}

// Refresh fetches the rate once. On failure the previous rate is kept and the
// error is returned for the caller to observe; it never reaches the session.
func (f *Feed) Refresh(ctx context.Context) error {
	f.setLoading(true)
	defer f.setLoading(false)

	fetchCtx, cancel := context.WithTimeout(ctx, f.requestTimeout)
	defer cancel()

	price, err := f.pricer.GetPrice(fetchCtx, f.pair)
	if err == nil && !price.IsPositive() {
		err = errNonPositive(price)
	}
	if err != nil {
		f.logger.Warn("rate refresh failed, keeping previous rate",
			zap.String("pair", f.pair.String()),
			zap.String("rate", f.Rate().String()),
			zap.Error(err))
		return err
	}

	now := f.now()
	f.mu.Lock()
	f.rate = price
	f.updatedAt = now
	f.mu.Unlock()

	f.logger.Debug("rate refreshed", zap.String("pair", f.pair.String()), zap.String("rate", price.String()))
	f.updates.Publish(domain.RateUpdate{Timestamp: now, Pair: f.pair.String(), Rate: price, Source: f.source})

	return nil
}

// Start refreshes immediately and then on every interval until ctx is done or
// Stop is called. Calling Start on a running feed is a no-op.
func (f *Feed) Start(ctx context.Context) {
	f.lifecycle.Lock()
	defer f.lifecycle.Unlock()
	if f.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	f.cancel = cancel
	f.done = make(chan struct{})

	go f.run(ctx, f.done)
}

// Stop cancels the refresh loop and waits for it to exit. Safe to call repeatedly.
func (f *Feed) Stop() {
	f.lifecycle.Lock()
	defer f.lifecycle.Unlock()
	if f.done == nil {
		return
	}
	f.cancel()
	<-f.done
	f.cancel = nil
	f.done = nil
}

func (f *Feed) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.logger.Info("starting rate refresh loop", zap.String("pair", f.pair.String()), zap.Duration("interval", f.interval))
	_ = f.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("context done, stopping rate refresh loop", zap.String("pair", f.pair.String()))
			return
		case <-ticker.C:
			_ = f.Refresh(ctx)
		}
	}
}

func (f *Feed) setLoading(v bool) {
	f.mu.Lock()
	f.loading = v
	f.mu.Unlock()
}
