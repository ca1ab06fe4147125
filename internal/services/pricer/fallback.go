package pricer

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
	"github.com/vadiminshakov/swapdesk/pkg/retrier"
	"go.uber.org/zap"
)

// FallbackPricer retries the wrapped source and, when it keeps failing, answers
// with the last known good price or the configured default. It never returns an error.
type FallbackPricer struct {
	next         Pricer
	defaultPrice decimal.Decimal
	retrier      *retrier.Retrier
	logger       *zap.Logger

	mu   sync.RWMutex
	last map[domain.Pair]decimal.Decimal
}

// NewFallbackPricer creates a FallbackPricer. A nil retrier means a single attempt.
func NewFallbackPricer(next Pricer, defaultPrice decimal.Decimal, r *retrier.Retrier, logger *zap.Logger) *FallbackPricer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if r == nil {
		r = retrier.New(retrier.WithMaxRetries(0))
	}
	return &FallbackPricer{
		next:         next,
		defaultPrice: defaultPrice,
		retrier:      r,
		logger:       logger,
		last:         make(map[domain.Pair]decimal.Decimal),
	}
}

func (p *FallbackPricer) GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error) {
	price, err := retrier.DoWithData(p.retrier, ctx, func(ctx context.Context) (decimal.Decimal, error) {
		price, err := p.next.GetPrice(ctx, pair)
		if err != nil {
			return decimal.Zero, err
		}
		return positive(price, pair, "source")
	})
	if err == nil {
		p.mu.Lock()
		p.last[pair] = price
		p.mu.Unlock()
		return price, nil
	}

	fallback, stale := p.lastKnown(pair)
	p.logger.Warn("price source failed, using fallback price",
		zap.String("pair", pair.String()),
		zap.String("price", fallback.String()),
		zap.Bool("stale", stale),
		zap.Error(err))

	return fallback, nil
}

// lastKnown returns the last good price, or the default when none was seen yet.
func (p *FallbackPricer) lastKnown(pair domain.Pair) (decimal.Decimal, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if price, ok := p.last[pair]; ok {
		return price, true
	}
	return p.defaultPrice, false
}
