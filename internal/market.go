package internal

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/swapdesk/internal/domain"
	"github.com/vadiminshakov/swapdesk/internal/services/pricer"
)

// marketPricer quotes the displayed pair through the market pair of the source,
// e.g. BTC_USD through BTC_USDT.
type marketPricer struct {
	next   pricer.Pricer
	market domain.Pair
}

func (p *marketPricer) GetPrice(ctx context.Context, _ domain.Pair) (decimal.Decimal, error) {
	return p.next.GetPrice(ctx, p.market)
}
