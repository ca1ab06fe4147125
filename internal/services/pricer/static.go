package pricer

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

// StaticPricer always answers with the same price. Used for offline runs.
type StaticPricer struct {
	price decimal.Decimal
}

func NewStaticPricer(price decimal.Decimal) *StaticPricer {
	return &StaticPricer{price: price}
}

func (p *StaticPricer) GetPrice(_ context.Context, pair domain.Pair) (decimal.Decimal, error) {
	return positive(p.price, pair, SourceStatic)
}
