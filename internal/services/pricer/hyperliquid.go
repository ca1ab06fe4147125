package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	hyperliquid "github.com/sonirico/go-hyperliquid"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

// HyperliquidPricer fetches prices from Hyperliquid public Info API.
type HyperliquidPricer struct {
	info *hyperliquid.Info
}

func NewHyperliquidPricer(info *hyperliquid.Info) *HyperliquidPricer {
	return &HyperliquidPricer{info: info}
}

func (p *HyperliquidPricer) GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error) {
	if p.info == nil {
		return decimal.Zero, errors.New("hyperliquid info client is nil")
	}

	mids, err := p.info.AllMids(ctx)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "hyperliquid mids")
	}

	// mids are keyed by base coin (e.g., "BTC") and quoted in USDC
	mid, ok := mids[pair.From]
	if !ok || mid == "" {
		return decimal.Zero, errors.Wrapf(ErrEmptyPrice, "hyperliquid API returned empty mid price for %s", pair.From)
	}

	price, err := decimal.NewFromString(mid)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "decode hyperliquid mid")
	}
	return positive(price, pair, SourceHyperliquid)
}
