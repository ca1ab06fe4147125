// Package pricer provides exchange-rate sources for a trading pair.
package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

// ErrEmptyPrice is returned when a source answers without a usable price.
var ErrEmptyPrice = errors.New("empty price")

// Pricer returns the current price of one base unit in quote units.
type Pricer interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}

// Source names accepted in configuration.
const (
	SourceCoinGecko   = "coingecko"
	SourceBinance     = "binance"
	SourceBybit       = "bybit"
	SourceHyperliquid = "hyperliquid"
	SourceStatic      = "static"
)

func positive(price decimal.Decimal, pair domain.Pair, source string) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, errors.Wrapf(ErrEmptyPrice, "%s returned %s for %s", source, price.String(), pair.String())
	}
	return price, nil
}
