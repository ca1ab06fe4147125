package pricer

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

var coinGeckoIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
	"LTC": "litecoin",
}

type simplePriceClient interface {
	SimplePrice(ctx context.Context, ids []string, vsCurrencies []string) (map[string]map[string]decimal.Decimal, error)
}

// CoinGeckoPricer fetches prices from the CoinGecko simple price endpoint.
type CoinGeckoPricer struct {
	client simplePriceClient
	coinID string
}

// NewCoinGeckoPricer creates a pricer. coinID overrides the symbol to id lookup
// and may be empty.
func NewCoinGeckoPricer(client simplePriceClient, coinID string) *CoinGeckoPricer {
	return &CoinGeckoPricer{client: client, coinID: coinID}
}

func (p *CoinGeckoPricer) GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error) {
	id := p.idFor(pair)
	vs := strings.ToLower(pair.To)

	prices, err := p.client.SimplePrice(ctx, []string{id}, []string{vs})
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "coingecko price for %s", pair.String())
	}

	price, ok := prices[id][vs]
	if !ok {
		return decimal.Zero, errors.Wrapf(ErrEmptyPrice, "coingecko has no %s/%s price", id, vs)
	}

	return positive(price, pair, SourceCoinGecko)
}

func (p *CoinGeckoPricer) idFor(pair domain.Pair) string {
	if p.coinID != "" {
		return p.coinID
	}
	if id, ok := coinGeckoIDs[strings.ToUpper(pair.From)]; ok {
		return id
	}
	return strings.ToLower(pair.From)
}
