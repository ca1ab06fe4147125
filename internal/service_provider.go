package internal

import (
	"fmt"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/swapdesk/internal/clients"
	"github.com/vadiminshakov/swapdesk/internal/services/pricer"
)

// serviceProvider builds platform-specific services.
type serviceProvider interface {
	Name() string
	Pricer() (pricer.Pricer, error)
}

// newServiceProvider creates a service provider based on the client type.
// This is the single point of truth for dispatching to platform-specific implementations.
// A nil client selects the static source quoting staticPrice.
func newServiceProvider(client any, coinID string, staticPrice decimal.Decimal) (serviceProvider, error) {
	switch c := client.(type) {
	case *clients.CoinGeckoClient:
		return &coinGeckoProvider{client: c, coinID: coinID}, nil
	case *binance.Client:
		return &binanceProvider{client: c}, nil
	case *bybit.Client:
		return &bybitProvider{client: c}, nil
	case *clients.HyperliquidClient:
		return &hyperliquidProvider{client: c}, nil
	case nil:
		return &staticProvider{price: staticPrice}, nil
	default:
		return nil, fmt.Errorf("unsupported client type: %T", client)
	}
}

type coinGeckoProvider struct {
	client *clients.CoinGeckoClient
	coinID string
}

func (p *coinGeckoProvider) Name() string { return pricer.SourceCoinGecko }
func (p *coinGeckoProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewCoinGeckoPricer(p.client, p.coinID), nil
}

type binanceProvider struct {
	client *binance.Client
}

func (p *binanceProvider) Name() string { return pricer.SourceBinance }
func (p *binanceProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewBinancePricer(p.client), nil
}

type bybitProvider struct {
	client *bybit.Client
}

func (p *bybitProvider) Name() string { return pricer.SourceBybit }
func (p *bybitProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewBybitPricer(p.client), nil
}

type hyperliquidProvider struct {
	client *clients.HyperliquidClient
}

func (p *hyperliquidProvider) Name() string { return pricer.SourceHyperliquid }
func (p *hyperliquidProvider) Pricer() (pricer.Pricer, error) {
	return pricer.NewHyperliquidPricer(p.client.Info()), nil
}

type staticProvider struct {
	price decimal.Decimal
}

func (p *staticProvider) Name() string { return pricer.SourceStatic }
func (p *staticProvider) Pricer() (pricer.Pricer, error) {
	if !p.price.IsPositive() {
		return nil, fmt.Errorf("static price must be positive, got %s", p.price.String())
	}
	return pricer.NewStaticPricer(p.price), nil
}
