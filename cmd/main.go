// Command swapdesk runs a terminal currency exchange desk: a buy/sell form over
// an in-memory balance, priced by a periodically refreshed exchange rate.
//
// Usage:
//
//	swapdesk --config desk.yaml
//	swapdesk --pair BTC_USD --source coingecko (uses CLI arguments)
//
// Optional environment variables (also read from .env):
//
//	COINGECKO_API_KEY
//	HYPERLIQUID_PRIVATE_KEY
//	BINANCE_API_KEY, BINANCE_API_SECRET
//	BYBIT_API_KEY, BYBIT_API_SECRET
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/swapdesk/config"
	"github.com/vadiminshakov/swapdesk/internal"
	"github.com/vadiminshakov/swapdesk/internal/clients"
	"github.com/vadiminshakov/swapdesk/internal/tui"
)

func main() {
	conf, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	client, err := newClient(conf)
	if err != nil {
		logger.Fatal("failed to create client", zap.String("source", conf.Source), zap.Error(err))
	}

	desk, err := internal.NewDesk(conf, client, logger)
	if err != nil {
		logger.Fatal("failed to create desk", zap.Error(err))
	}
	defer desk.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return desk.Run(ctx)
	})
	g.Go(func() error {
		logEvents(ctx, desk, logger)
		return nil
	})
	g.Go(func() error {
		defer stop()
		return tui.Run(ctx, desk.Session)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("desk stopped with error", zap.Error(err))
	}
}

func newClient(conf config.Config) (any, error) {
	creds := conf.Credentials
	switch conf.Source {
	case config.SourceCoinGecko:
		return clients.NewCoinGeckoClient(creds.CoinGeckoAPIKey, conf.RequestTimeout), nil
	case config.SourceBinance:
		return clients.NewBinanceClient(creds.BinanceAPIKey, creds.BinanceAPISecret), nil
	case config.SourceBybit:
		return clients.NewBybitClient(creds.BybitAPIKey, creds.BybitAPISecret), nil
	case config.SourceHyperliquid:
		return clients.NewHyperliquidClient(creds.HyperliquidPrivateKey, conf.HyperliquidURL)
	case config.SourceStatic:
		return nil, nil
	default:
		return nil, errors.Errorf("unsupported source: %s", conf.Source)
	}
}

// newLogger writes JSON logs to swapdesk.log so the terminal stays usable for the form.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"swapdesk.log"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func logEvents(ctx context.Context, desk *internal.Desk, logger *zap.Logger) {
	rates := desk.Rates.Subscribe()
	defer desk.Rates.Unsubscribe(rates)
	balances := desk.Balances.Subscribe()
	defer desk.Balances.Unsubscribe(balances)

	for {
		select {
		case <-ctx.Done():
			return
		case u := <-rates:
			logger.Info("rate update",
				zap.String("pair", u.Pair),
				zap.String("rate", u.Rate.String()),
				zap.String("source", u.Source))
		case s := <-balances:
			logger.Info("balance snapshot",
				zap.String("pair", s.Pair),
				zap.String("base", s.Base),
				zap.String("quote", s.Quote),
				zap.String("price", s.Price))
		}
	}
}
