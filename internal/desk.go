package internal

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/swapdesk/config"
	"github.com/vadiminshakov/swapdesk/internal/events"
	"github.com/vadiminshakov/swapdesk/internal/services/exchange"
	"github.com/vadiminshakov/swapdesk/internal/services/pricer"
	"github.com/vadiminshakov/swapdesk/internal/services/ratefeed"
	"github.com/vadiminshakov/swapdesk/internal/services/wallet"
	"github.com/vadiminshakov/swapdesk/pkg/retrier"
)

const eventBuffer = 16

// Desk owns one exchange session together with its rate feed and wallet.
type Desk struct {
	Config   config.Config
	Session  *exchange.Session
	Feed     *ratefeed.Feed
	Wallet   *wallet.Wallet
	Rates    *events.RateBroadcaster
	Balances *events.BalanceBroadcaster

	logger *zap.Logger
}

// NewDesk creates a desk quoting prices through the given platform client.
// A nil client quotes the configured fallback rate.
func NewDesk(conf config.Config, client any, logger *zap.Logger) (*Desk, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("pair", conf.Pair.String()))

	provider, err := newServiceProvider(client, conf.CoinGeckoID, conf.FallbackRate)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create service provider")
	}
	source, err := provider.Pricer()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s pricer", provider.Name())
	}

	rates := events.NewRateBroadcaster(eventBuffer)
	balances := events.NewBalanceBroadcaster(eventBuffer)

	fallback := pricer.NewFallbackPricer(source, conf.FallbackRate, retrier.New(), logger)
	feed := ratefeed.New(&marketPricer{next: fallback, market: conf.Market}, conf.Pair, conf.FallbackRate,
		ratefeed.WithInterval(conf.RefreshInterval),
		ratefeed.WithRequestTimeout(conf.RequestTimeout),
		ratefeed.WithLogger(logger),
		ratefeed.WithUpdates(rates),
		ratefeed.WithSource(provider.Name()),
	)

	w, err := wallet.New(conf.Pair, conf.Balance, logger, wallet.WithSnapshots(balances), wallet.WithRates(feed))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create wallet")
	}

	session := exchange.NewSession(conf.Pair, w.Balance(), feed, w,
		exchange.WithLogger(logger),
		exchange.WithBounds(conf.MinBase, conf.MaxBase),
		exchange.WithExecuteTimeout(conf.ExecuteTimeout),
	)

	return &Desk{
		Config:   conf,
		Session:  session,
		Feed:     feed,
		Wallet:   w,
		Rates:    rates,
		Balances: balances,
		logger:   logger,
	}, nil
}

// Run keeps the rate fresh until ctx is done.
func (d *Desk) Run(ctx context.Context) error {
	d.logger.Info("starting desk",
		zap.String("market", d.Config.Market.String()),
		zap.String("source", d.Config.Source),
		zap.Duration("refresh_interval", d.Config.RefreshInterval))

	d.Feed.Start(ctx)
	<-ctx.Done()
	d.Feed.Stop()

	d.logger.Info("context done, desk stopped")
	return ctx.Err()
}

// Close stops the rate feed.
func (d *Desk) Close() {
	d.Feed.Stop()
}
