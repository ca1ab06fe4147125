// Package config loads desk settings from a yaml file or command-line flags.
// Secrets are read from the environment, optionally populated from a .env file.
package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/swapdesk/internal/domain"
	"github.com/vadiminshakov/swapdesk/internal/services/pricer"
	"gopkg.in/yaml.v3"
)

// Supported rate sources.
const (
	SourceCoinGecko   = pricer.SourceCoinGecko
	SourceBinance     = pricer.SourceBinance
	SourceBybit       = pricer.SourceBybit
	SourceHyperliquid = pricer.SourceHyperliquid
	SourceStatic      = pricer.SourceStatic
)

const (
	defaultPair            = "BTC_USD"
	defaultSource          = SourceCoinGecko
	defaultRefreshInterval = 60 * time.Second
	defaultRequestTimeout  = 10 * time.Second
	defaultExecuteTimeout  = 10 * time.Second
	defaultFallbackRate    = "50000"
	defaultBalanceBase     = "1.5"
	defaultBalanceQuote    = "50000"
	defaultMinBase         = "0.000001"
	defaultMaxBase         = "100"
)

// Environment variables holding credentials.
const (
	EnvCoinGeckoAPIKey       = "COINGECKO_API_KEY"
	EnvHyperliquidPrivateKey = "HYPERLIQUID_PRIVATE_KEY"
	EnvBinanceAPIKey         = "BINANCE_API_KEY"
	EnvBinanceAPISecret      = "BINANCE_API_SECRET"
	EnvBybitAPIKey           = "BYBIT_API_KEY"
	EnvBybitAPISecret        = "BYBIT_API_SECRET"
)

// Config desk settings.
type Config struct {
	// Pair displayed pair, e.g. BTC_USD.
	Pair domain.Pair
	// Market pair quoted by the rate source, e.g. BTC_USDT on exchanges without USD spot.
	Market          domain.Pair
	Source          string
	CoinGeckoID     string
	HyperliquidURL  string
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	ExecuteTimeout  time.Duration
	FallbackRate    decimal.Decimal
	Balance         domain.Balance
	MinBase         decimal.Decimal
	MaxBase         decimal.Decimal
	Credentials     Credentials
}

// Credentials secrets taken from the environment.
type Credentials struct {
	CoinGeckoAPIKey       string
	HyperliquidPrivateKey string
	BinanceAPIKey         string
	BinanceAPISecret      string
	BybitAPIKey           string
	BybitAPISecret        string
}

// ConfigTmp yaml representation; decimals are kept as strings.
type ConfigTmp struct {
	Pair            string        `yaml:"pair"`
	Market          string        `yaml:"market,omitempty"`
	Source          string        `yaml:"source,omitempty"`
	CoinGeckoID     string        `yaml:"coingecko_id,omitempty"`
	HyperliquidURL  string        `yaml:"hyperliquid_url,omitempty"`
	RefreshInterval time.Duration `yaml:"refresh_interval,omitempty"`
	RequestTimeout  time.Duration `yaml:"request_timeout,omitempty"`
	ExecuteTimeout  time.Duration `yaml:"execute_timeout,omitempty"`
	FallbackRate    string        `yaml:"fallback_rate,omitempty"`
	BalanceBase     string        `yaml:"balance_base,omitempty"`
	BalanceQuote    string        `yaml:"balance_quote,omitempty"`
	MinBase         string        `yaml:"min_base,omitempty"`
	MaxBase         string        `yaml:"max_base,omitempty"`
}

// Get loads .env if present and parses the process arguments.
func Get() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "load .env")
	}
	return Parse(os.Args[1:], os.Getenv)
}

// Parse reads --config <path.yaml> or the individual flags from args.
// getenv supplies credentials.
func Parse(args []string, getenv func(string) string) (Config, error) {
	fs := flag.NewFlagSet("swapdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var tmp ConfigTmp
	path := fs.String("config", "", "path to yaml config")
	fs.StringVar(&tmp.Pair, "pair", defaultPair, "exchange pair, example: BTC_USD")
	fs.StringVar(&tmp.Market, "market", "", "pair quoted by the rate source, defaults to --pair")
	fs.StringVar(&tmp.Source, "source", defaultSource, "rate source: coingecko, binance, bybit, hyperliquid, static")
	fs.StringVar(&tmp.CoinGeckoID, "coingecko-id", "", "coingecko coin id of the base currency, example: bitcoin")
	fs.StringVar(&tmp.HyperliquidURL, "hyperliquid-url", "", "hyperliquid api url, defaults to mainnet")
	fs.DurationVar(&tmp.RefreshInterval, "refresh-interval", defaultRefreshInterval, "rate refresh interval")
	fs.DurationVar(&tmp.RequestTimeout, "request-timeout", defaultRequestTimeout, "rate request timeout")
	fs.DurationVar(&tmp.ExecuteTimeout, "execute-timeout", defaultExecuteTimeout, "exchange settlement timeout")
	fs.StringVar(&tmp.FallbackRate, "fallback-rate", defaultFallbackRate, "rate used until the source answers")
	fs.StringVar(&tmp.BalanceBase, "balance-base", defaultBalanceBase, "initial base balance")
	fs.StringVar(&tmp.BalanceQuote, "balance-quote", defaultBalanceQuote, "initial quote balance")
	fs.StringVar(&tmp.MinBase, "min-base", defaultMinBase, "smallest base amount per exchange")
	fs.StringVar(&tmp.MaxBase, "max-base", defaultMaxBase, "largest base amount per exchange")

	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(err, "parse flags")
	}

	if *path != "" {
		f, err := os.ReadFile(*path)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", *path)
		}
		return FromYAML(f, getenv)
	}

	return tmp.build(getenv)
}

// FromYAML parses a yaml document, applying defaults to omitted fields.
func FromYAML(data []byte, getenv func(string) string) (Config, error) {
	var tmp ConfigTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return Config{}, errors.Wrap(err, "decode yaml config")
	}
	return tmp.build(getenv)
}

func (c ConfigTmp) build(getenv func(string) string) (Config, error) {
	c.applyDefaults()

	pair, err := domain.ParsePair(c.Pair)
	if err != nil {
		return Config{}, errors.Wrap(err, "incorrect 'pair' param")
	}
	market := pair
	if c.Market != "" {
		market, err = domain.ParsePair(c.Market)
		if err != nil {
			return Config{}, errors.Wrap(err, "incorrect 'market' param")
		}
	}

	switch c.Source {
	case SourceCoinGecko, SourceBinance, SourceBybit, SourceHyperliquid, SourceStatic:
	default:
		return Config{}, errors.Errorf("unsupported 'source' param %q", c.Source)
	}

	fallback, err := positiveDecimal("fallback_rate", c.FallbackRate)
	if err != nil {
		return Config{}, err
	}
	base, err := nonNegativeDecimal("balance_base", c.BalanceBase)
	if err != nil {
		return Config{}, err
	}
	quote, err := nonNegativeDecimal("balance_quote", c.BalanceQuote)
	if err != nil {
		return Config{}, err
	}
	minBase, err := positiveDecimal("min_base", c.MinBase)
	if err != nil {
		return Config{}, err
	}
	maxBase, err := positiveDecimal("max_base", c.MaxBase)
	if err != nil {
		return Config{}, err
	}
	if minBase.GreaterThan(maxBase) {
		return Config{}, errors.Errorf("'min_base' %s exceeds 'max_base' %s", minBase.String(), maxBase.String())
	}

	if c.RefreshInterval <= 0 || c.RequestTimeout <= 0 || c.ExecuteTimeout <= 0 {
		return Config{}, errors.New("intervals and timeouts must be positive")
	}

	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	return Config{
		Pair:            pair,
		Market:          market,
		Source:          c.Source,
		CoinGeckoID:     c.CoinGeckoID,
		HyperliquidURL:  c.HyperliquidURL,
		RefreshInterval: c.RefreshInterval,
		RequestTimeout:  c.RequestTimeout,
		ExecuteTimeout:  c.ExecuteTimeout,
		FallbackRate:    fallback,
		Balance:         domain.NewBalance(base, quote),
		MinBase:         minBase,
		MaxBase:         maxBase,
		Credentials: Credentials{
			CoinGeckoAPIKey:       getenv(EnvCoinGeckoAPIKey),
			HyperliquidPrivateKey: getenv(EnvHyperliquidPrivateKey),
			BinanceAPIKey:         getenv(EnvBinanceAPIKey),
			BinanceAPISecret:      getenv(EnvBinanceAPISecret),
			BybitAPIKey:           getenv(EnvBybitAPIKey),
			BybitAPISecret:        getenv(EnvBybitAPISecret),
		},
	}, nil
}

func (c *ConfigTmp) applyDefaults() {
	if c.Pair == "" {
		c.Pair = defaultPair
	}
	if c.Source == "" {
		c.Source = defaultSource
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}
	if c.ExecuteTimeout == 0 {
		c.ExecuteTimeout = defaultExecuteTimeout
	}
	if c.FallbackRate == "" {
		c.FallbackRate = defaultFallbackRate
	}
	if c.BalanceBase == "" {
		c.BalanceBase = defaultBalanceBase
	}
	if c.BalanceQuote == "" {
		c.BalanceQuote = defaultBalanceQuote
	}
	if c.MinBase == "" {
		c.MinBase = defaultMinBase
	}
	if c.MaxBase == "" {
		c.MaxBase = defaultMaxBase
	}
}

func positiveDecimal(name, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "incorrect '%s' param in config (must be a decimal)", name)
	}
	if !d.IsPositive() {
		return decimal.Zero, errors.Errorf("incorrect '%s' param in config (must be positive): %s", name, v)
	}
	return d, nil
}

func nonNegativeDecimal(name, v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "incorrect '%s' param in config (must be a decimal)", name)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.Errorf("incorrect '%s' param in config (must not be negative): %s", name, v)
	}
	return d, nil
}
