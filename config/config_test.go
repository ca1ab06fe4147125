package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestParse_Defaults(t *testing.T) {
	c, err := Parse(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, domain.Pair{From: "BTC", To: "USD"}, c.Pair)
	assert.Equal(t, c.Pair, c.Market)
	assert.Equal(t, SourceCoinGecko, c.Source)
	assert.Equal(t, 60*time.Second, c.RefreshInterval)
	assert.True(t, c.FallbackRate.Equal(decimal.NewFromInt(50000)))
	assert.True(t, c.Balance.Equal(domain.NewBalance(decimal.RequireFromString("1.5"), decimal.NewFromInt(50000))))
	assert.True(t, c.MinBase.Equal(decimal.RequireFromString("0.000001")))
	assert.True(t, c.MaxBase.Equal(decimal.NewFromInt(100)))
}

func TestParse_Flags(t *testing.T) {
	c, err := Parse([]string{
		"--pair", "eth_usd",
		"--market", "ETH_USDT",
		"--source", "binance",
		"--refresh-interval", "30s",
		"--balance-quote", "1000",
	}, env(map[string]string{EnvBinanceAPIKey: "key"}))
	require.NoError(t, err)

	assert.Equal(t, domain.Pair{From: "ETH", To: "USD"}, c.Pair)
	assert.Equal(t, domain.Pair{From: "ETH", To: "USDT"}, c.Market)
	assert.Equal(t, SourceBinance, c.Source)
	assert.Equal(t, 30*time.Second, c.RefreshInterval)
	assert.True(t, c.Balance.Quote.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "key", c.Credentials.BinanceAPIKey)
}

func TestParse_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desk.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pair: BTC_USD
market: BTC_USDT
source: bybit
refresh_interval: 2m
fallback_rate: "42000.5"
balance_base: "0.25"
`), 0o600))

	c, err := Parse([]string{"--config", path}, env(map[string]string{EnvCoinGeckoAPIKey: "cg"}))
	require.NoError(t, err)

	assert.Equal(t, SourceBybit, c.Source)
	assert.Equal(t, domain.Pair{From: "BTC", To: "USDT"}, c.Market)
	assert.Equal(t, 2*time.Minute, c.RefreshInterval)
	assert.Equal(t, 10*time.Second, c.ExecuteTimeout)
	assert.True(t, c.FallbackRate.Equal(decimal.RequireFromString("42000.5")))
	assert.True(t, c.Balance.Base.Equal(decimal.RequireFromString("0.25")))
	assert.True(t, c.Balance.Quote.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "cg", c.Credentials.CoinGeckoAPIKey)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "bad pair", args: []string{"--pair", "BTCUSD"}},
		{name: "bad market", args: []string{"--market", "BTC"}},
		{name: "unknown source", args: []string{"--source", "kraken"}},
		{name: "zero fallback", args: []string{"--fallback-rate", "0"}},
		{name: "negative balance", args: []string{"--balance-base", "-1"}},
		{name: "not a decimal", args: []string{"--balance-quote", "lots"}},
		{name: "min above max", args: []string{"--min-base", "5", "--max-base", "1"}},
		{name: "negative timeout", args: []string{"--execute-timeout", "-1s"}},
		{name: "unknown flag", args: []string{"--verbose"}},
		{name: "missing file", args: []string{"--config", "/nonexistent/desk.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args, nil)
			require.Error(t, err)
		})
	}
}

func TestFromYAML_Malformed(t *testing.T) {
	_, err := FromYAML([]byte("pair: ["), nil)
	require.Error(t, err)
}
