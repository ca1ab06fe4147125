//go:build integration

package pricer

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/swapdesk/internal/clients"
	"github.com/vadiminshakov/swapdesk/internal/domain"
)

// These tests call real public APIs.
// To run them, use: go test -tags=integration -v ./...
func TestPricers_GetPrice_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	hl, err := clients.NewHyperliquidClient("", "https://api.hyperliquid.xyz")
	require.NoError(t, err)

	tests := []struct {
		name   string
		pricer Pricer
		pair   domain.Pair
	}{
		{
			name:   SourceCoinGecko,
			pricer: NewCoinGeckoPricer(clients.NewCoinGeckoClient(os.Getenv("COINGECKO_API_KEY"), 10*time.Second), ""),
			pair:   domain.Pair{From: "BTC", To: "USD"},
		},
		{
			name:   SourceBinance,
			pricer: NewBinancePricer(clients.NewBinanceClient("", "")),
			pair:   domain.Pair{From: "BTC", To: "USDT"},
		},
		{
			name:   SourceBybit,
			pricer: NewBybitPricer(clients.NewBybitClient("", "")),
			pair:   domain.Pair{From: "BTC", To: "USDT"},
		},
		{
			name:   SourceHyperliquid,
			pricer: NewHyperliquidPricer(hl.Info()),
			pair:   domain.Pair{From: "BTC", To: "USDC"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			price, err := tt.pricer.GetPrice(ctx, tt.pair)
			require.NoError(t, err)
			require.True(t, price.GreaterThan(decimal.Zero), "Expected price > 0 for %s, got %s", tt.pair.String(), price.String())
			t.Logf("Current %s price: %s", tt.pair.String(), price.String())
		})
	}
}
