package clients

import (
	"github.com/adshao/go-binance/v2"
)

// NewBinanceClient creates a client for Binance public market data.
// Price reads need no credentials, so keys may be empty.
func NewBinanceClient(apiKey, apiSecret string) *binance.Client {
	client := binance.NewClient(apiKey, apiSecret)
	return client
}
