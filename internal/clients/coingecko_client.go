package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"
	coinGeckoKeyHeader  = "x-cg-demo-api-key"
	userAgent           = "swapdesk/1.0"
)

// ErrUnexpectedStatus is returned when CoinGecko answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected coingecko response status")

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=clients_test -destination=mock_http_client_test.go -source=coingecko_client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CoinGeckoClient queries the public CoinGecko price API.
type CoinGeckoClient struct {
	baseURL    string
	httpClient HTTPClient
	header     http.Header
}

// CoinGeckoOption is a configuration option for the CoinGecko client.
type CoinGeckoOption func(*CoinGeckoClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) CoinGeckoOption {
	return func(c *CoinGeckoClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) CoinGeckoOption {
	return func(c *CoinGeckoClient) {
		c.httpClient = httpClient
	}
}

// NewCoinGeckoClient creates a new CoinGecko client. The API key is optional.
func NewCoinGeckoClient(apiKey string, timeout time.Duration, opts ...CoinGeckoOption) *CoinGeckoClient {
	c := &CoinGeckoClient{
		baseURL:    defaultCoinGeckoURL,
		httpClient: newHTTPClient(timeout),
		header:     http.Header{},
	}
	c.header.Set("User-Agent", userAgent)
	c.header.Set("Accept", "application/json")
	if apiKey != "" {
		c.header.Set(coinGeckoKeyHeader, apiKey)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SimplePrice returns prices keyed by coin id and then by vs currency,
// e.g. {"bitcoin": {"usd": 50000}}.
func (c *CoinGeckoClient) SimplePrice(ctx context.Context, ids []string, vsCurrencies []string) (map[string]map[string]decimal.Decimal, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", strings.Join(vsCurrencies, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+query.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build coingecko request")
	}
	for key, values := range c.header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "coingecko request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Wrap(ErrUnexpectedStatus, fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}

	var prices map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&prices); err != nil {
		return nil, errors.Wrap(err, "decode coingecko response")
	}

	return prices, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   3 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
