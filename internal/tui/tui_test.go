package tui

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/swapdesk/internal/domain"
	"github.com/vadiminshakov/swapdesk/internal/services/exchange"
)

var btcUSD = domain.Pair{From: "BTC", To: "USD"}

type fixedRate struct{}

func (fixedRate) Rate() decimal.Decimal { return decimal.NewFromInt(50000) }
func (fixedRate) Loading() bool         { return false }

func newSession() *exchange.Session {
	balance := domain.NewBalance(decimal.RequireFromString("1.5"), decimal.NewFromInt(50000))
	return exchange.NewSession(btcUSD, balance, fixedRate{}, nil)
}

func TestApplyInput(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		which     domain.Currency
		wantBase  string
		wantQuote string
		wantErr   string
	}{
		{name: "valid base", raw: "1", which: domain.Base, wantBase: "1", wantQuote: "50000.00"},
		{name: "insufficient quote", raw: "60000", which: domain.Quote, wantBase: "1.200000", wantQuote: "60000", wantErr: "Insufficient USD balance"},
		{name: "bounds error wins over balance", raw: "101", which: domain.Base, wantBase: "101", wantQuote: "5050000.00", wantErr: "Maximum BTC amount is 100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession()
			ApplyInput(s, tt.raw, tt.which)

			st := s.State()
			assert.Equal(t, tt.wantBase, st.Base)
			assert.Equal(t, tt.wantQuote, st.Quote)
			assert.Equal(t, tt.wantErr, st.Error)
		})
	}
}

func TestRenderState(t *testing.T) {
	s := newSession()
	ApplyInput(s, "60000", domain.Quote)

	out := RenderState(btcUSD, s.State())
	assert.Contains(t, out, "1 BTC = 50000.00 USD")
	assert.Contains(t, out, "1.500000 BTC")
	assert.Contains(t, out, "50000.00 USD")
	assert.Contains(t, out, "BUY")
	assert.Contains(t, out, "Insufficient USD balance")
}

func TestRenderReceipt(t *testing.T) {
	r := domain.Receipt{
		ID:         "4f1c",
		Mode:       domain.ModeSell,
		Pair:       btcUSD,
		Base:       "0.500000",
		Quote:      "25000.00",
		Rate:       decimal.NewFromInt(50000),
		Balance:    domain.NewBalance(decimal.NewFromInt(1), decimal.NewFromInt(75000)),
		ExecutedAt: time.Now(),
	}

	out := RenderReceipt(r)
	assert.Contains(t, out, "You received 25000.00 USD")
	assert.Contains(t, out, "You paid 0.500000 BTC")
	assert.Contains(t, out, "1.000000 BTC | 75000.00 USD")
	assert.Contains(t, out, "4f1c")
}

func TestConfirmTitle(t *testing.T) {
	s := newSession()
	ApplyInput(s, "1.", domain.Base)
	require.Empty(t, s.State().Error)

	assert.Equal(t, "Buy 1 BTC for 50000.00 USD?", confirmTitle(btcUSD, s.State()))
}
