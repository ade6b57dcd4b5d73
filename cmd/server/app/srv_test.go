package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echenim/batchex/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		ListenAddr:     ":0",
		DefaultNetwork: 1,
		BatchDuration:  time.Minute,
		LogLevel:       "info",
		Networks: []config.NetworkConfig{
			{ID: 1, MaxTokens: 4, Tokens: []string{"0x1111111111111111111111111111111111111111"}},
			{ID: 100, MaxTokens: 2, StartBatch: 42},
		},
	}
}

func TestNewServerMountsNetworks(t *testing.T) {
	ex, err := NewExchange(testConfig())
	require.NoError(t, err)
	e := NewServer(ex)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tokens/count", nil))
	assert.JSONEq(t, `{"numTokens":1}`, rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/gc/batch", nil))
	assert.JSONEq(t, `{"batchId":42}`, rec.Body.String())
}

func TestNewExchangeRejectsBadToken(t *testing.T) {
	conf := testConfig()
	conf.Networks[0].Tokens = []string{"TOKEN"}

	_, err := NewExchange(conf)
	assert.Error(t, err)
}

func TestNewExchangeSeedsState(t *testing.T) {
	conf := testConfig()
	conf.Networks[0].Tokens = append(conf.Networks[0].Tokens,
		"0x2222222222222222222222222222222222222222",
		"0x3333333333333333333333333333333333333333")
	conf.Networks[0].Orders = []config.OrderConfig{{
		User:             "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		BuyTokenID:       1,
		SellTokenID:      2,
		ValidUntil:       6,
		PriceNumerator:   "1",
		PriceDenominator: "0",
		RemainingAmount:  "1",
	}}
	conf.Networks[0].Balances = []config.BalanceConfig{
		{User: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", TokenID: 2, Amount: "0x64"},
	}

	ex, err := NewExchange(conf)
	require.NoError(t, err)
	e := NewServer(ex)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"validUntil":6`)
	assert.Contains(t, rec.Body.String(), `"priceDenominator":"0"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/balances/0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa/2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"100"`)
}

func TestNewExchangeRejectsBadSeeds(t *testing.T) {
	conf := testConfig()
	conf.Networks[0].Orders = []config.OrderConfig{{
		User: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", PriceNumerator: "x", PriceDenominator: "1",
	}}
	_, err := NewExchange(conf)
	assert.Error(t, err)

	conf = testConfig()
	conf.Networks[0].Orders = []config.OrderConfig{{
		User: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", SellTokenID: 3, PriceNumerator: "1", PriceDenominator: "1",
	}}
	_, err = NewExchange(conf)
	assert.Error(t, err)

	conf = testConfig()
	conf.Networks[0].Balances = []config.BalanceConfig{{User: "nobody", Amount: "1"}}
	_, err = NewExchange(conf)
	assert.Error(t, err)
}
