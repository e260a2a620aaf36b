package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honorwa/honor-wallet/pkg/apperr"
)

func TestCoinGeckoPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin,ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "demo", r.Header.Get("x-cg-demo-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":64230.5},"ethereum":{"usd":3450.2}}`))
	}))
	defer srv.Close()

	cg := NewCoinGecko(srv.URL, "demo", time.Second)
	prices, err := cg.Prices(context.Background(), []string{"BTC", "ETH"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"BTC": 64230.5, "ETH": 3450.2}, prices)
}

func TestCoinGeckoFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cg := NewCoinGecko(srv.URL, "", time.Second)
	_, err := cg.Prices(context.Background(), []string{"BTC"})
	assert.True(t, errors.Is(err, apperr.ErrExternalService))
}

func TestStaticSkipsUnknownSymbols(t *testing.T) {
	prices, err := Static{}.Prices(context.Background(), []string{"BTC", "NOPE"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"BTC": 64230.50}, prices)
	assert.Len(t, SeedPrices(), 20)
}
