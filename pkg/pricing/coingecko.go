package pricing

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/pkg/apperr"
)

const coinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGecko queries the simple/price endpoint.
type CoinGecko struct {
	client *resty.Client
	apiKey string
}

func NewCoinGecko(baseURL, apiKey string, timeout time.Duration) *CoinGecko {
	if baseURL == "" {
		baseURL = coinGeckoURL
	}
	return &CoinGecko{
		client: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		apiKey: apiKey,
	}
}

func (c *CoinGecko) Prices(ctx context.Context, symbols []string) (map[string]float64, error) {
	ids := make([]string, 0, len(symbols))
	bySymbol := make(map[string]string, len(symbols))
	for _, s := range symbols {
		id := currencyID(s)
		ids = append(ids, id)
		bySymbol[s] = id
	}

	req := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("ids", strings.Join(ids, ",")).
		SetQueryParam("vs_currencies", "usd").
		SetResult(map[string]map[string]float64{})
	if c.apiKey != "" {
		req.SetHeader("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := req.Get("/simple/price")
	if err != nil {
		return nil, errors.Wrapf(apperr.ErrExternalService, "coingecko: %v", err)
	}
	if resp.IsError() {
		return nil, errors.Wrapf(apperr.ErrExternalService, "coingecko: status %d", resp.StatusCode())
	}

	data := *resp.Result().(*map[string]map[string]float64)
	out := make(map[string]float64, len(symbols))
	for symbol, id := range bySymbol {
		if price := data[id]["usd"]; price > 0 {
			out[symbol] = price
		}
	}
	if len(out) == 0 {
		return nil, errors.Wrap(apperr.ErrExternalService, "coingecko: empty price table")
	}
	logrus.WithField("symbols", len(out)).Debug("coingecko prices fetched")
	return out, nil
}

func currencyID(symbol string) string {
	switch strings.ToUpper(symbol) {
	case "USDT":
		return "tether"
	case "BTC":
		return "bitcoin"
	case "ETH":
		return "ethereum"
	case "BNB":
		return "binancecoin"
	case "SOL":
		return "solana"
	case "XRP":
		return "ripple"
	case "USDC":
		return "usd-coin"
	case "ADA":
		return "cardano"
	case "DOGE":
		return "dogecoin"
	case "SHIB":
		return "shiba-inu"
	case "AVAX":
		return "avalanche-2"
	case "DOT":
		return "polkadot"
	case "TRX":
		return "tron"
	case "LINK":
		return "chainlink"
	case "MATIC":
		return "matic-network"
	case "LTC":
		return "litecoin"
	case "BCH":
		return "bitcoin-cash"
	case "NEAR":
		return "near"
	case "UNI":
		return "uniswap"
	case "XMR":
		return "monero"
	default:
		return strings.ToLower(symbol)
	}
}
