// Package pricing fetches unit prices in USD for the asset catalog.
package pricing

import (
	"context"

	"github.com/honorwa/honor-wallet/models"
)

// Source answers current unit prices for a set of ticker symbols. Symbols it
// cannot price are omitted from the result.
type Source interface {
	Prices(ctx context.Context, symbols []string) (map[string]float64, error)
}

// Static serves the catalog seed prices. Used offline and as the initial
// cache content.
type Static struct{}

func (Static) Prices(_ context.Context, symbols []string) (map[string]float64, error) {
	out := make(map[string]float64, len(symbols))
	for _, s := range symbols {
		if c, ok := models.LookupCrypto(s); ok {
			out[s] = c.Price
		}
	}
	return out, nil
}

// SeedPrices returns the catalog prices keyed by symbol.
func SeedPrices() map[string]float64 {
	out, _ := Static{}.Prices(context.Background(), models.CatalogSymbols())
	return out
}
