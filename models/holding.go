package models

// Holding is a user's balance of one asset plus its cached price-derived value.
type Holding struct {
	ID            string  `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Symbol        string  `json:"symbol" db:"symbol"`
	Balance       float64 `json:"balance" db:"balance"`
	Price         float64 `json:"price" db:"price"`
	Change24h     float64 `json:"change24h" db:"change24h"`
	Value         float64 `json:"value" db:"value"` // balance * price
	Color         string  `json:"color" db:"color"`
	WalletAddress string  `json:"wallet_address,omitempty" db:"wallet_address"`
	IsEnabled     bool    `json:"is_enabled" db:"is_enabled"`
}

// Revalue recomputes Value from the current balance and price.
func (h *Holding) Revalue() {
	h.Value = h.Balance * h.Price
}

// CryptoOption is an entry of the asset catalog a user can enable.
type CryptoOption struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Price  float64 `json:"price"`
}

// Catalog is the fixed symbol universe the pricing cache tracks. Prices are
// seed values used until the first successful refresh.
var Catalog = []CryptoOption{
	{Symbol: "BTC", Name: "Bitcoin", Color: "#f59e0b", Price: 64230.50},
	{Symbol: "ETH", Name: "Ethereum", Color: "#6366f1", Price: 3450.20},
	{Symbol: "USDT", Name: "Tether", Color: "#22c55e", Price: 1.00},
	{Symbol: "BNB", Name: "Binance Coin", Color: "#F0B90B", Price: 580.10},
	{Symbol: "SOL", Name: "Solana", Color: "#10b981", Price: 148.90},
	{Symbol: "XRP", Name: "Ripple", Color: "#000000", Price: 0.60},
	{Symbol: "USDC", Name: "USD Coin", Color: "#2775CA", Price: 1.00},
	{Symbol: "ADA", Name: "Cardano", Color: "#3b82f6", Price: 0.45},
	{Symbol: "DOGE", Name: "Dogecoin", Color: "#fbbf24", Price: 0.12},
	{Symbol: "SHIB", Name: "Shiba Inu", Color: "#ff0000", Price: 0.00002},
	{Symbol: "AVAX", Name: "Avalanche", Color: "#e84142", Price: 35.20},
	{Symbol: "DOT", Name: "Polkadot", Color: "#e6007a", Price: 6.50},
	{Symbol: "TRX", Name: "Tron", Color: "#FF0013", Price: 0.11},
	{Symbol: "LINK", Name: "Chainlink", Color: "#2A5ADA", Price: 14.20},
	{Symbol: "MATIC", Name: "Polygon", Color: "#8247E5", Price: 0.70},
	{Symbol: "LTC", Name: "Litecoin", Color: "#345D9D", Price: 85.50},
	{Symbol: "BCH", Name: "Bitcoin Cash", Color: "#0AC18E", Price: 450.00},
	{Symbol: "NEAR", Name: "NEAR Protocol", Color: "#000000", Price: 6.80},
	{Symbol: "UNI", Name: "Uniswap", Color: "#FF007A", Price: 7.50},
	{Symbol: "XMR", Name: "Monero", Color: "#FF6600", Price: 120.00},
}

// LookupCrypto finds a catalog entry by ticker symbol.
func LookupCrypto(symbol string) (CryptoOption, bool) {
	for _, c := range Catalog {
		if c.Symbol == symbol {
			return c, true
		}
	}
	return CryptoOption{}, false
}

// CatalogSymbols lists every symbol of the catalog in display order.
func CatalogSymbols() []string {
	symbols := make([]string, 0, len(Catalog))
	for _, c := range Catalog {
		symbols = append(symbols, c.Symbol)
	}
	return symbols
}
