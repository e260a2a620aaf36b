package cache

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PriceCache maps symbol to USD unit price. It is replaced wholesale on each
// successful refresh and otherwise keeps serving the last known prices.
type PriceCache struct {
	mu        sync.RWMutex
	prices    map[string]float64
	updatedAt time.Time
}

func NewPriceCache(seed map[string]float64) *PriceCache {
	c := &PriceCache{prices: make(map[string]float64, len(seed))}
	for k, v := range seed {
		c.prices[k] = v
	}
	return c
}

// Get returns the cached price of symbol.
func (c *PriceCache) Get(symbol string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.prices[symbol]
	return p, ok
}

// Snapshot returns a copy safe to hand to other goroutines.
func (c *PriceCache) Snapshot() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.prices))
	for k, v := range c.prices {
		out[k] = v
	}
	return out
}

// Replace swaps the whole price table.
func (c *PriceCache) Replace(prices map[string]float64) {
	next := make(map[string]float64, len(prices))
	for k, v := range prices {
		next[k] = v
	}

	c.mu.Lock()
	c.prices = next
	c.updatedAt = time.Now()
	c.mu.Unlock()

	logrus.WithField("symbols", len(next)).Debug("price cache replaced")
}

// UpdatedAt is the time of the last Replace, zero while only seed prices exist.
func (c *PriceCache) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}
