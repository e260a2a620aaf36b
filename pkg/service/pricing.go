package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/cache"
	"github.com/honorwa/honor-wallet/pkg/pricing"
)

// Publisher receives every fresh price snapshot, e.g. the websocket hub.
type Publisher interface {
	Publish(prices map[string]float64)
}

type PricingService struct {
	source  pricing.Source
	cache   *cache.PriceCache
	ledger  *LedgerService
	pub     Publisher
	timeout time.Duration
	cron    *cron.Cron
}

func NewPricingService(source pricing.Source, prices *cache.PriceCache, ledger *LedgerService, pub Publisher) *PricingService {
	return &PricingService{
		source:  source,
		cache:   prices,
		ledger:  ledger,
		pub:     pub,
		timeout: 15 * time.Second,
	}
}

// Refresh fetches the catalog prices. On success the cache is replaced, the
// loaded ledgers are repriced and subscribers are notified. On failure the
// previous prices stay in place and false is returned.
func (s *PricingService) Refresh(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prices, err := s.source.Prices(ctx, models.CatalogSymbols())
	if err != nil {
		logrus.WithError(err).Warn("price refresh failed, keeping cached prices")
		return false
	}
	if len(prices) == 0 {
		logrus.Warn("price source returned no prices, keeping cached prices")
		return false
	}

	// symbols the source skipped keep their previous price
	merged := s.cache.Snapshot()
	for symbol, p := range prices {
		merged[symbol] = p
	}
	s.cache.Replace(merged)

	if s.ledger != nil {
		s.ledger.Reprice(ctx, merged)
	}
	if s.pub != nil {
		s.pub.Publish(merged)
	}
	logrus.WithField("symbols", len(prices)).Info("prices refreshed")
	return true
}

func (s *PricingService) Snapshot() map[string]float64 {
	return s.cache.Snapshot()
}

func (s *PricingService) UpdatedAt() time.Time {
	return s.cache.UpdatedAt()
}

// Start refreshes once and then on the given cron spec, e.g. "@every 30s".
func (s *PricingService) Start(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { s.Refresh(ctx) }); err != nil {
		return err
	}
	s.Refresh(ctx)
	c.Start()
	s.cron = c
	logrus.WithField("schedule", spec).Info("price scheduler started")
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *PricingService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
