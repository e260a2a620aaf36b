package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/internal/wallet"
	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/amount"
	"github.com/honorwa/honor-wallet/pkg/apperr"
	"github.com/honorwa/honor-wallet/pkg/cache"
	"github.com/honorwa/honor-wallet/pkg/repository"
)

// FeeSchedule holds the percentage rates applied by the buy and convert flows.
type FeeSchedule struct {
	DefaultConvert float64 `mapstructure:"default_convert"`
	Card           float64 `mapstructure:"card"`
	OnRamp         float64 `mapstructure:"onramp"`
	Wire           float64 `mapstructure:"wire"`
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{DefaultConvert: 0.5, Card: 2.9, OnRamp: 1.0, Wire: 0}
}

func (f FeeSchedule) rate(method models.PaymentMethod) (float64, error) {
	switch method {
	case models.PayCard:
		return f.Card, nil
	case models.PayOnRamp:
		return f.OnRamp, nil
	case models.PayWire:
		return f.Wire, nil
	default:
		return 0, errors.Wrapf(apperr.ErrInvalidInput, "payment method %q", method)
	}
}

type book struct {
	holdings []models.Holding
	txs      []models.Transaction
}

func (b *book) clone() *book {
	return &book{
		holdings: append([]models.Holding(nil), b.holdings...),
		txs:      append([]models.Transaction(nil), b.txs...),
	}
}

func (b *book) find(symbol string) int {
	for i := range b.holdings {
		if b.holdings[i].Symbol == symbol {
			return i
		}
	}
	return -1
}

// LedgerService is the single writer of holdings and transaction logs.
// Ledgers are loaded from the repository on first use and kept in memory;
// every mutation works on a copy that replaces the cached ledger only once it
// has been persisted, so a failed operation leaves no trace.
type LedgerService struct {
	mu     sync.Mutex
	repos  repository.Ledger
	prices *cache.PriceCache
	books  map[string]*book
	fees   FeeSchedule
	now    func() time.Time
}

func NewLedgerService(repos repository.Ledger, prices *cache.PriceCache, fees FeeSchedule) *LedgerService {
	return &LedgerService{
		repos:  repos,
		prices: prices,
		books:  make(map[string]*book),
		fees:   fees,
		now:    time.Now,
	}
}

// SetFees swaps the fee schedule, e.g. after a config reload.
func (s *LedgerService) SetFees(fees FeeSchedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fees = fees
}

func (s *LedgerService) Fees() FeeSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fees
}

func (s *LedgerService) load(ctx context.Context, userID string) (*book, error) {
	if b, ok := s.books[userID]; ok {
		return b, nil
	}
	holdings, err := s.repos.LoadHoldings(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs, err := s.repos.LoadTransactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	b := &book{holdings: holdings, txs: txs}
	s.books[userID] = b
	return b, nil
}

// mutate runs fn on a copy of the user's ledger and commits it if fn and
// both saves succeed. Holdings are written before transactions.
func (s *LedgerService) mutate(ctx context.Context, userID string, fn func(b *book) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	next := cur.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.repos.SaveHoldings(ctx, userID, next.holdings); err != nil {
		return err
	}
	if len(next.txs) != len(cur.txs) {
		if err := s.repos.SaveTransactions(ctx, userID, next.txs); err != nil {
			// holdings are already on disk; keep memory in line with them
			s.books[userID] = &book{holdings: next.holdings, txs: cur.txs}
			return err
		}
	}
	s.books[userID] = next
	return nil
}

// Forget drops the cached ledger of a user, e.g. on logout.
func (s *LedgerService) Forget(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.books, userID)
}

func (s *LedgerService) Holdings(ctx context.Context, userID string) ([]models.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]models.Holding(nil), b.holdings...), nil
}

func (s *LedgerService) Transactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return append([]models.Transaction(nil), b.txs...), nil
}

func (s *LedgerService) Credit(ctx context.Context, userID, symbol string, amt float64) (models.Holding, error) {
	var out models.Holding
	err := s.mutate(ctx, userID, func(b *book) error {
		h, err := credit(b, symbol, amt)
		out = h
		return err
	})
	return out, err
}

func (s *LedgerService) Debit(ctx context.Context, userID, symbol string, amt float64) (models.Holding, error) {
	var out models.Holding
	err := s.mutate(ctx, userID, func(b *book) error {
		h, err := debit(b, symbol, amt)
		out = h
		return err
	})
	return out, err
}

// EnableHolding adds a zero balance holding for a catalog symbol. Enabling
// an existing holding returns it unchanged.
func (s *LedgerService) EnableHolding(ctx context.Context, userID, symbol string) (models.Holding, error) {
	var out models.Holding
	err := s.mutate(ctx, userID, func(b *book) error {
		h, err := s.enable(b, userID, symbol)
		out = h
		return err
	})
	return out, err
}

// RecordTransaction prepends tx to the log, filling id, date and status.
func (s *LedgerService) RecordTransaction(ctx context.Context, userID string, tx models.Transaction) (models.Transaction, error) {
	var out models.Transaction
	err := s.mutate(ctx, userID, func(b *book) error {
		out = s.record(b, tx)
		return nil
	})
	return out, err
}

// ApplyFee books the service fee of a primary transaction as a separate
// fee_collection entry. Receives are never charged and balances are left
// alone: the fee is bookkeeping only.
func (s *LedgerService) ApplyFee(ctx context.Context, userID string, tx models.Transaction, feePercent float64) (*models.Transaction, error) {
	fee, ok := feeFor(tx, feePercent)
	if !ok {
		return nil, nil
	}
	recorded, err := s.RecordTransaction(ctx, userID, fee)
	if err != nil {
		return nil, err
	}
	return &recorded, nil
}

func feeFor(tx models.Transaction, feePercent float64) (models.Transaction, bool) {
	if tx.Type == models.TxReceive || tx.Type == models.TxFeeCollection || !(feePercent > 0) {
		return models.Transaction{}, false
	}
	return models.Transaction{
		Type:        models.TxFeeCollection,
		Asset:       tx.Asset,
		Amount:      amount.Crypto(amount.Percent(tx.Amount, feePercent)),
		Status:      models.TxCompleted,
		Description: "Service Fee",
	}, true
}

// QuoteConvert prices a conversion without touching the ledger.
func (s *LedgerService) QuoteConvert(from, to string, amt, feePercent float64) (models.ConvertResult, error) {
	from, to = normalize(from), normalize(to)
	if !amount.Valid(amt) {
		return models.ConvertResult{}, errors.Wrapf(apperr.ErrInvalidAmount, "convert %v %s", amt, from)
	}
	if from == to {
		return models.ConvertResult{}, errors.Wrap(apperr.ErrInvalidInput, "convert needs two different assets")
	}
	if feePercent < 0 || feePercent >= 100 {
		return models.ConvertResult{}, errors.Wrapf(apperr.ErrInvalidInput, "fee %v%%", feePercent)
	}
	fromPrice := s.price(from)
	toPrice := s.price(to)

	rate := 0.0
	if fromPrice > 0 && toPrice > 0 {
		rate = fromPrice / toPrice
	}
	gross := amt * rate
	net := gross * (1 - feePercent/100)

	return models.ConvertResult{
		From:         from,
		To:           to,
		Amount:       amt,
		ExchangeRate: rate,
		GrossOutput:  amount.Crypto(gross),
		NetOutput:    amount.Crypto(net),
		FeePercent:   feePercent,
		FeeUSD:       amount.Fiat(amount.Percent(amt, feePercent) * fromPrice),
	}, nil
}

// Convert debits amt of from and credits the fee-reduced equivalent of to,
// enabling the target holding when needed, then records one convert entry.
func (s *LedgerService) Convert(ctx context.Context, userID, from, to string, amt, feePercent float64) (models.ConvertResult, error) {
	res, err := s.QuoteConvert(from, to, amt, feePercent)
	if err != nil {
		return res, err
	}
	err = s.mutate(ctx, userID, func(b *book) error {
		if _, err := debit(b, res.From, amt); err != nil {
			return err
		}
		if _, err := s.enable(b, userID, res.To); err != nil {
			return err
		}
		if res.NetOutput > 0 {
			if _, err := credit(b, res.To, res.NetOutput); err != nil {
				return err
			}
		}
		res.Transaction = s.record(b, models.Transaction{
			Type:        models.TxConvert,
			Asset:       res.From,
			Amount:      amt,
			Description: fmt.Sprintf("Converted to %s %s", formatAmount(res.NetOutput), res.To),
		})
		return nil
	})
	if err != nil {
		return models.ConvertResult{}, err
	}
	logrus.WithFields(logrus.Fields{
		"user": userID, "from": res.From, "to": res.To, "amount": amt, "net": res.NetOutput,
	}).Info("convert completed")
	return res, nil
}

// QuoteBuy computes the fiat cost of a purchase. The fee depends on the
// payment method and only feeds the displayed total.
func (s *LedgerService) QuoteBuy(symbol string, amt float64, method models.PaymentMethod) (models.BuyQuote, error) {
	symbol = normalize(symbol)
	if !amount.Valid(amt) {
		return models.BuyQuote{}, errors.Wrapf(apperr.ErrInvalidAmount, "buy %v %s", amt, symbol)
	}
	if _, ok := models.LookupCrypto(symbol); !ok {
		return models.BuyQuote{}, errors.Wrapf(apperr.ErrInvalidInput, "unknown asset %s", symbol)
	}
	rate, err := s.Fees().rate(method)
	if err != nil {
		return models.BuyQuote{}, err
	}
	price := s.price(symbol)
	cost := amt * price
	fee := amount.Fiat(amount.Percent(cost, rate))
	total := amount.Fiat(cost) + fee

	return models.BuyQuote{
		Asset:        symbol,
		Amount:       amt,
		Price:        price,
		Cost:         amount.Fiat(cost),
		FeePercent:   rate,
		Fee:          fee,
		Total:        amount.Fiat(total),
		TotalDisplay: amount.FormatFiat(total, "USD"),
		Method:       method,
	}, nil
}

// Buy credits the purchased amount. No fiat balance exists, so nothing is
// debited in exchange.
func (s *LedgerService) Buy(ctx context.Context, userID string, req models.BuyRequest) (models.BuyResult, error) {
	quote, err := s.QuoteBuy(req.Asset, req.Amount, req.Method)
	if err != nil {
		return models.BuyResult{}, err
	}
	via := string(req.Method)
	if req.Method == models.PayOnRamp && req.Provider != "" {
		via = req.Provider
	}

	var tx models.Transaction
	err = s.mutate(ctx, userID, func(b *book) error {
		if _, err := s.enable(b, userID, quote.Asset); err != nil {
			return err
		}
		if _, err := credit(b, quote.Asset, req.Amount); err != nil {
			return err
		}
		tx = s.record(b, models.Transaction{
			Type:        models.TxBuy,
			Asset:       quote.Asset,
			Amount:      req.Amount,
			Description: fmt.Sprintf("Bought %s %s via %s", formatAmount(req.Amount), quote.Asset, via),
		})
		return nil
	})
	if err != nil {
		return models.BuyResult{}, err
	}
	return models.BuyResult{Quote: quote, Transaction: tx}, nil
}

// Send debits the holding and records the outgoing transfer.
func (s *LedgerService) Send(ctx context.Context, userID, symbol string, amt float64, to string) (models.Transaction, error) {
	symbol = normalize(symbol)
	to = strings.TrimSpace(to)
	if err := wallet.ValidateAddress(to); err != nil {
		return models.Transaction{}, errors.Wrapf(apperr.ErrInvalidInput, "%v: %q", err, to)
	}
	var tx models.Transaction
	err := s.mutate(ctx, userID, func(b *book) error {
		if _, err := debit(b, symbol, amt); err != nil {
			return err
		}
		tx = s.record(b, models.Transaction{
			Type:         models.TxSend,
			Asset:        symbol,
			Amount:       amt,
			Counterparty: to,
		})
		return nil
	})
	return tx, err
}

// Trade applies a P2P fill: a buy credits the asset, a sell debits it.
func (s *LedgerService) Trade(ctx context.Context, userID string, offer models.P2POffer) (models.Transaction, error) {
	var tx models.Transaction
	err := s.mutate(ctx, userID, func(b *book) error {
		kind := models.TxP2PBuy
		switch offer.Type {
		case "buy":
			if _, err := s.enable(b, userID, offer.Asset); err != nil {
				return err
			}
			if _, err := credit(b, offer.Asset, offer.Amount); err != nil {
				return err
			}
		case "sell":
			kind = models.TxP2PSell
			if _, err := debit(b, offer.Asset, offer.Amount); err != nil {
				return err
			}
		default:
			return errors.Wrapf(apperr.ErrInvalidInput, "offer type %q", offer.Type)
		}
		tx = s.record(b, models.Transaction{
			Type:         kind,
			Asset:        offer.Asset,
			Amount:       offer.Amount,
			Counterparty: offer.SellerName,
			Description:  fmt.Sprintf("P2P %s at %s USD per unit", offer.Type, formatAmount(offer.PricePerUnit)),
		})
		return nil
	})
	return tx, err
}

// AdminAdjust overrides a balance and records an admin_adjustment entry
// carrying the absolute change.
func (s *LedgerService) AdminAdjust(ctx context.Context, userID, symbol string, balance float64) (models.Holding, error) {
	symbol = normalize(symbol)
	if balance != 0 && !amount.Valid(balance) {
		return models.Holding{}, errors.Wrapf(apperr.ErrInvalidAmount, "balance %v", balance)
	}
	var out models.Holding
	err := s.mutate(ctx, userID, func(b *book) error {
		if _, err := s.enable(b, userID, symbol); err != nil {
			return err
		}
		h := &b.holdings[b.find(symbol)]
		previous := h.Balance
		h.Balance = amount.Crypto(balance)
		h.Revalue()
		out = *h

		delta := h.Balance - previous
		if delta < 0 {
			delta = -delta
		}
		s.record(b, models.Transaction{
			Type:        models.TxAdminAdjustment,
			Asset:       symbol,
			Amount:      amount.Crypto(delta),
			Description: fmt.Sprintf("Balance set to %s (was %s)", formatAmount(h.Balance), formatAmount(previous)),
		})
		return nil
	})
	return out, err
}

// Reprice applies a price table to every ledger held in memory and persists
// the changed holdings. Symbols missing from prices keep their last price.
func (s *LedgerService) Reprice(ctx context.Context, prices map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for userID, b := range s.books {
		next := append([]models.Holding(nil), b.holdings...)
		for i := range next {
			if p, ok := prices[next[i].Symbol]; ok && p > 0 {
				next[i].Price = p
			}
			next[i].Revalue()
		}
		if err := s.repos.SaveHoldings(ctx, userID, next); err != nil {
			logrus.WithError(err).WithField("user", userID).Warn("repriced holdings not saved")
			continue
		}
		b.holdings = next
	}
}

func (s *LedgerService) enable(b *book, userID, symbol string) (models.Holding, error) {
	symbol = normalize(symbol)
	if i := b.find(symbol); i >= 0 {
		return b.holdings[i], nil
	}
	c, ok := models.LookupCrypto(symbol)
	if !ok {
		return models.Holding{}, errors.Wrapf(apperr.ErrInvalidInput, "unknown asset %s", symbol)
	}
	h := models.Holding{
		ID:            uuid.NewString(),
		Name:          c.Name,
		Symbol:        c.Symbol,
		Price:         s.price(symbol),
		Color:         c.Color,
		WalletAddress: wallet.DepositAddress(userID, symbol),
		IsEnabled:     true,
	}
	h.Revalue()
	b.holdings = append(b.holdings, h)
	return h, nil
}

func (s *LedgerService) record(b *book, tx models.Transaction) models.Transaction {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Date.IsZero() {
		tx.Date = s.now().UTC()
	}
	if tx.Status == "" {
		tx.Status = models.TxCompleted
	}
	tx.Asset = normalize(tx.Asset)
	b.txs = append([]models.Transaction{tx}, b.txs...)
	return tx
}

// price prefers the live cache and falls back to the catalog seed.
func (s *LedgerService) price(symbol string) float64 {
	if s.prices != nil {
		if p, ok := s.prices.Get(symbol); ok {
			return p
		}
	}
	if c, ok := models.LookupCrypto(symbol); ok {
		return c.Price
	}
	return 0
}

func credit(b *book, symbol string, amt float64) (models.Holding, error) {
	symbol = normalize(symbol)
	if !amount.Valid(amt) {
		return models.Holding{}, errors.Wrapf(apperr.ErrInvalidAmount, "credit %v %s", amt, symbol)
	}
	i := b.find(symbol)
	if i < 0 {
		return models.Holding{}, errors.Wrapf(apperr.ErrNotFound, "holding %s", symbol)
	}
	h := &b.holdings[i]
	h.Balance = amount.Crypto(h.Balance + amt)
	h.Revalue()
	return *h, nil
}

func debit(b *book, symbol string, amt float64) (models.Holding, error) {
	symbol = normalize(symbol)
	if !amount.Valid(amt) {
		return models.Holding{}, errors.Wrapf(apperr.ErrInvalidAmount, "debit %v %s", amt, symbol)
	}
	i := b.find(symbol)
	if i < 0 {
		return models.Holding{}, errors.Wrapf(apperr.ErrNotFound, "holding %s", symbol)
	}
	h := &b.holdings[i]
	if amt > h.Balance {
		return models.Holding{}, errors.Wrapf(apperr.ErrInsufficientBalance, "%s balance %v, need %v", symbol, h.Balance, amt)
	}
	h.Balance = amount.Crypto(h.Balance - amt)
	h.Revalue()
	return *h, nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
