package service

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
	"github.com/honorwa/honor-wallet/pkg/cache"
	"github.com/honorwa/honor-wallet/pkg/pricing"
	"github.com/honorwa/honor-wallet/pkg/repository"
)

const testUser = "u-1"

type LedgerSuite struct {
	suite.Suite
	ctx    context.Context
	repos  *repository.Repository
	prices *cache.PriceCache
	ledger *LedgerService
}

func (s *LedgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = repository.NewRepository(repository.NewMemoryStore())
	s.prices = cache.NewPriceCache(pricing.SeedPrices())
	s.ledger = NewLedgerService(s.repos.Ledger, s.prices, DefaultFeeSchedule())
}

func (s *LedgerSuite) fund(symbol string, amt float64) {
	_, err := s.ledger.EnableHolding(s.ctx, testUser, symbol)
	s.Require().NoError(err)
	_, err = s.ledger.Credit(s.ctx, testUser, symbol, amt)
	s.Require().NoError(err)
}

func (s *LedgerSuite) holding(symbol string) models.Holding {
	hs, err := s.ledger.Holdings(s.ctx, testUser)
	s.Require().NoError(err)
	for _, h := range hs {
		if h.Symbol == symbol {
			return h
		}
	}
	s.FailNow("holding missing", symbol)
	return models.Holding{}
}

func (s *LedgerSuite) TestEnableHoldingIsIdempotent() {
	first, err := s.ledger.EnableHolding(s.ctx, testUser, "btc")
	s.Require().NoError(err)
	s.Equal("BTC", first.Symbol)
	s.Equal("Bitcoin", first.Name)
	s.Equal(64230.50, first.Price)
	s.Zero(first.Balance)
	s.NotEmpty(first.WalletAddress)

	second, err := s.ledger.EnableHolding(s.ctx, testUser, "BTC")
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	hs, _ := s.ledger.Holdings(s.ctx, testUser)
	s.Len(hs, 1)
}

func (s *LedgerSuite) TestEnableUnknownSymbol() {
	_, err := s.ledger.EnableHolding(s.ctx, testUser, "DOGE2")
	s.True(errors.Is(err, apperr.ErrInvalidInput))
}

func (s *LedgerSuite) TestDebitKeepsValueInvariant() {
	s.fund("BTC", 1.0)

	h, err := s.ledger.Debit(s.ctx, testUser, "BTC", 0.5)
	s.Require().NoError(err)
	s.Equal(0.5, h.Balance)
	s.Equal(32115.25, h.Value)
	s.Equal(h.Balance*h.Price, h.Value)
}

func (s *LedgerSuite) TestDebitCreditRoundTrip() {
	s.fund("ETH", 2.75)
	before := s.holding("ETH")

	_, err := s.ledger.Debit(s.ctx, testUser, "ETH", 1.3)
	s.Require().NoError(err)
	_, err = s.ledger.Credit(s.ctx, testUser, "ETH", 1.3)
	s.Require().NoError(err)

	after := s.holding("ETH")
	s.InDelta(before.Balance, after.Balance, 1e-9)
	s.InDelta(before.Value, after.Value, 1e-6)
}

func (s *LedgerSuite) TestInsufficientDebitIsNoop() {
	s.fund("SOL", 1)
	txsBefore, _ := s.ledger.Transactions(s.ctx, testUser)

	_, err := s.ledger.Debit(s.ctx, testUser, "SOL", 2)
	s.True(errors.Is(err, apperr.ErrInsufficientBalance))

	s.Equal(1.0, s.holding("SOL").Balance)
	txsAfter, _ := s.ledger.Transactions(s.ctx, testUser)
	s.Equal(txsBefore, txsAfter)
}

func (s *LedgerSuite) TestInvalidAmounts() {
	s.fund("BTC", 1)
	for _, amt := range []float64{0, -1} {
		_, err := s.ledger.Credit(s.ctx, testUser, "BTC", amt)
		s.True(errors.Is(err, apperr.ErrInvalidAmount), "credit %v", amt)
		_, err = s.ledger.Debit(s.ctx, testUser, "BTC", amt)
		s.True(errors.Is(err, apperr.ErrInvalidAmount), "debit %v", amt)
	}
	_, err := s.ledger.Credit(s.ctx, testUser, "ETH", 1)
	s.True(errors.Is(err, apperr.ErrNotFound))
}

func (s *LedgerSuite) TestRecordTransactionPrepends() {
	first, err := s.ledger.RecordTransaction(s.ctx, testUser, models.Transaction{Type: models.TxReceive, Asset: "btc", Amount: 1})
	s.Require().NoError(err)
	s.NotEmpty(first.ID)
	s.False(first.Date.IsZero())
	s.Equal(models.TxCompleted, first.Status)
	s.Equal("BTC", first.Asset)

	second, err := s.ledger.RecordTransaction(s.ctx, testUser, models.Transaction{Type: models.TxSend, Asset: "BTC", Amount: 0.2})
	s.Require().NoError(err)

	txs, _ := s.ledger.Transactions(s.ctx, testUser)
	s.Require().Len(txs, 2)
	s.Equal(second.ID, txs[0].ID)
	s.Equal(first.ID, txs[1].ID)
}

func (s *LedgerSuite) TestApplyFee() {
	send := models.Transaction{Type: models.TxSend, Asset: "BTC", Amount: 0.2}
	fee, err := s.ledger.ApplyFee(s.ctx, testUser, send, 1.5)
	s.Require().NoError(err)
	s.Require().NotNil(fee)
	s.Equal(models.TxFeeCollection, fee.Type)
	s.Equal("Service Fee", fee.Description)
	s.Equal(0.003, fee.Amount)

	receive := models.Transaction{Type: models.TxReceive, Asset: "BTC", Amount: 5}
	fee, err = s.ledger.ApplyFee(s.ctx, testUser, receive, 10)
	s.Require().NoError(err)
	s.Nil(fee)

	fee, err = s.ledger.ApplyFee(s.ctx, testUser, send, 0)
	s.Require().NoError(err)
	s.Nil(fee)

	txs, _ := s.ledger.Transactions(s.ctx, testUser)
	s.Len(txs, 1)
}

func (s *LedgerSuite) TestConvertWithFee() {
	s.fund("BTC", 1)

	res, err := s.ledger.Convert(s.ctx, testUser, "BTC", "ETH", 0.1, 0.5)
	s.Require().NoError(err)
	s.InDelta(18.6165, res.ExchangeRate, 1e-3)
	s.InDelta(1.8617, res.GrossOutput, 1e-3)
	s.InDelta(1.8524, res.NetOutput, 1e-3)
	s.InDelta(32.12, res.FeeUSD, 0.011)

	s.Equal(0.9, s.holding("BTC").Balance)
	eth := s.holding("ETH")
	s.Equal(res.NetOutput, eth.Balance)
	s.Equal(eth.Balance*eth.Price, eth.Value)

	txs, _ := s.ledger.Transactions(s.ctx, testUser)
	s.Require().Len(txs, 1)
	s.Equal(models.TxConvert, txs[0].Type)
	s.Equal("BTC", txs[0].Asset)
	s.Contains(txs[0].Description, "Converted to 1.85")
}

func (s *LedgerSuite) TestConvertZeroFeeIsExact() {
	s.fund("ETH", 3)
	res, err := s.ledger.Convert(s.ctx, testUser, "ETH", "SOL", 1.25, 0)
	s.Require().NoError(err)
	s.InDelta(1.25*3450.20/148.90, res.NetOutput, 1e-8)
	s.Equal(res.GrossOutput, res.NetOutput)
}

func (s *LedgerSuite) TestConvertFailureLeavesLedgerUntouched() {
	s.fund("BTC", 0.05)

	_, err := s.ledger.Convert(s.ctx, testUser, "BTC", "ETH", 0.1, 0.5)
	s.True(errors.Is(err, apperr.ErrInsufficientBalance))

	hs, _ := s.ledger.Holdings(s.ctx, testUser)
	s.Len(hs, 1, "target holding must not be enabled")
	txs, _ := s.ledger.Transactions(s.ctx, testUser)
	s.Empty(txs)

	_, err = s.ledger.Convert(s.ctx, testUser, "BTC", "BTC", 0.01, 0)
	s.True(errors.Is(err, apperr.ErrInvalidInput))
}

func (s *LedgerSuite) TestConvertWithZeroTargetPrice() {
	s.fund("BTC", 1)
	prices := pricing.SeedPrices()
	prices["ETH"] = 0
	s.prices.Replace(prices)

	res, err := s.ledger.Convert(s.ctx, testUser, "BTC", "ETH", 0.1, 0.5)
	s.Require().NoError(err)
	s.Zero(res.ExchangeRate)
	s.Zero(res.NetOutput)

	s.Equal(0.9, s.holding("BTC").Balance)
	eth := s.holding("ETH")
	s.Zero(eth.Balance)
	s.Zero(eth.Value)

	txs, err := s.ledger.Transactions(s.ctx, testUser)
	s.Require().NoError(err)
	var converts int
	for _, tx := range txs {
		if tx.Type == models.TxConvert {
			converts++
		}
	}
	s.Equal(1, converts)
	s.Equal(models.TxConvert, txs[0].Type)
}

func (s *LedgerSuite) TestBuyQuoteAndCredit() {
	quote, err := s.ledger.QuoteBuy("btc", 0.02, models.PayCard)
	s.Require().NoError(err)
	s.Equal(1284.61, quote.Cost)
	s.Equal(37.25, quote.Fee)
	s.Equal(1321.86, quote.Total)
	s.Equal("$1,321.86", quote.TotalDisplay)

	res, err := s.ledger.Buy(s.ctx, testUser, models.BuyRequest{Asset: "BTC", Amount: 0.01, Method: models.PayOnRamp, Provider: "MoonPay"})
	s.Require().NoError(err)
	s.Equal(1.0, res.Quote.FeePercent)
	s.Equal("Bought 0.01 BTC via MoonPay", res.Transaction.Description)
	s.Equal(0.01, s.holding("BTC").Balance)

	wire, err := s.ledger.QuoteBuy("BTC", 1, models.PayWire)
	s.Require().NoError(err)
	s.Zero(wire.Fee)

	_, err = s.ledger.QuoteBuy("BTC", 1, "cash")
	s.True(errors.Is(err, apperr.ErrInvalidInput))
}

func (s *LedgerSuite) TestSend() {
	s.fund("ETH", 1)

	_, err := s.ledger.Send(s.ctx, testUser, "ETH", 0.5, "not-an-address")
	s.True(errors.Is(err, apperr.ErrInvalidInput))

	to := "0x52908400098527886E0F7030069857D2E4169EE7"
	tx, err := s.ledger.Send(s.ctx, testUser, "ETH", 0.4, to)
	s.Require().NoError(err)
	s.Equal(models.TxSend, tx.Type)
	s.Equal(to, tx.Counterparty)
	s.Equal(0.6, s.holding("ETH").Balance)

	tx, err = s.ledger.Send(s.ctx, testUser, "ETH", 0.1, "  "+to+"\n")
	s.Require().NoError(err)
	s.Equal(to, tx.Counterparty)
}

func (s *LedgerSuite) TestTrade() {
	offer := models.P2POffer{ID: "p2p1", SellerName: "CryptoKing99", Asset: "BTC", Amount: 0.1, PricePerUnit: 63000, Type: "buy"}
	tx, err := s.ledger.Trade(s.ctx, testUser, offer)
	s.Require().NoError(err)
	s.Equal(models.TxP2PBuy, tx.Type)
	s.Equal(0.1, s.holding("BTC").Balance)

	offer.Type = "sell"
	offer.Amount = 0.5
	_, err = s.ledger.Trade(s.ctx, testUser, offer)
	s.True(errors.Is(err, apperr.ErrInsufficientBalance))
}

func (s *LedgerSuite) TestAdminAdjust() {
	s.fund("BTC", 1)
	h, err := s.ledger.AdminAdjust(s.ctx, testUser, "BTC", 0.25)
	s.Require().NoError(err)
	s.Equal(0.25, h.Balance)

	txs, _ := s.ledger.Transactions(s.ctx, testUser)
	s.Require().NotEmpty(txs)
	s.Equal(models.TxAdminAdjustment, txs[0].Type)
	s.Equal(0.75, txs[0].Amount)

	_, err = s.ledger.AdminAdjust(s.ctx, testUser, "BTC", -1)
	s.True(errors.Is(err, apperr.ErrInvalidAmount))
}

func (s *LedgerSuite) TestRepriceKeepsInvariant() {
	s.fund("BTC", 2)
	s.fund("ETH", 1)

	s.ledger.Reprice(s.ctx, map[string]float64{"BTC": 70000})

	btc := s.holding("BTC")
	s.Equal(70000.0, btc.Price)
	s.Equal(140000.0, btc.Value)
	eth := s.holding("ETH")
	s.Equal(3450.20, eth.Price)

	stored, err := s.repos.LoadHoldings(s.ctx, testUser)
	s.Require().NoError(err)
	for _, h := range stored {
		s.Equal(h.Balance*h.Price, h.Value)
	}
}

func (s *LedgerSuite) TestLedgerSurvivesReload() {
	s.fund("BTC", 1)
	_, err := s.ledger.Send(s.ctx, testUser, "BTC", 0.1, "0x52908400098527886E0F7030069857D2E4169EE7")
	s.Require().NoError(err)

	fresh := NewLedgerService(s.repos.Ledger, s.prices, DefaultFeeSchedule())
	hs, err := fresh.Holdings(s.ctx, testUser)
	s.Require().NoError(err)
	s.Require().Len(hs, 1)
	s.Equal(0.9, hs[0].Balance)
	txs, _ := fresh.Transactions(s.ctx, testUser)
	s.Len(txs, 1)
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

type failingLedger struct {
	repository.Ledger
}

func (failingLedger) SaveHoldings(context.Context, string, []models.Holding) error {
	return errors.New("disk full")
}

func TestFailedSaveLeavesMemoryUntouched(t *testing.T) {
	ctx := context.Background()
	inner := repository.NewRepository(repository.NewMemoryStore()).Ledger
	ledger := NewLedgerService(inner, cache.NewPriceCache(pricing.SeedPrices()), DefaultFeeSchedule())
	_, err := ledger.EnableHolding(ctx, testUser, "BTC")
	require.NoError(t, err)

	ledger.repos = failingLedger{inner}
	_, err = ledger.Credit(ctx, testUser, "BTC", 1)
	require.Error(t, err)

	hs, err := ledger.Holdings(ctx, testUser)
	require.NoError(t, err)
	assert.Zero(t, hs[0].Balance)
}
