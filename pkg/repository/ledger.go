package repository

import (
	"context"

	"github.com/honorwa/honor-wallet/models"
)

const (
	holdingsPrefix     = "honor_assets/"
	transactionsPrefix = "honor_transactions/"
)

type LedgerDocuments struct {
	store Store
}

func NewLedgerDocuments(store Store) *LedgerDocuments {
	return &LedgerDocuments{store: store}
}

func (r *LedgerDocuments) SaveHoldings(ctx context.Context, userID string, holdings []models.Holding) error {
	if holdings == nil {
		holdings = []models.Holding{}
	}
	return putJSON(ctx, r.store, holdingsPrefix+userID, holdings)
}

// LoadHoldings returns an empty list for a user that never saved anything.
func (r *LedgerDocuments) LoadHoldings(ctx context.Context, userID string) ([]models.Holding, error) {
	holdings := []models.Holding{}
	if _, err := getJSON(ctx, r.store, holdingsPrefix+userID, &holdings); err != nil {
		return nil, err
	}
	return holdings, nil
}

func (r *LedgerDocuments) SaveTransactions(ctx context.Context, userID string, txs []models.Transaction) error {
	if txs == nil {
		txs = []models.Transaction{}
	}
	return putJSON(ctx, r.store, transactionsPrefix+userID, txs)
}

func (r *LedgerDocuments) LoadTransactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	if _, err := getJSON(ctx, r.store, transactionsPrefix+userID, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
