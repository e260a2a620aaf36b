package repository

import (
	"context"

	"github.com/honorwa/honor-wallet/models"
)

// Ledger persists one user's holdings and transaction log as two separate
// documents. Nothing ties the two writes together: a crash between them can
// leave them out of step, and concurrent writers resolve last-write-wins.
type Ledger interface {
	SaveHoldings(ctx context.Context, userID string, holdings []models.Holding) error
	LoadHoldings(ctx context.Context, userID string) ([]models.Holding, error)
	SaveTransactions(ctx context.Context, userID string, txs []models.Transaction) error
	LoadTransactions(ctx context.Context, userID string) ([]models.Transaction, error)
}

type Profiles interface {
	SaveProfile(ctx context.Context, user models.User) error
	CreateProfile(ctx context.Context, user models.User) error
	UpdateProfile(ctx context.Context, id string, fn func(*models.User) error) (models.User, error)
	LoadAllProfiles(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type KYC interface {
	SaveRequest(ctx context.Context, req models.KYCRequest) error
	ListRequests(ctx context.Context) ([]models.KYCRequest, error)
	GetRequest(ctx context.Context, id string) (models.KYCRequest, error)
}

type Tickets interface {
	SaveTicket(ctx context.Context, t models.SupportTicket) error
	ListTickets(ctx context.Context) ([]models.SupportTicket, error)
	GetTicket(ctx context.Context, id string) (models.SupportTicket, error)
}

type Offers interface {
	SaveOffer(ctx context.Context, o models.P2POffer) error
	ListOffers(ctx context.Context) ([]models.P2POffer, error)
	GetOffer(ctx context.Context, id string) (models.P2POffer, error)
	ClaimOffer(ctx context.Context, id string) (models.P2POffer, error)
	ReleaseOffer(ctx context.Context, id string) error
}

type Repository struct {
	Ledger
	Profiles
	KYC
	Tickets
	Offers
}

func NewRepository(store Store) *Repository {
	return &Repository{
		Ledger:   NewLedgerDocuments(store),
		Profiles: NewProfileDocuments(store),
		KYC:      NewKYCDocuments(store),
		Tickets:  NewTicketDocuments(store),
		Offers:   NewOfferDocuments(store),
	}
}
