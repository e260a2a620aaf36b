package service

import (
	"context"
	"time"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/assistant"
	"github.com/honorwa/honor-wallet/pkg/cache"
	"github.com/honorwa/honor-wallet/pkg/notify"
	"github.com/honorwa/honor-wallet/pkg/pricing"
	"github.com/honorwa/honor-wallet/pkg/repository"
)

type Authorization interface {
	Register(ctx context.Context, in models.RegisterInput) (models.AuthResponse, error)
	Login(ctx context.Context, in models.LoginInput) (models.AuthResponse, error)
	LoginFederated(ctx context.Context, id models.Identity) (models.AuthResponse, error)
	Logout(sessionID string)
	Authenticate(token string) (models.Session, error)
	Me(ctx context.Context, session models.Session) (models.User, error)
}

type Wallet interface {
	Holdings(ctx context.Context, session models.Session) ([]models.Holding, error)
	Transactions(ctx context.Context, session models.Session) ([]models.Transaction, error)
	Enable(ctx context.Context, session models.Session, symbol string) (models.Holding, error)
	Send(ctx context.Context, session models.Session, in models.SendInput) (models.Transaction, error)
	QuoteConvert(ctx context.Context, session models.Session, req models.ConvertRequest) (models.ConvertResult, error)
	Convert(ctx context.Context, session models.Session, req models.ConvertRequest) (models.ConvertResult, error)
	QuoteBuy(ctx context.Context, req models.BuyRequest) (models.BuyQuote, error)
	Buy(ctx context.Context, session models.Session, req models.BuyRequest) (models.BuyResult, error)
	Offers(ctx context.Context) ([]models.P2POffer, error)
	AcceptOffer(ctx context.Context, session models.Session, offerID string) (models.Transaction, error)
}

type Pricing interface {
	Refresh(ctx context.Context) bool
	Snapshot() map[string]float64
	UpdatedAt() time.Time
}

type KYC interface {
	Submit(ctx context.Context, session models.Session, req models.KYCRequest) (models.KYCRequest, error)
	List(ctx context.Context) ([]models.KYCRequest, error)
	Process(ctx context.Context, id string, approve bool) (models.KYCRequest, error)
}

type Support interface {
	Open(ctx context.Context, session models.Session, in models.TicketInput) (models.SupportTicket, error)
	Mine(ctx context.Context, session models.Session) ([]models.SupportTicket, error)
	All(ctx context.Context) ([]models.SupportTicket, error)
	Update(ctx context.Context, id string, in models.TicketUpdate) (models.SupportTicket, error)
	SuggestReply(ctx context.Context, id string) (string, error)
}

type Admin interface {
	Users(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, actor models.Session, id string, in models.UserUpdate) (models.User, error)
	UserLedger(ctx context.Context, id string) ([]models.Holding, []models.Transaction, error)
	AdjustBalance(ctx context.Context, actor models.Session, in models.AdjustInput) (models.Holding, error)
}

type Advisor interface {
	Ask(ctx context.Context, session models.Session, query string) (string, error)
	Market(ctx context.Context) string
}

type Service struct {
	Authorization
	Wallet
	Pricing
	KYC
	Support
	Admin
	Advisor
}

// Deps are the collaborators built by the caller from configuration.
type Deps struct {
	Source    pricing.Source
	Prices    *cache.PriceCache
	Sessions  *cache.SessionCache
	Publisher Publisher
	Notifier  *notify.Notifier
	Advisor   *assistant.Advisor
	Fees      FeeSchedule
	Auth      AuthConfig
}

// Engine keeps the concrete services the process needs beyond the
// request-facing interfaces: the pricing schedule, fee reloads and admin
// seeding.
type Engine struct {
	*Service
	Ledger      *LedgerService
	PricingSvc  *PricingService
	AuthService *AuthService
}

func NewService(repos *repository.Repository, deps Deps) *Engine {
	ledger := NewLedgerService(repos.Ledger, deps.Prices, deps.Fees)
	pricingSvc := NewPricingService(deps.Source, deps.Prices, ledger, deps.Publisher)
	auth := NewAuthService(repos.Profiles, deps.Sessions, deps.Auth)

	return &Engine{
		Service: &Service{
			Authorization: auth,
			Wallet:        NewWalletService(ledger, repos.Profiles, repos.Offers),
			Pricing:       pricingSvc,
			KYC:           NewKYCService(repos.KYC, repos.Profiles),
			Support:       NewSupportService(repos.Tickets, deps.Notifier, deps.Advisor),
			Admin:         NewAdminService(repos.Profiles, ledger),
			Advisor:       NewAdvisorService(deps.Advisor, ledger, pricingSvc),
		},
		Ledger:      ledger,
		PricingSvc:  pricingSvc,
		AuthService: auth,
	}
}
