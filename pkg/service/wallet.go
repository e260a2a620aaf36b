package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
	"github.com/honorwa/honor-wallet/pkg/repository"
)

// WalletService runs the user-facing flows on top of the ledger: it checks
// the account state, picks the fee rate and books the service fee.
type WalletService struct {
	ledger   *LedgerService
	profiles repository.Profiles
	offers   repository.Offers
}

func NewWalletService(ledger *LedgerService, profiles repository.Profiles, offers repository.Offers) *WalletService {
	return &WalletService{ledger: ledger, profiles: profiles, offers: offers}
}

func (s *WalletService) Holdings(ctx context.Context, session models.Session) ([]models.Holding, error) {
	return s.ledger.Holdings(ctx, session.UserID)
}

func (s *WalletService) Transactions(ctx context.Context, session models.Session) ([]models.Transaction, error) {
	return s.ledger.Transactions(ctx, session.UserID)
}

func (s *WalletService) Enable(ctx context.Context, session models.Session, symbol string) (models.Holding, error) {
	if _, err := s.activeUser(ctx, session); err != nil {
		return models.Holding{}, err
	}
	return s.ledger.EnableHolding(ctx, session.UserID, symbol)
}

func (s *WalletService) Send(ctx context.Context, session models.Session, in models.SendInput) (models.Transaction, error) {
	user, err := s.activeUser(ctx, session)
	if err != nil {
		return models.Transaction{}, err
	}
	tx, err := s.ledger.Send(ctx, user.ID, in.Asset, in.Amount, in.ToAddress)
	if err != nil {
		return models.Transaction{}, err
	}
	s.chargeFee(ctx, user, tx)
	return tx, nil
}

func (s *WalletService) QuoteConvert(ctx context.Context, session models.Session, req models.ConvertRequest) (models.ConvertResult, error) {
	user, err := s.profiles.GetByID(ctx, session.UserID)
	if err != nil {
		return models.ConvertResult{}, err
	}
	return s.ledger.QuoteConvert(req.From, req.To, req.Amount, s.convertFee(user))
}

func (s *WalletService) Convert(ctx context.Context, session models.Session, req models.ConvertRequest) (models.ConvertResult, error) {
	user, err := s.activeUser(ctx, session)
	if err != nil {
		return models.ConvertResult{}, err
	}
	res, err := s.ledger.Convert(ctx, user.ID, req.From, req.To, req.Amount, s.convertFee(user))
	if err != nil {
		return models.ConvertResult{}, err
	}
	s.chargeFee(ctx, user, res.Transaction)
	return res, nil
}

func (s *WalletService) QuoteBuy(_ context.Context, req models.BuyRequest) (models.BuyQuote, error) {
	return s.ledger.QuoteBuy(req.Asset, req.Amount, req.Method)
}

func (s *WalletService) Buy(ctx context.Context, session models.Session, req models.BuyRequest) (models.BuyResult, error) {
	user, err := s.activeUser(ctx, session)
	if err != nil {
		return models.BuyResult{}, err
	}
	res, err := s.ledger.Buy(ctx, user.ID, req)
	if err != nil {
		return models.BuyResult{}, err
	}
	s.chargeFee(ctx, user, res.Transaction)
	return res, nil
}

func (s *WalletService) Offers(ctx context.Context) ([]models.P2POffer, error) {
	return s.offers.ListOffers(ctx)
}

// AcceptOffer claims an open P2P offer and fills it against the caller's
// ledger. The claim is released again when the fill fails.
func (s *WalletService) AcceptOffer(ctx context.Context, session models.Session, offerID string) (models.Transaction, error) {
	user, err := s.activeUser(ctx, session)
	if err != nil {
		return models.Transaction{}, err
	}
	offer, err := s.offers.ClaimOffer(ctx, offerID)
	if err != nil {
		return models.Transaction{}, err
	}
	tx, err := s.ledger.Trade(ctx, user.ID, offer)
	if err != nil {
		if rerr := s.offers.ReleaseOffer(ctx, offerID); rerr != nil {
			logrus.WithError(rerr).WithField("offer", offerID).Error("claimed offer not released")
		}
		return models.Transaction{}, err
	}
	s.chargeFee(ctx, user, tx)
	return tx, nil
}

func (s *WalletService) activeUser(ctx context.Context, session models.Session) (models.User, error) {
	user, err := s.profiles.GetByID(ctx, session.UserID)
	if err != nil {
		return models.User{}, err
	}
	switch user.Status {
	case models.StatusOnHold:
		return models.User{}, errors.Wrapf(apperr.ErrAccountOnHold, "user %s", user.ID)
	case models.StatusSuspended:
		return models.User{}, errors.Wrapf(apperr.ErrUnauthorized, "user %s is suspended", user.ID)
	}
	return user, nil
}

func (s *WalletService) convertFee(user models.User) float64 {
	if user.FeePercentage != nil {
		return *user.FeePercentage
	}
	return s.ledger.Fees().DefaultConvert
}

// chargeFee books the user's service fee for tx. The primary operation has
// already succeeded, so a failure here is logged and not returned.
func (s *WalletService) chargeFee(ctx context.Context, user models.User, tx models.Transaction) {
	if user.Status != models.StatusActive {
		return
	}
	if _, err := s.ledger.ApplyFee(ctx, user.ID, tx, user.Fee()); err != nil {
		logrus.WithError(err).WithField("tx", tx.ID).Error("service fee not recorded")
	}
}
