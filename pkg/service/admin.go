package service

import (
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
	"github.com/honorwa/honor-wallet/pkg/assistant"
	"github.com/honorwa/honor-wallet/pkg/repository"
)

type AdminService struct {
	profiles repository.Profiles
	ledger   *LedgerService
}

func NewAdminService(profiles repository.Profiles, ledger *LedgerService) *AdminService {
	return &AdminService{profiles: profiles, ledger: ledger}
}

// Users lists every profile, oldest first, without password hashes.
func (s *AdminService) Users(ctx context.Context) ([]models.User, error) {
	users, err := s.profiles.LoadAllProfiles(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].JoinDate.Before(users[j].JoinDate) })
	for i := range users {
		users[i] = users[i].Public()
	}
	return users, nil
}

// UpdateUser applies the non-nil fields of in. Only a super admin may hand
// out admin roles.
func (s *AdminService) UpdateUser(ctx context.Context, actor models.Session, id string, in models.UserUpdate) (models.User, error) {
	user, err := s.profiles.UpdateProfile(ctx, id, func(user *models.User) error {
		if in.Role != nil {
			if in.Role.IsAdmin() && actor.Role != models.RoleSuperAdmin {
				return errors.Wrap(apperr.ErrUnauthorized, "only a super admin can grant admin roles")
			}
			user.Role = *in.Role
		}
		if in.FullName != nil {
			user.FullName = *in.FullName
		}
		if in.Status != nil {
			switch *in.Status {
			case models.StatusActive, models.StatusSuspended, models.StatusOnHold:
				user.Status = *in.Status
			default:
				return errors.Wrapf(apperr.ErrInvalidInput, "status %q", *in.Status)
			}
		}
		if in.Verified != nil {
			user.Verified = *in.Verified
		}
		if in.FeePercentage != nil {
			if *in.FeePercentage < 0 || *in.FeePercentage >= 100 {
				return errors.Wrapf(apperr.ErrInvalidInput, "fee %v%%", *in.FeePercentage)
			}
			fee := *in.FeePercentage
			user.FeePercentage = &fee
		}
		if in.BuyAccess != nil {
			user.BuyAccess = *in.BuyAccess
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	logrus.WithFields(logrus.Fields{"admin": actor.UserID, "user": id}).Info("user updated")
	return user.Public(), nil
}

// UserLedger returns another user's holdings and transactions.
func (s *AdminService) UserLedger(ctx context.Context, id string) ([]models.Holding, []models.Transaction, error) {
	if _, err := s.profiles.GetByID(ctx, id); err != nil {
		return nil, nil, err
	}
	holdings, err := s.ledger.Holdings(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	txs, err := s.ledger.Transactions(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return holdings, txs, nil
}

func (s *AdminService) AdjustBalance(ctx context.Context, actor models.Session, in models.AdjustInput) (models.Holding, error) {
	if _, err := s.profiles.GetByID(ctx, in.UserID); err != nil {
		return models.Holding{}, err
	}
	h, err := s.ledger.AdminAdjust(ctx, in.UserID, in.Asset, in.Balance)
	if err != nil {
		return models.Holding{}, err
	}
	logrus.WithFields(logrus.Fields{
		"admin": actor.UserID, "user": in.UserID, "asset": h.Symbol, "balance": h.Balance,
	}).Warn("balance overridden")
	return h, nil
}

type AdvisorService struct {
	advisor *assistant.Advisor
	ledger  *LedgerService
	prices  *PricingService
}

func NewAdvisorService(advisor *assistant.Advisor, ledger *LedgerService, prices *PricingService) *AdvisorService {
	return &AdvisorService{advisor: advisor, ledger: ledger, prices: prices}
}

// Ask answers a portfolio question with the caller's holdings as context.
func (s *AdvisorService) Ask(ctx context.Context, session models.Session, query string) (string, error) {
	holdings, err := s.ledger.Holdings(ctx, session.UserID)
	if err != nil {
		return "", err
	}
	return s.advisor.Advise(ctx, query, holdings), nil
}

func (s *AdvisorService) Market(ctx context.Context) string {
	return s.advisor.AnalyzeMarket(ctx, s.prices.Snapshot())
}
