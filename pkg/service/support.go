package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
	"github.com/honorwa/honor-wallet/pkg/assistant"
	"github.com/honorwa/honor-wallet/pkg/notify"
	"github.com/honorwa/honor-wallet/pkg/repository"
)

type KYCService struct {
	requests repository.KYC
	profiles repository.Profiles
}

func NewKYCService(requests repository.KYC, profiles repository.Profiles) *KYCService {
	return &KYCService{requests: requests, profiles: profiles}
}

// Submit files a verification request and moves the user to kyc pending.
func (s *KYCService) Submit(ctx context.Context, session models.Session, req models.KYCRequest) (models.KYCRequest, error) {
	req.ID = uuid.NewString()
	req.SubmittedAt = time.Now().UTC()
	req.Status = models.KYCRequestPending

	_, err := s.profiles.UpdateProfile(ctx, session.UserID, func(user *models.User) error {
		if user.KYCStatus == models.KYCVerified {
			return errors.Wrap(apperr.ErrConflict, "identity already verified")
		}
		req.UserID = user.ID
		req.UserEmail = user.Email
		user.KYCStatus = models.KYCPending
		return nil
	})
	if err != nil {
		return models.KYCRequest{}, err
	}
	if err := s.requests.SaveRequest(ctx, req); err != nil {
		return models.KYCRequest{}, err
	}
	return req, nil
}

func (s *KYCService) List(ctx context.Context) ([]models.KYCRequest, error) {
	return s.requests.ListRequests(ctx)
}

// Process approves or rejects a pending request and mirrors the decision
// on the user profile.
func (s *KYCService) Process(ctx context.Context, id string, approve bool) (models.KYCRequest, error) {
	req, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return models.KYCRequest{}, err
	}
	if req.Status != models.KYCRequestPending {
		return models.KYCRequest{}, errors.Wrapf(apperr.ErrConflict, "request %s is %s", id, req.Status)
	}
	_, err = s.profiles.UpdateProfile(ctx, req.UserID, func(user *models.User) error {
		user.KYCStatus = models.KYCRejected
		user.Verified = false
		if approve {
			user.KYCStatus = models.KYCVerified
			user.Verified = true
		}
		return nil
	})
	if err != nil {
		return models.KYCRequest{}, err
	}

	req.Status = models.KYCRequestRejected
	if approve {
		req.Status = models.KYCRequestApproved
	}
	if err := s.requests.SaveRequest(ctx, req); err != nil {
		return models.KYCRequest{}, err
	}
	logrus.WithFields(logrus.Fields{"request": id, "status": req.Status}).Info("kyc processed")
	return req, nil
}

type SupportService struct {
	tickets  repository.Tickets
	notifier *notify.Notifier
	advisor  *assistant.Advisor
}

func NewSupportService(tickets repository.Tickets, notifier *notify.Notifier, advisor *assistant.Advisor) *SupportService {
	return &SupportService{tickets: tickets, notifier: notifier, advisor: advisor}
}

func (s *SupportService) Open(ctx context.Context, session models.Session, in models.TicketInput) (models.SupportTicket, error) {
	priority := in.Priority
	switch priority {
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	case "":
		priority = models.PriorityMedium
	default:
		return models.SupportTicket{}, errors.Wrapf(apperr.ErrInvalidInput, "priority %q", in.Priority)
	}
	t := models.SupportTicket{
		ID:        uuid.NewString(),
		UserEmail: session.Email,
		Subject:   strings.TrimSpace(in.Subject),
		Message:   in.Message,
		Status:    models.TicketOpen,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tickets.SaveTicket(ctx, t); err != nil {
		return models.SupportTicket{}, err
	}
	s.notifier.NewTicket(ctx, t)
	return t, nil
}

// Mine lists the tickets opened by the session's user.
func (s *SupportService) Mine(ctx context.Context, session models.Session) ([]models.SupportTicket, error) {
	all, err := s.tickets.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.SupportTicket, 0)
	for _, t := range all {
		if strings.EqualFold(t.UserEmail, session.Email) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *SupportService) All(ctx context.Context) ([]models.SupportTicket, error) {
	return s.tickets.ListTickets(ctx)
}

// Update applies an admin change. A new admin response is mailed to the
// ticket owner.
func (s *SupportService) Update(ctx context.Context, id string, in models.TicketUpdate) (models.SupportTicket, error) {
	t, err := s.tickets.GetTicket(ctx, id)
	if err != nil {
		return models.SupportTicket{}, err
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	replied := false
	if in.AdminResponse != nil && *in.AdminResponse != "" && *in.AdminResponse != t.AdminResponse {
		t.AdminResponse = *in.AdminResponse
		replied = true
		if in.Status == nil && t.Status == models.TicketOpen {
			t.Status = models.TicketInProgress
		}
	}
	if err := s.tickets.SaveTicket(ctx, t); err != nil {
		return models.SupportTicket{}, err
	}
	if replied {
		s.notifier.AdminReply(ctx, t, t.AdminResponse)
	}
	return t, nil
}

// SuggestReply drafts an admin answer for a ticket.
func (s *SupportService) SuggestReply(ctx context.Context, id string) (string, error) {
	t, err := s.tickets.GetTicket(ctx, id)
	if err != nil {
		return "", err
	}
	return s.advisor.SuggestTicketReply(ctx, t), nil
}
