package repository

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
)

const (
	kycKey     = "honor_kyc_requests"
	ticketsKey = "honor_tickets"
	offersKey  = "honor_p2p_offers"
)

type KYCDocuments struct {
	mu    sync.Mutex
	store Store
}

func NewKYCDocuments(store Store) *KYCDocuments {
	return &KYCDocuments{store: store}
}

func (r *KYCDocuments) SaveRequest(ctx context.Context, req models.KYCRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reqs, err := r.ListRequests(ctx)
	if err != nil {
		return err
	}
	reqs = upsert(reqs, req, func(a, b models.KYCRequest) bool { return a.ID == b.ID })
	return putJSON(ctx, r.store, kycKey, reqs)
}

func (r *KYCDocuments) ListRequests(ctx context.Context) ([]models.KYCRequest, error) {
	reqs := []models.KYCRequest{}
	if _, err := getJSON(ctx, r.store, kycKey, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *KYCDocuments) GetRequest(ctx context.Context, id string) (models.KYCRequest, error) {
	reqs, err := r.ListRequests(ctx)
	if err != nil {
		return models.KYCRequest{}, err
	}
	for _, req := range reqs {
		if req.ID == id {
			return req, nil
		}
	}
	return models.KYCRequest{}, errors.Wrapf(apperr.ErrNotFound, "kyc request %s", id)
}

type TicketDocuments struct {
	mu    sync.Mutex
	store Store
}

func NewTicketDocuments(store Store) *TicketDocuments {
	return &TicketDocuments{store: store}
}

func (r *TicketDocuments) SaveTicket(ctx context.Context, t models.SupportTicket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tickets, err := r.ListTickets(ctx)
	if err != nil {
		return err
	}
	tickets = upsert(tickets, t, func(a, b models.SupportTicket) bool { return a.ID == b.ID })
	return putJSON(ctx, r.store, ticketsKey, tickets)
}

func (r *TicketDocuments) ListTickets(ctx context.Context) ([]models.SupportTicket, error) {
	tickets := []models.SupportTicket{}
	if _, err := getJSON(ctx, r.store, ticketsKey, &tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

func (r *TicketDocuments) GetTicket(ctx context.Context, id string) (models.SupportTicket, error) {
	tickets, err := r.ListTickets(ctx)
	if err != nil {
		return models.SupportTicket{}, err
	}
	for _, t := range tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return models.SupportTicket{}, errors.Wrapf(apperr.ErrNotFound, "ticket %s", id)
}

// OfferDocuments falls back to models.DefaultOffers until the first save.
type OfferDocuments struct {
	mu    sync.Mutex
	store Store
}

func NewOfferDocuments(store Store) *OfferDocuments {
	return &OfferDocuments{store: store}
}

func (r *OfferDocuments) SaveOffer(ctx context.Context, o models.P2POffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	offers, err := r.ListOffers(ctx)
	if err != nil {
		return err
	}
	offers = upsert(offers, o, func(a, b models.P2POffer) bool { return a.ID == b.ID })
	return putJSON(ctx, r.store, offersKey, offers)
}

// ClaimOffer marks an open offer completed and returns it as it was before
// the claim. A completed offer yields apperr.ErrConflict.
func (r *OfferDocuments) ClaimOffer(ctx context.Context, id string) (models.P2POffer, error) {
	return r.setCompleted(ctx, id, true)
}

// ReleaseOffer reopens an offer whose claim could not be filled.
func (r *OfferDocuments) ReleaseOffer(ctx context.Context, id string) error {
	_, err := r.setCompleted(ctx, id, false)
	return err
}

func (r *OfferDocuments) setCompleted(ctx context.Context, id string, completed bool) (models.P2POffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	offers, err := r.ListOffers(ctx)
	if err != nil {
		return models.P2POffer{}, err
	}
	for i := range offers {
		if offers[i].ID != id {
			continue
		}
		prev := offers[i]
		if completed && prev.Completed {
			return models.P2POffer{}, errors.Wrapf(apperr.ErrConflict, "offer %s already completed", id)
		}
		offers[i].Completed = completed
		if err := putJSON(ctx, r.store, offersKey, offers); err != nil {
			return models.P2POffer{}, err
		}
		return prev, nil
	}
	return models.P2POffer{}, errors.Wrapf(apperr.ErrNotFound, "offer %s", id)
}

func (r *OfferDocuments) ListOffers(ctx context.Context) ([]models.P2POffer, error) {
	offers := []models.P2POffer{}
	found, err := getJSON(ctx, r.store, offersKey, &offers)
	if err != nil {
		return nil, err
	}
	if !found {
		return append([]models.P2POffer(nil), models.DefaultOffers...), nil
	}
	return offers, nil
}

func (r *OfferDocuments) GetOffer(ctx context.Context, id string) (models.P2POffer, error) {
	offers, err := r.ListOffers(ctx)
	if err != nil {
		return models.P2POffer{}, err
	}
	for _, o := range offers {
		if o.ID == id {
			return o, nil
		}
	}
	return models.P2POffer{}, errors.Wrapf(apperr.ErrNotFound, "offer %s", id)
}

func upsert[T any](list []T, item T, same func(a, b T) bool) []T {
	for i := range list {
		if same(list[i], item) {
			list[i] = item
			return list
		}
	}
	return append(list, item)
}
