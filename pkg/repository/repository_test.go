package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
)

func TestLedgerDocumentsEmptyUser(t *testing.T) {
	repo := NewRepository(NewMemoryStore())
	ctx := context.Background()

	holdings, err := repo.LoadHoldings(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, holdings)
	assert.NotNil(t, holdings)

	txs, err := repo.LoadTransactions(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestLedgerDocumentsAreIndependentPerUser(t *testing.T) {
	repo := NewRepository(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.SaveHoldings(ctx, "u1", []models.Holding{{ID: "h1", Symbol: "BTC", Balance: 1}}))
	require.NoError(t, repo.SaveHoldings(ctx, "u2", []models.Holding{{ID: "h2", Symbol: "ETH", Balance: 2}}))

	got, err := repo.LoadHoldings(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BTC", got[0].Symbol)
}

func TestProfilesUpsertAndLookup(t *testing.T) {
	repo := NewRepository(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.SaveProfile(ctx, models.User{ID: "u1", Email: "Sarah@Example.com", Status: models.StatusOnHold}))
	require.NoError(t, repo.SaveProfile(ctx, models.User{ID: "u2", Email: "mike@example.com"}))
	require.NoError(t, repo.SaveProfile(ctx, models.User{ID: "u1", Email: "Sarah@Example.com", Status: models.StatusActive}))

	all, err := repo.LoadAllProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	u, err := repo.GetByEmail(ctx, "sarah@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, u.Status)

	_, err = repo.GetByID(ctx, "u9")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestOffersDefaultUntilSaved(t *testing.T) {
	repo := NewRepository(NewMemoryStore())
	ctx := context.Background()

	offers, err := repo.ListOffers(ctx)
	require.NoError(t, err)
	assert.Len(t, offers, len(models.DefaultOffers))

	offer := offers[0]
	offer.Completed = true
	require.NoError(t, repo.SaveOffer(ctx, offer))

	got, err := repo.GetOffer(ctx, offer.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.False(t, models.DefaultOffers[0].Completed)
}

func TestTicketsAndKYC(t *testing.T) {
	repo := NewRepository(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, repo.SaveTicket(ctx, models.SupportTicket{ID: "t1", Subject: "Deposit issue"}))
	_, err := repo.GetTicket(ctx, "t2")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	require.NoError(t, repo.SaveRequest(ctx, models.KYCRequest{ID: "k1", Status: models.KYCRequestPending}))
	require.NoError(t, repo.SaveRequest(ctx, models.KYCRequest{ID: "k1", Status: models.KYCRequestApproved}))
	reqs, err := repo.ListRequests(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, models.KYCRequestApproved, reqs[0].Status)
}

// laggyStore widens the window between reading and writing a document.
type laggyStore struct {
	*MemoryStore
	delay time.Duration
}

func (s laggyStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(s.delay)
	return s.MemoryStore.Get(ctx, key)
}

func (s laggyStore) Put(ctx context.Context, key string, value []byte) error {
	time.Sleep(s.delay)
	return s.MemoryStore.Put(ctx, key, value)
}

func TestConcurrentProfileSavesKeepEveryUser(t *testing.T) {
	repo := NewRepository(laggyStore{NewMemoryStore(), time.Millisecond})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.SaveProfile(ctx, models.User{ID: fmt.Sprintf("u%d", i), Email: fmt.Sprintf("u%d@example.com", i)}))
		}(i)
	}
	wg.Wait()

	all, err := repo.LoadAllProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestCreateProfileRejectsTakenEmail(t *testing.T) {
	repo := NewRepository(laggyStore{NewMemoryStore(), time.Millisecond})
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.CreateProfile(ctx, models.User{ID: fmt.Sprintf("u%d", i), Email: "Same@example.com"})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, apperr.ErrConflict))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	all, err := repo.LoadAllProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateProfile(t *testing.T) {
	repo := NewRepository(NewMemoryStore())
	ctx := context.Background()
	require.NoError(t, repo.SaveProfile(ctx, models.User{ID: "u1", Status: models.StatusOnHold}))

	u, err := repo.UpdateProfile(ctx, "u1", func(u *models.User) error {
		u.Status = models.StatusActive
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, u.Status)

	_, err = repo.UpdateProfile(ctx, "u1", func(u *models.User) error {
		u.Status = models.StatusSuspended
		return apperr.ErrInvalidInput
	})
	assert.True(t, errors.Is(err, apperr.ErrInvalidInput))
	got, _ := repo.GetByID(ctx, "u1")
	assert.Equal(t, models.StatusActive, got.Status)

	_, err = repo.UpdateProfile(ctx, "u9", func(*models.User) error { return nil })
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestConcurrentTicketAndKYCSaves(t *testing.T) {
	repo := NewRepository(laggyStore{NewMemoryStore(), time.Millisecond})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.SaveTicket(ctx, models.SupportTicket{ID: fmt.Sprintf("t%d", i)}))
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.SaveRequest(ctx, models.KYCRequest{ID: fmt.Sprintf("k%d", i)}))
		}(i)
	}
	wg.Wait()

	tickets, err := repo.ListTickets(ctx)
	require.NoError(t, err)
	assert.Len(t, tickets, 10)
	reqs, err := repo.ListRequests(ctx)
	require.NoError(t, err)
	assert.Len(t, reqs, 10)
}

func TestClaimOfferOnce(t *testing.T) {
	repo := NewRepository(laggyStore{NewMemoryStore(), time.Millisecond})
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	claimed := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			offer, err := repo.ClaimOffer(ctx, "p2p1")
			if err != nil {
				assert.True(t, errors.Is(err, apperr.ErrConflict))
				return
			}
			assert.False(t, offer.Completed)
			mu.Lock()
			claimed++
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, claimed)

	require.NoError(t, repo.ReleaseOffer(ctx, "p2p1"))
	got, err := repo.GetOffer(ctx, "p2p1")
	require.NoError(t, err)
	assert.False(t, got.Completed)

	_, err = repo.ClaimOffer(ctx, "nope")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
