package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
)

const usersKey = "honor_users"

// ProfileDocuments stores every profile in a single flat list document.
// Writes hold mu across load, modify and put so concurrent saves never
// rewrite the list from a stale read.
type ProfileDocuments struct {
	mu    sync.Mutex
	store Store
}

func NewProfileDocuments(store Store) *ProfileDocuments {
	return &ProfileDocuments{store: store}
}

// SaveProfile inserts the user or replaces the profile with the same id.
func (r *ProfileDocuments) SaveProfile(ctx context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.LoadAllProfiles(ctx)
	if err != nil {
		return err
	}
	users = upsert(users, user, func(a, b models.User) bool { return a.ID == b.ID })
	return putJSON(ctx, r.store, usersKey, users)
}

// CreateProfile adds a new user unless the email is already taken.
func (r *ProfileDocuments) CreateProfile(ctx context.Context, user models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.LoadAllProfiles(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == user.ID || strings.EqualFold(u.Email, user.Email) {
			return errors.Wrapf(apperr.ErrConflict, "email %s", user.Email)
		}
	}
	return putJSON(ctx, r.store, usersKey, append(users, user))
}

// UpdateProfile applies fn to the stored profile and saves the result. An
// error from fn aborts the update.
func (r *ProfileDocuments) UpdateProfile(ctx context.Context, id string, fn func(*models.User) error) (models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.LoadAllProfiles(ctx)
	if err != nil {
		return models.User{}, err
	}
	for i := range users {
		if users[i].ID != id {
			continue
		}
		user := users[i]
		if err := fn(&user); err != nil {
			return models.User{}, err
		}
		users[i] = user
		if err := putJSON(ctx, r.store, usersKey, users); err != nil {
			return models.User{}, err
		}
		return user, nil
	}
	return models.User{}, errors.Wrapf(apperr.ErrNotFound, "user %s", id)
}

func (r *ProfileDocuments) LoadAllProfiles(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if _, err := getJSON(ctx, r.store, usersKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *ProfileDocuments) GetByID(ctx context.Context, id string) (models.User, error) {
	return r.find(ctx, func(u models.User) bool { return u.ID == id }, "user "+id)
}

// GetByEmail matches case-insensitively.
func (r *ProfileDocuments) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.find(ctx, func(u models.User) bool { return strings.EqualFold(u.Email, email) }, "user "+email)
}

func (r *ProfileDocuments) find(ctx context.Context, match func(models.User) bool, what string) (models.User, error) {
	users, err := r.LoadAllProfiles(ctx)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, errors.Wrap(apperr.ErrNotFound, what)
}
