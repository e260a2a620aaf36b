package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/honorwa/honor-wallet/models"
	"github.com/honorwa/honor-wallet/pkg/apperr"
	"github.com/honorwa/honor-wallet/pkg/cache"
	"github.com/honorwa/honor-wallet/pkg/repository"
)

type AuthConfig struct {
	Secret     string        `mapstructure:"jwt_secret"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
	Admins     []AdminSeed   `mapstructure:"admins"`
}

// AdminSeed describes an account created at startup when missing.
type AdminSeed struct {
	Email    string      `mapstructure:"email"`
	FullName string      `mapstructure:"full_name"`
	Password string      `mapstructure:"password"`
	Role     models.Role `mapstructure:"role"`
}

type claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	repos    repository.Profiles
	sessions *cache.SessionCache
	cfg      AuthConfig
	now      func() time.Time
}

func NewAuthService(repos repository.Profiles, sessions *cache.SessionCache, cfg AuthConfig) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{repos: repos, sessions: sessions, cfg: cfg, now: time.Now}
}

// Register creates a password account. New accounts start on hold until an
// admin activates them.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cfg.BcryptCost)
	if err != nil {
		return models.AuthResponse{}, errors.Wrap(err, "hash password")
	}
	user := s.newUser(uuid.NewString(), email, in.FullName)
	user.PasswordHash = string(hash)
	if err := s.repos.CreateProfile(ctx, user); err != nil {
		return models.AuthResponse{}, err
	}
	logrus.WithField("user", user.ID).Info("user registered")
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, in models.LoginInput) (models.AuthResponse, error) {
	user, err := s.repos.GetByEmail(ctx, in.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		return models.AuthResponse{}, errors.Wrap(apperr.ErrUnauthenticated, "invalid credentials")
	}
	if err != nil {
		return models.AuthResponse{}, err
	}
	if user.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return models.AuthResponse{}, errors.Wrap(apperr.ErrUnauthenticated, "invalid credentials")
	}
	return s.issue(user)
}

// LoginFederated accepts an identity already verified by an external
// provider and creates the profile on first sight.
func (s *AuthService) LoginFederated(ctx context.Context, id models.Identity) (models.AuthResponse, error) {
	user, err := s.repos.GetByEmail(ctx, id.Email)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		userID := id.ID
		if userID == "" {
			userID = uuid.NewString()
		}
		user = s.newUser(userID, strings.ToLower(id.Email), id.Name)
		user.EmailVerified = id.Verified
		err = s.repos.CreateProfile(ctx, user)
		if errors.Is(err, apperr.ErrConflict) {
			// created by a concurrent login
			user, err = s.repos.GetByEmail(ctx, id.Email)
		}
		if err != nil {
			return models.AuthResponse{}, err
		}
		logrus.WithField("user", user.ID).Info("federated user created")
	case err != nil:
		return models.AuthResponse{}, err
	case id.Verified && !user.EmailVerified:
		user, err = s.repos.UpdateProfile(ctx, user.ID, func(u *models.User) error {
			u.EmailVerified = true
			return nil
		})
		if err != nil {
			return models.AuthResponse{}, err
		}
	}
	return s.issue(user)
}

func (s *AuthService) Logout(sessionID string) {
	s.sessions.Delete(sessionID)
}

// Authenticate resolves a bearer token to its live session.
func (s *AuthService) Authenticate(token string) (models.Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !parsed.Valid {
		return models.Session{}, errors.Wrap(apperr.ErrUnauthenticated, "invalid or expired token")
	}
	c := parsed.Claims.(*claims)
	session, ok := s.sessions.Get(c.ID)
	if !ok {
		return models.Session{}, errors.Wrap(apperr.ErrUnauthenticated, "session ended")
	}
	return session, nil
}

// Me returns the profile behind a session.
func (s *AuthService) Me(ctx context.Context, session models.Session) (models.User, error) {
	user, err := s.repos.GetByID(ctx, session.UserID)
	if err != nil {
		return models.User{}, err
	}
	return user.Public(), nil
}

// SeedAdmins makes sure every configured admin account exists.
func (s *AuthService) SeedAdmins(ctx context.Context) error {
	for _, seed := range s.cfg.Admins {
		_, err := s.repos.GetByEmail(ctx, seed.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), s.cfg.BcryptCost)
		if err != nil {
			return errors.Wrap(err, "hash admin password")
		}
		user := s.newUser(uuid.NewString(), strings.ToLower(seed.Email), seed.FullName)
		user.Role = seed.Role
		if !user.Role.IsAdmin() {
			user.Role = models.RoleAdmin
		}
		user.Status = models.StatusActive
		user.Verified = true
		user.EmailVerified = true
		user.KYCStatus = models.KYCVerified
		user.BuyAccess = true
		user.PasswordHash = string(hash)
		if err := s.repos.CreateProfile(ctx, user); errors.Is(err, apperr.ErrConflict) {
			continue
		} else if err != nil {
			return err
		}
		logrus.WithField("email", user.Email).Info("admin account seeded")
	}
	return nil
}

func (s *AuthService) newUser(id, email, name string) models.User {
	return models.User{
		ID:        id,
		FullName:  name,
		Email:     email,
		Role:      models.RoleUser,
		JoinDate:  s.now().UTC(),
		Status:    models.StatusOnHold,
		KYCStatus: models.KYCNone,
	}
}

func (s *AuthService) issue(user models.User) (models.AuthResponse, error) {
	if user.Status == models.StatusSuspended {
		return models.AuthResponse{}, errors.Wrap(apperr.ErrUnauthorized, "account suspended")
	}
	now := s.now()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return models.AuthResponse{}, errors.Wrap(err, "sign token")
	}
	s.sessions.Put(session)
	return models.AuthResponse{Token: signed, ExpiresAt: session.ExpiresAt, User: user.Public()}, nil
}
