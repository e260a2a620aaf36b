package models

import "time"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// IsAdmin reports whether the role can reach the admin console.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
	StatusOnHold    AccountStatus = "on_hold"
)

type KYCStatus string

const (
	KYCNone     KYCStatus = "none"
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

type User struct {
	ID            string        `json:"id" db:"id"`
	FullName      string        `json:"full_name" db:"full_name"`
	Email         string        `json:"email" db:"email"`
	Role          Role          `json:"role" db:"role"`
	JoinDate      time.Time     `json:"join_date" db:"join_date"`
	Status        AccountStatus `json:"status" db:"status"`
	Verified      bool          `json:"verified" db:"verified"`
	EmailVerified bool          `json:"email_verified" db:"email_verified"`
	Phone         string        `json:"phone,omitempty" db:"phone"`
	FeePercentage *float64      `json:"fee_percentage,omitempty" db:"fee_percentage"`
	KYCStatus     KYCStatus     `json:"kyc_status" db:"kyc_status"`
	BuyAccess     bool          `json:"buy_access" db:"buy_access"`
	PasswordHash  string        `json:"password_hash,omitempty" db:"password_hash"`
}

// Fee returns the user's service fee percentage, 0 when unset.
func (u User) Fee() float64 {
	if u.FeePercentage == nil {
		return 0
	}
	return *u.FeePercentage
}

// Public strips secrets before the profile leaves the service.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// Identity is what an identity provider hands back after authentication.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// Session is the explicit per-login context passed to every ledger flow.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterInput struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserUpdate carries the admin-editable fields; nil means unchanged.
type UserUpdate struct {
	FullName      *string        `json:"full_name"`
	Role          *Role          `json:"role"`
	Status        *AccountStatus `json:"status"`
	Verified      *bool          `json:"verified"`
	FeePercentage *float64       `json:"fee_percentage"`
	BuyAccess     *bool          `json:"buy_access"`
}

// AuthResponse is returned by every successful login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
