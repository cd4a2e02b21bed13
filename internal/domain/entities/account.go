package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Role represents account roles
type Role string

const (
	RoleClient  Role = "CLIENT"
	RoleOfficer Role = "OFFICER"
)

// Account represents a credentialed identity
type Account struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	// RefreshTokenHash is the SHA-256 digest of the currently valid refresh
	// token. Invalid (null) before first login and after logout.
	RefreshTokenHash null.String `json:"-"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`

	Profile *Profile   `json:"profile,omitempty"`
	KYC     *KYCRecord `json:"kyc,omitempty"`
}

// PublicAccount is the account view returned by auth endpoints
type PublicAccount struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// Public returns the externally visible account fields
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:       a.ID,
		Username: a.Username,
		Role:     a.Role,
	}
}

// RegisterInput is the full registration payload (account + profile)
type RegisterInput struct {
	Username    string `json:"username" binding:"required,min=8,max=10"`
	Password    string `json:"password" binding:"required,min=12,max=16,strongpwd"`
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required,len=10,numeric"`
	DateOfBirth string `json:"dateOfBirth" binding:"required,datetime=2006-01-02"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	Country     string `json:"country" binding:"required"`
	Nationality string `json:"nationality" binding:"required"`
	Occupation  string `json:"occupation" binding:"required"`
}

// CreateUserInput is the minimal self-service signup payload
type CreateUserInput struct {
	Username string `json:"username" binding:"required,min=8,max=10"`
	Password string `json:"password" binding:"required,min=12,max=16,strongpwd"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,len=10,numeric"`
}

// LoginInput is the login payload. Password complexity is deliberately not
// re-validated here so a policy mismatch cannot be told apart from a wrong
// password.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	// UseSession asks for a server-side session instead of raw tokens
	UseSession bool `json:"useSession"`
}

// RefreshInput carries the refresh token presented for rotation
type RefreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	AccessToken  string         `json:"accessToken,omitempty"`
	RefreshToken string         `json:"refreshToken,omitempty"`
	SessionID    string         `json:"sessionId,omitempty"`
	Account      *PublicAccount `json:"user,omitempty"`
}
