package repositories

import (
	"context"

	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
)

// AccountListFilter narrows and orders the account listing
type AccountListFilter struct {
	// Search matches username or profile full name as a case-insensitive
	// substring
	Search    string
	Role      entities.Role
	KYCStatus entities.KYCStatus
	SortBy    string
	SortOrder string
	Offset    int
	Limit     int
}

// AccountRepository defines account persistence operations
type AccountRepository interface {
	Create(ctx context.Context, account *entities.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	GetByUsername(ctx context.Context, username string) (*entities.Account, error)
	// GetDetailed loads an account with its profile and KYC record joined
	GetDetailed(ctx context.Context, id uuid.UUID) (*entities.Account, error)
	// List returns a page of accounts with profile and KYC joined, plus the
	// unpaginated total
	List(ctx context.Context, filter AccountListFilter) ([]*entities.Account, int64, error)
	// SetRefreshTokenHash overwrites the stored refresh-token digest; an
	// empty hash clears it
	SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error
	// RotateRefreshTokenHash swaps the digest only while it still equals
	// oldHash, so concurrent presentations of the same refresh token cannot
	// both rotate
	RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) error
}
