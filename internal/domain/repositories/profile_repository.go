package repositories

import (
	"context"

	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
)

// ProfileRepository defines profile persistence operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *entities.Profile) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Profile, error)
	Update(ctx context.Context, profile *entities.Profile) error
}
