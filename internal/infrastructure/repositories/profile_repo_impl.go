package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	"kyc-desk.backend/internal/infrastructure/models"
)

// ProfileRepository implements profile persistence on GORM
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Create inserts a new profile. A duplicate email surfaces as
// ErrAlreadyExists.
func (r *ProfileRepository) Create(ctx context.Context, profile *entities.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	m := profileToModel(profile)

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	profile.CreatedAt = m.CreatedAt
	profile.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByAccountID gets the profile owned by an account
func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Profile, error) {
	var m models.Profile
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return profileToEntity(&m), nil
}

// Update persists the mutable profile fields
func (r *ProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	updates := map[string]interface{}{
		"full_name":     profile.FullName,
		"email":         profile.Email,
		"phone":         profile.Phone,
		"date_of_birth": profile.DateOfBirth,
		"address":       profile.Address,
		"city":          profile.City,
		"country":       profile.Country,
		"nationality":   profile.Nationality,
		"occupation":    profile.Occupation,
		"updated_at":    time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profile.ID).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func profileToModel(p *entities.Profile) *models.Profile {
	return &models.Profile{
		ID:          p.ID,
		AccountID:   p.AccountID,
		FullName:    p.FullName,
		Email:       p.Email,
		Phone:       p.Phone,
		DateOfBirth: p.DateOfBirth,
		Address:     p.Address,
		City:        p.City,
		Country:     p.Country,
		Nationality: p.Nationality,
		Occupation:  p.Occupation,
	}
}

func profileToEntity(m *models.Profile) *entities.Profile {
	return &entities.Profile{
		ID:          m.ID,
		AccountID:   m.AccountID,
		FullName:    m.FullName,
		Email:       m.Email,
		Phone:       m.Phone,
		DateOfBirth: m.DateOfBirth,
		Address:     m.Address,
		City:        m.City,
		Country:     m.Country,
		Nationality: m.Nationality,
		Occupation:  m.Occupation,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
