package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	domainRepos "kyc-desk.backend/internal/domain/repositories"
	"kyc-desk.backend/internal/infrastructure/models"
)

// sortColumns is the allow-list of sortable account columns
var sortColumns = map[string]string{
	"createdAt": "accounts.created_at",
	"updatedAt": "accounts.updated_at",
	"username":  "accounts.username",
	"role":      "accounts.role",
}

// AccountRepository implements account persistence on GORM
type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts a new account. A username collision surfaces as
// ErrAlreadyExists, including the race where the unique constraint fires.
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	m := &models.Account{
		ID:           account.ID,
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		Role:         string(account.Role),
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	account.CreatedAt = m.CreatedAt
	account.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID gets an account by id
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return accountToEntity(&m), nil
}

// GetByUsername gets an account by username
func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*entities.Account, error) {
	var m models.Account
	if err := GetDB(ctx, r.db).WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return accountToEntity(&m), nil
}

// GetDetailed loads an account with profile and KYC record joined
func (r *AccountRepository) GetDetailed(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	var m models.Account
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Profile").
		Preload("KYC").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}

	account := accountToEntity(&m)
	if m.Profile != nil {
		account.Profile = profileToEntity(m.Profile)
	}
	if m.KYC != nil {
		kyc, err := kycToEntity(m.KYC)
		if err != nil {
			return nil, err
		}
		account.KYC = kyc
	}
	return account, nil
}

// List returns a page of accounts with profile and KYC joined, plus the
// unpaginated total count
func (r *AccountRepository) List(ctx context.Context, filter domainRepos.AccountListFilter) ([]*entities.Account, int64, error) {
	query := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Account{}).
		Joins("LEFT JOIN profiles ON profiles.account_id = accounts.id").
		Joins("LEFT JOIN kyc_records ON kyc_records.account_id = accounts.id")

	if filter.Search != "" {
		// LOWER(...) LIKE keeps the substring match case-insensitive on
		// both postgres and sqlite.
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(accounts.username) LIKE LOWER(?) OR LOWER(profiles.full_name) LIKE LOWER(?)",
			pattern, pattern,
		)
	}
	if filter.Role != "" {
		query = query.Where("accounts.role = ?", string(filter.Role))
	}
	if filter.KYCStatus != "" {
		query = query.Where("kyc_records.status = ?", string(filter.KYCStatus))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = sortColumns["createdAt"]
	}
	direction := "DESC"
	if filter.SortOrder == "ASC" || filter.SortOrder == "asc" {
		direction = "ASC"
	}

	var accountModels []models.Account
	err := query.
		Select("accounts.*").
		Order(column + " " + direction).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Preload("Profile").
		Preload("KYC").
		Find(&accountModels).Error
	if err != nil {
		return nil, 0, err
	}

	accounts := make([]*entities.Account, 0, len(accountModels))
	for i := range accountModels {
		m := &accountModels[i]
		account := accountToEntity(m)
		if m.Profile != nil {
			account.Profile = profileToEntity(m.Profile)
		}
		if m.KYC != nil {
			kyc, err := kycToEntity(m.KYC)
			if err != nil {
				return nil, 0, err
			}
			account.KYC = kyc
		}
		accounts = append(accounts, account)
	}
	return accounts, total, nil
}

// SetRefreshTokenHash overwrites the stored refresh-token digest. An empty
// hash stores NULL, which revokes refresh for the account.
func (r *AccountRepository) SetRefreshTokenHash(ctx context.Context, id uuid.UUID, hash string) error {
	updates := map[string]interface{}{
		"refresh_token_hash": nil,
		"updated_at":         time.Now(),
	}
	if hash != "" {
		updates["refresh_token_hash"] = hash
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// RotateRefreshTokenHash swaps the stored digest with a condition on the
// digest the token was validated against. Zero rows affected means a
// concurrent rotation or a logout got there first; the caller must treat the
// presented token as spent.
func (r *AccountRepository) RotateRefreshTokenHash(ctx context.Context, id uuid.UUID, oldHash, newHash string) error {
	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ? AND refresh_token_hash = ?", id, oldHash).
		Updates(map[string]interface{}{
			"refresh_token_hash": newHash,
			"updated_at":         time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUnauthorized
	}
	return nil
}

func accountToEntity(m *models.Account) *entities.Account {
	return &entities.Account{
		ID:               m.ID,
		Username:         m.Username,
		PasswordHash:     m.PasswordHash,
		Role:             entities.Role(m.Role),
		RefreshTokenHash: null.StringFromPtr(m.RefreshTokenHash),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
