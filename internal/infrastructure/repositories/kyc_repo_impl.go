package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	"kyc-desk.backend/internal/infrastructure/models"
)

// KYCRepository implements KYC record persistence on GORM
type KYCRepository struct {
	db *gorm.DB
}

// NewKYCRepository creates a new KYC repository
func NewKYCRepository(db *gorm.DB) *KYCRepository {
	return &KYCRepository{db: db}
}

// Create inserts a new KYC record. A second record for the same account
// trips the unique constraint and surfaces as ErrAlreadyExists.
func (r *KYCRepository) Create(ctx context.Context, record *entities.KYCRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m, err := kycToModel(record)
	if err != nil {
		return err
	}

	if err := GetDB(ctx, r.db).WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	record.CreatedAt = m.CreatedAt
	record.UpdatedAt = m.UpdatedAt
	return nil
}

// GetByID loads a record with its owning account joined
func (r *KYCRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.KYCRecord, error) {
	var m models.KYCRecord
	err := GetDB(ctx, r.db).WithContext(ctx).
		Preload("Account").
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return kycWithAccountToEntity(&m)
}

// GetByAccountID gets the record owned by an account
func (r *KYCRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.KYCRecord, error) {
	var m models.KYCRecord
	err := GetDB(ctx, r.db).WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return kycToEntity(&m)
}

// FindPending returns the officer review queue: never-reviewed records
// first, then by review time descending, then by owning account creation
// ascending. The explicit IS NULL sort key keeps the order identical on
// postgres and sqlite.
func (r *KYCRepository) FindPending(ctx context.Context) ([]*entities.KYCRecord, error) {
	var kycModels []models.KYCRecord
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.KYCRecord{}).
		Joins("JOIN accounts ON accounts.id = kyc_records.account_id").
		Where("kyc_records.status = ?", string(entities.KYCStatusPending)).
		Order("kyc_records.reviewed_at IS NULL DESC").
		Order("kyc_records.reviewed_at DESC").
		Order("accounts.created_at ASC").
		Select("kyc_records.*").
		Preload("Account").
		Find(&kycModels).Error
	if err != nil {
		return nil, err
	}
	return kycSliceToEntities(kycModels)
}

// FindReviewed returns APPROVED and REJECTED records by review time
// descending
func (r *KYCRepository) FindReviewed(ctx context.Context) ([]*entities.KYCRecord, error) {
	var kycModels []models.KYCRecord
	err := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.KYCRecord{}).
		Where("status IN ?", []string{
			string(entities.KYCStatusApproved),
			string(entities.KYCStatusRejected),
		}).
		Order("reviewed_at DESC").
		Preload("Account").
		Find(&kycModels).Error
	if err != nil {
		return nil, err
	}
	return kycSliceToEntities(kycModels)
}

// UpdateDisclosure overwrites the disclosure fields, resets status to
// PENDING and clears all review metadata including any stale reject reason.
// The write is conditional on the record not being APPROVED, so a
// concurrent approval cannot be silently overwritten.
func (r *KYCRepository) UpdateDisclosure(ctx context.Context, record *entities.KYCRecord) error {
	m, err := kycToModel(record)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"incomes":               m.Incomes,
		"assets":                m.Assets,
		"liabilities":           m.Liabilities,
		"wealth_sources":        m.WealthSources,
		"investment_experience": m.InvestmentExperience,
		"risk_tolerance":        m.RiskTolerance,
		"net_worth":             m.NetWorth,
		"status":                string(entities.KYCStatusPending),
		"reviewed_at":           nil,
		"reviewed_by":           nil,
		"reject_reason":         nil,
		"updated_at":            time.Now(),
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.KYCRecord{}).
		Where("id = ? AND status <> ?", record.ID, string(entities.KYCStatusApproved)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotPending
	}
	return nil
}

// MarkReviewed transitions a PENDING record to the given decision. The
// UPDATE is conditional on status still being PENDING, so of two concurrent
// reviewers at most one wins; the loser gets ErrNotPending.
func (r *KYCRepository) MarkReviewed(ctx context.Context, id uuid.UUID, status entities.KYCStatus, reviewedBy uuid.UUID, rejectReason string) error {
	updates := map[string]interface{}{
		"status":        string(status),
		"reviewed_at":   time.Now(),
		"reviewed_by":   reviewedBy,
		"reject_reason": nil,
		"updated_at":    time.Now(),
	}
	if status == entities.KYCStatusRejected {
		updates["reject_reason"] = rejectReason
	}

	result := GetDB(ctx, r.db).WithContext(ctx).
		Model(&models.KYCRecord{}).
		Where("id = ? AND status = ?", id, string(entities.KYCStatusPending)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotPending
	}
	return nil
}

func kycToModel(record *entities.KYCRecord) (*models.KYCRecord, error) {
	incomes, err := json.Marshal(record.Incomes)
	if err != nil {
		return nil, err
	}
	assets, err := json.Marshal(record.Assets)
	if err != nil {
		return nil, err
	}
	liabilities, err := json.Marshal(record.Liabilities)
	if err != nil {
		return nil, err
	}
	wealthSources, err := json.Marshal(record.WealthSources)
	if err != nil {
		return nil, err
	}

	m := &models.KYCRecord{
		ID:                   record.ID,
		AccountID:            record.AccountID,
		Incomes:              string(incomes),
		Assets:               string(assets),
		Liabilities:          string(liabilities),
		WealthSources:        string(wealthSources),
		InvestmentExperience: string(record.InvestmentExperience),
		RiskTolerance:        string(record.RiskTolerance),
		NetWorth:             record.NetWorth.StringFixed(2),
		Status:               string(record.Status),
		ReviewedBy:           record.ReviewedBy,
	}
	if record.ReviewedAt.Valid {
		t := record.ReviewedAt.Time
		m.ReviewedAt = &t
	}
	if record.RejectReason.Valid {
		s := record.RejectReason.String
		m.RejectReason = &s
	}
	return m, nil
}

func kycToEntity(m *models.KYCRecord) (*entities.KYCRecord, error) {
	record := &entities.KYCRecord{
		ID:                   m.ID,
		AccountID:            m.AccountID,
		InvestmentExperience: entities.InvestmentExperience(m.InvestmentExperience),
		RiskTolerance:        entities.RiskTolerance(m.RiskTolerance),
		Status:               entities.KYCStatus(m.Status),
		ReviewedAt:           null.TimeFromPtr(m.ReviewedAt),
		ReviewedBy:           m.ReviewedBy,
		RejectReason:         null.StringFromPtr(m.RejectReason),
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}

	if err := json.Unmarshal([]byte(m.Incomes), &record.Incomes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(m.Assets), &record.Assets); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(m.Liabilities), &record.Liabilities); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(m.WealthSources), &record.WealthSources); err != nil {
		return nil, err
	}

	netWorth, err := decimal.NewFromString(m.NetWorth)
	if err != nil {
		return nil, err
	}
	record.NetWorth = netWorth

	return record, nil
}

func kycWithAccountToEntity(m *models.KYCRecord) (*entities.KYCRecord, error) {
	record, err := kycToEntity(m)
	if err != nil {
		return nil, err
	}
	if m.Account != nil {
		record.Account = accountToEntity(m.Account)
	}
	return record, nil
}

func kycSliceToEntities(kycModels []models.KYCRecord) ([]*entities.KYCRecord, error) {
	records := make([]*entities.KYCRecord, 0, len(kycModels))
	for i := range kycModels {
		record, err := kycWithAccountToEntity(&kycModels[i])
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
