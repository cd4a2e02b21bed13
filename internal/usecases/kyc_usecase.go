package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	"kyc-desk.backend/internal/domain/repositories"
	"kyc-desk.backend/pkg/metrics"
)

// KYCUsecase handles disclosure submission and review business logic
type KYCUsecase struct {
	kycRepo     repositories.KYCRepository
	accountRepo repositories.AccountRepository
	metrics     *metrics.Metrics
}

// NewKYCUsecase creates a new KYC usecase
func NewKYCUsecase(
	kycRepo repositories.KYCRepository,
	accountRepo repositories.AccountRepository,
	m *metrics.Metrics,
) *KYCUsecase {
	return &KYCUsecase{
		kycRepo:     kycRepo,
		accountRepo: accountRepo,
		metrics:     m,
	}
}

// Create submits the first disclosure for an account. Only CLIENT accounts
// hold disclosures, and each account holds at most one.
func (u *KYCUsecase) Create(ctx context.Context, accountID uuid.UUID, input *entities.DisclosureInput) (*entities.KYCRecord, error) {
	account, err := u.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Role != entities.RoleClient {
		return nil, domainerrors.Forbidden("only client accounts can submit a disclosure")
	}

	if err := input.Validate(); err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}

	_, err = u.kycRepo.GetByAccountID(ctx, accountID)
	if err == nil {
		return nil, domainerrors.Conflict("a disclosure already exists for this account")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	record := &entities.KYCRecord{
		AccountID:            accountID,
		Incomes:              input.Incomes,
		Assets:               input.Assets,
		Liabilities:          input.Liabilities,
		WealthSources:        input.WealthSources,
		InvestmentExperience: input.InvestmentExperience,
		RiskTolerance:        input.RiskTolerance,
		NetWorth:             input.NetWorth(),
		Status:               entities.KYCStatusPending,
	}

	if err := u.kycRepo.Create(ctx, record); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("a disclosure already exists for this account")
		}
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.IncSubmissions()
	}
	return record, nil
}

// Update resubmits the disclosure on a record. Approved records are final;
// pending and rejected records return to the review queue with any previous
// decision cleared.
func (u *KYCUsecase) Update(ctx context.Context, recordID uuid.UUID, accountID uuid.UUID, input *entities.DisclosureInput) (*entities.KYCRecord, error) {
	record, err := u.kycRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.AccountID != accountID {
		return nil, domainerrors.Forbidden("disclosure belongs to another account")
	}

	if err := input.Validate(); err != nil {
		return nil, domainerrors.BadRequest(err.Error())
	}

	record.Incomes = input.Incomes
	record.Assets = input.Assets
	record.Liabilities = input.Liabilities
	record.WealthSources = input.WealthSources
	record.InvestmentExperience = input.InvestmentExperience
	record.RiskTolerance = input.RiskTolerance
	record.NetWorth = input.NetWorth()

	if err := u.kycRepo.UpdateDisclosure(ctx, record); err != nil {
		if errors.Is(err, domainerrors.ErrNotPending) {
			return nil, domainerrors.Forbidden("approved disclosures cannot be changed")
		}
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.IncSubmissions()
	}
	return u.kycRepo.GetByID(ctx, recordID)
}

// FindOne returns a record by id. Clients may only read their own record;
// officers may read any.
func (u *KYCUsecase) FindOne(ctx context.Context, recordID uuid.UUID, requesterID uuid.UUID, requesterRole entities.Role) (*entities.KYCRecord, error) {
	record, err := u.kycRepo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if requesterRole != entities.RoleOfficer && record.AccountID != requesterID {
		return nil, domainerrors.Forbidden("disclosure belongs to another account")
	}
	return record, nil
}

// FindOwn returns the requesting account's record
func (u *KYCUsecase) FindOwn(ctx context.Context, accountID uuid.UUID) (*entities.KYCRecord, error) {
	return u.kycRepo.GetByAccountID(ctx, accountID)
}

// FindPending lists records awaiting review, resubmissions first
func (u *KYCUsecase) FindPending(ctx context.Context) ([]*entities.KYCRecord, error) {
	return u.kycRepo.FindPending(ctx)
}

// FindReviewed lists decided records, most recent decision first
func (u *KYCUsecase) FindReviewed(ctx context.Context) ([]*entities.KYCRecord, error) {
	return u.kycRepo.FindReviewed(ctx)
}

// Approve marks a pending record APPROVED. Approval is terminal.
func (u *KYCUsecase) Approve(ctx context.Context, recordID uuid.UUID, officerID uuid.UUID) (*entities.KYCRecord, error) {
	return u.review(ctx, recordID, officerID, entities.KYCStatusApproved, "")
}

// Reject marks a pending record REJECTED with a mandatory reason
func (u *KYCUsecase) Reject(ctx context.Context, recordID uuid.UUID, officerID uuid.UUID, reason string) (*entities.KYCRecord, error) {
	return u.review(ctx, recordID, officerID, entities.KYCStatusRejected, reason)
}

func (u *KYCUsecase) review(ctx context.Context, recordID uuid.UUID, officerID uuid.UUID, status entities.KYCStatus, reason string) (*entities.KYCRecord, error) {
	err := u.kycRepo.MarkReviewed(ctx, recordID, status, officerID, reason)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotPending) {
			// Distinguish a missing record from one already decided.
			if _, getErr := u.kycRepo.GetByID(ctx, recordID); errors.Is(getErr, domainerrors.ErrNotFound) {
				return nil, getErr
			}
			return nil, domainerrors.Forbidden("disclosure has already been reviewed")
		}
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.IncReviews(string(status))
	}
	return u.kycRepo.GetByID(ctx, recordID)
}
