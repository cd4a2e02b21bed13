package usecases

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	"kyc-desk.backend/internal/domain/repositories"
	"kyc-desk.backend/pkg/crypto"
	"kyc-desk.backend/pkg/utils"
)

// UserListInput carries listing, filter and sort parameters
type UserListInput struct {
	Search    string
	Role      entities.Role
	KYCStatus entities.KYCStatus
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// UserUsecase handles account directory business logic
type UserUsecase struct {
	accountRepo repositories.AccountRepository
	profileRepo repositories.ProfileRepository
	uow         repositories.UnitOfWork
}

// NewUserUsecase creates a new user usecase
func NewUserUsecase(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	uow repositories.UnitOfWork,
) *UserUsecase {
	return &UserUsecase{
		accountRepo: accountRepo,
		profileRepo: profileRepo,
		uow:         uow,
	}
}

// CreateUser is the self-service signup: a CLIENT account with a minimal
// profile the holder completes later.
func (u *UserUsecase) CreateUser(ctx context.Context, input *entities.CreateUserInput) (*entities.Account, error) {
	_, err := u.accountRepo.GetByUsername(ctx, input.Username)
	if err == nil {
		return nil, domainerrors.Conflict("username already taken")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	account := &entities.Account{
		Username:     input.Username,
		PasswordHash: passwordHash,
		Role:         entities.RoleClient,
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.accountRepo.Create(txCtx, account); err != nil {
			return err
		}
		profile := &entities.Profile{
			AccountID: account.ID,
			FullName:  input.FullName,
			Email:     input.Email,
			Phone:     input.Phone,
		}
		return u.profileRepo.Create(txCtx, profile)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username or email already taken")
		}
		return nil, err
	}

	return account, nil
}

// FindAll returns a page of accounts with profile and KYC state joined
func (u *UserUsecase) FindAll(ctx context.Context, input *UserListInput) ([]*entities.Account, utils.PaginationMeta, error) {
	params := utils.GetPaginationParams(input.Page, input.Limit)

	accounts, total, err := u.accountRepo.List(ctx, repositories.AccountListFilter{
		Search:    input.Search,
		Role:      input.Role,
		KYCStatus: input.KYCStatus,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Offset:    params.CalculateOffset(),
		Limit:     params.Limit,
	})
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}

	return accounts, utils.CalculateMeta(total, params.Page, params.Limit), nil
}

// FindOne returns an account with its profile and KYC record
func (u *UserUsecase) FindOne(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	return u.accountRepo.GetDetailed(ctx, id)
}

// FindProfile returns the profile attached to an account
func (u *UserUsecase) FindProfile(ctx context.Context, accountID uuid.UUID) (*entities.Profile, error) {
	return u.profileRepo.GetByAccountID(ctx, accountID)
}

// UpdateProfile merges a partial update onto the account's profile
func (u *UserUsecase) UpdateProfile(ctx context.Context, accountID uuid.UUID, input *entities.UpdateProfileInput) (*entities.Profile, error) {
	profile, err := u.profileRepo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if err := input.ApplyTo(profile); err != nil {
		return nil, domainerrors.BadRequest("invalid date of birth")
	}

	if err := u.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("email already taken")
		}
		return nil, err
	}
	return profile, nil
}
