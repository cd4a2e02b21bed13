package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	domainRepos "kyc-desk.backend/internal/domain/repositories"
)

func seedAccount(t *testing.T, repo *AccountRepository, username string, role entities.Role) *entities.Account {
	t.Helper()
	account := &entities.Account{
		Username:     username,
		PasswordHash: "hash",
		Role:         role,
	}
	require.NoError(t, repo.Create(context.Background(), account))
	return account
}

func TestAccountRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := seedAccount(t, repo, "clientone1", entities.RoleClient)
	assert.NotEqual(t, uuid.Nil, account.ID)

	byID, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "clientone1", byID.Username)
	assert.Equal(t, entities.RoleClient, byID.Role)
	assert.False(t, byID.RefreshTokenHash.Valid)

	byName, err := repo.GetByUsername(ctx, "clientone1")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byName.ID)
}

func TestAccountRepository_Create_DuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)

	seedAccount(t, repo, "clientone1", entities.RoleClient)

	err := repo.Create(context.Background(), &entities.Account{
		Username:     "clientone1",
		PasswordHash: "other",
		Role:         entities.RoleClient,
	})
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
}

func TestAccountRepository_Get_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = repo.GetDetailed(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestAccountRepository_SetRefreshTokenHash(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := seedAccount(t, repo, "clientone1", entities.RoleClient)

	require.NoError(t, repo.SetRefreshTokenHash(ctx, account.ID, "digest-1"))
	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "digest-1", got.RefreshTokenHash.String)

	// Empty hash clears the column.
	require.NoError(t, repo.SetRefreshTokenHash(ctx, account.ID, ""))
	got, err = repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, got.RefreshTokenHash.Valid)

	assert.ErrorIs(t, repo.SetRefreshTokenHash(ctx, uuid.New(), "x"), domainerrors.ErrNotFound)
}

func TestAccountRepository_RotateRefreshTokenHash(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	account := seedAccount(t, repo, "clientone1", entities.RoleClient)
	require.NoError(t, repo.SetRefreshTokenHash(ctx, account.ID, "digest-1"))

	require.NoError(t, repo.RotateRefreshTokenHash(ctx, account.ID, "digest-1", "digest-2"))
	got, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "digest-2", got.RefreshTokenHash.String)

	// A second presentation of the token behind digest-1 lost the swap and
	// must not overwrite the winner's digest.
	err = repo.RotateRefreshTokenHash(ctx, account.ID, "digest-1", "digest-3")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	got, err = repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, "digest-2", got.RefreshTokenHash.String)

	// Logout clears the digest; no rotation can match afterwards.
	require.NoError(t, repo.SetRefreshTokenHash(ctx, account.ID, ""))
	err = repo.RotateRefreshTokenHash(ctx, account.ID, "digest-2", "digest-4")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAccountRepository_GetDetailed(t *testing.T) {
	db := newTestDB(t)
	accountRepo := NewAccountRepository(db)
	profileRepo := NewProfileRepository(db)
	kycRepo := NewKYCRepository(db)
	ctx := context.Background()

	account := seedAccount(t, accountRepo, "clientone1", entities.RoleClient)
	require.NoError(t, profileRepo.Create(ctx, &entities.Profile{
		AccountID: account.ID,
		FullName:  "Client One",
		Email:     "clientone@example.com",
		Phone:     "0812345678",
	}))
	require.NoError(t, kycRepo.Create(ctx, newPendingRecord(account.ID)))

	got, err := accountRepo.GetDetailed(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Client One", got.Profile.FullName)
	require.NotNil(t, got.KYC)
	assert.Equal(t, entities.KYCStatusPending, got.KYC.Status)

	// Accounts without a KYC record read back with a nil KYC.
	bare := seedAccount(t, accountRepo, "clienttwo2", entities.RoleClient)
	got, err = accountRepo.GetDetailed(ctx, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, got.KYC)
}

func TestAccountRepository_List_SearchAndFilters(t *testing.T) {
	db := newTestDB(t)
	accountRepo := NewAccountRepository(db)
	profileRepo := NewProfileRepository(db)
	kycRepo := NewKYCRepository(db)
	ctx := context.Background()

	alice := seedAccount(t, accountRepo, "aliceuser1", entities.RoleClient)
	require.NoError(t, profileRepo.Create(ctx, &entities.Profile{
		AccountID: alice.ID, FullName: "Alice P", Email: "alice@example.com",
	}))
	record := newPendingRecord(alice.ID)
	require.NoError(t, kycRepo.Create(ctx, record))

	bob := seedAccount(t, accountRepo, "bobuser123", entities.RoleClient)
	require.NoError(t, profileRepo.Create(ctx, &entities.Profile{
		AccountID: bob.ID, FullName: "Bob Q", Email: "bob@example.com",
	}))

	seedAccount(t, accountRepo, "officerone", entities.RoleOfficer)

	// Substring search is case-insensitive (documented choice).
	accounts, total, err := accountRepo.List(ctx, domainRepos.AccountListFilter{
		Search: "ALICE", Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, accounts, 1)
	assert.Equal(t, "aliceuser1", accounts[0].Username)
	require.NotNil(t, accounts[0].Profile)
	require.NotNil(t, accounts[0].KYC)

	// Search also matches the profile full name.
	_, total, err = accountRepo.List(ctx, domainRepos.AccountListFilter{
		Search: "bob q", Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// Role filter.
	_, total, err = accountRepo.List(ctx, domainRepos.AccountListFilter{
		Role: entities.RoleOfficer, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// KYC status filter only matches accounts holding a record.
	_, total, err = accountRepo.List(ctx, domainRepos.AccountListFilter{
		KYCStatus: entities.KYCStatusPending, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAccountRepository_List_PaginationAndSort(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	for _, name := range []string{"useraaa1", "userbbb2", "userccc3"} {
		seedAccount(t, repo, name, entities.RoleClient)
		time.Sleep(5 * time.Millisecond)
	}

	accounts, total, err := repo.List(ctx, domainRepos.AccountListFilter{
		SortBy: "username", SortOrder: "ASC", Limit: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, accounts, 2)
	assert.Equal(t, "useraaa1", accounts[0].Username)
	assert.Equal(t, "userbbb2", accounts[1].Username)

	accounts, _, err = repo.List(ctx, domainRepos.AccountListFilter{
		SortBy: "username", SortOrder: "ASC", Limit: 2, Offset: 2,
	})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "userccc3", accounts[0].Username)

	// Unknown sort column falls back to created_at instead of injecting.
	_, _, err = repo.List(ctx, domainRepos.AccountListFilter{
		SortBy: "password_hash; DROP TABLE accounts", Limit: 10,
	})
	require.NoError(t, err)
}
