package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	"kyc-desk.backend/internal/domain/repositories"
	"kyc-desk.backend/pkg/crypto"
	"kyc-desk.backend/pkg/jwt"
	"kyc-desk.backend/pkg/metrics"
	"kyc-desk.backend/pkg/redis"
)

// SessionStore mirrors token pairs server-side for session-based clients
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID string, data *redis.SessionData, expiration time.Duration) error
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// AuthUsecase handles authentication business logic
type AuthUsecase struct {
	accountRepo   repositories.AccountRepository
	profileRepo   repositories.ProfileRepository
	uow           repositories.UnitOfWork
	jwtService    *jwt.JWTService
	sessionStore  SessionStore
	metrics       *metrics.Metrics
	refreshExpiry time.Duration
}

// NewAuthUsecase creates a new auth usecase. sessionStore and m may be nil
// when sessions or metrics are not wired.
func NewAuthUsecase(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	uow repositories.UnitOfWork,
	jwtService *jwt.JWTService,
	sessionStore SessionStore,
	m *metrics.Metrics,
	refreshExpiry time.Duration,
) *AuthUsecase {
	return &AuthUsecase{
		accountRepo:   accountRepo,
		profileRepo:   profileRepo,
		uow:           uow,
		jwtService:    jwtService,
		sessionStore:  sessionStore,
		metrics:       m,
		refreshExpiry: refreshExpiry,
	}
}

// Register creates a CLIENT account with its profile and logs it in. The
// account and profile are written in one transaction so a duplicate email
// cannot leave an orphaned account behind.
func (u *AuthUsecase) Register(ctx context.Context, input *entities.RegisterInput) (*entities.AuthResponse, error) {
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

	dob, err := time.Parse("2006-01-02", input.DateOfBirth)
	if err != nil {
		return nil, domainerrors.BadRequest("invalid date of birth")
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
			AccountID:   account.ID,
			FullName:    input.FullName,
			Email:       input.Email,
			Phone:       input.Phone,
			DateOfBirth: dob,
			Address:     input.Address,
			City:        input.City,
			Country:     input.Country,
			Nationality: input.Nationality,
			Occupation:  input.Occupation,
		}
		return u.profileRepo.Create(txCtx, profile)
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrAlreadyExists) {
			return nil, domainerrors.Conflict("username or email already taken")
		}
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.IncRegistrations()
	}

	return u.issueTokens(ctx, account, false)
}

// Login authenticates an account and returns a fresh token pair. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, input *entities.LoginInput) (*entities.AuthResponse, error) {
	account, err := u.accountRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !crypto.CheckPassword(input.Password, account.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials
	}

	return u.issueTokens(ctx, account, input.UseSession)
}

// RefreshTokens rotates a refresh token. The presented token must match the
// digest stored at last issue, so a token that was already rotated (or
// cleared by logout) is rejected even though its signature is still valid.
// The overwrite is conditional on that same digest, so two concurrent
// presentations of one token cannot both rotate.
func (u *AuthUsecase) RefreshTokens(ctx context.Context, refreshToken string) (*entities.AuthResponse, error) {
	claims, err := u.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	account, err := u.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrUnauthorized
		}
		return nil, err
	}

	if !account.RefreshTokenHash.Valid || !crypto.CheckTokenHash(refreshToken, account.RefreshTokenHash.String) {
		return nil, domainerrors.ErrUnauthorized
	}

	tokenPair, err := u.jwtService.GenerateTokenPair(account.ID, account.Username, string(account.Role))
	if err != nil {
		return nil, err
	}

	err = u.accountRepo.RotateRefreshTokenHash(ctx, account.ID, account.RefreshTokenHash.String, crypto.HashToken(tokenPair.RefreshToken))
	if err != nil {
		return nil, err
	}

	return buildAuthResponse(account, tokenPair), nil
}

// RefreshSession rotates the token pair held by a server-side session and
// writes the new pair back under the same session id
func (u *AuthUsecase) RefreshSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	if u.sessionStore == nil {
		return nil, domainerrors.ErrUnauthorized
	}

	data, err := u.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}

	resp, err := u.RefreshTokens(ctx, data.RefreshToken)
	if err != nil {
		return nil, err
	}

	rotated := &redis.SessionData{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if err := u.sessionStore.CreateSession(ctx, sessionID, rotated, u.refreshExpiry); err != nil {
		return nil, err
	}
	return rotated, nil
}

// GetSession returns the token pair held by a server-side session
func (u *AuthUsecase) GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error) {
	if u.sessionStore == nil {
		return nil, domainerrors.ErrUnauthorized
	}
	data, err := u.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized
	}
	return data, nil
}

// Logout invalidates the account's refresh token and drops its session
func (u *AuthUsecase) Logout(ctx context.Context, accountID uuid.UUID, sessionID string) error {
	if err := u.accountRepo.SetRefreshTokenHash(ctx, accountID, ""); err != nil {
		return err
	}
	if sessionID != "" && u.sessionStore != nil {
		if err := u.sessionStore.DeleteSession(ctx, sessionID); err != nil {
			return err
		}
	}
	return nil
}

func (u *AuthUsecase) issueTokens(ctx context.Context, account *entities.Account, useSession bool) (*entities.AuthResponse, error) {
	tokenPair, err := u.jwtService.GenerateTokenPair(account.ID, account.Username, string(account.Role))
	if err != nil {
		return nil, err
	}

	if err := u.accountRepo.SetRefreshTokenHash(ctx, account.ID, crypto.HashToken(tokenPair.RefreshToken)); err != nil {
		return nil, err
	}

	resp := buildAuthResponse(account, tokenPair)

	if useSession && u.sessionStore != nil {
		sessionID, err := crypto.GenerateSessionID()
		if err != nil {
			return nil, err
		}
		data := &redis.SessionData{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
		}
		if err := u.sessionStore.CreateSession(ctx, sessionID, data, u.refreshExpiry); err != nil {
			return nil, err
		}
		resp.SessionID = sessionID
	}

	return resp, nil
}

func buildAuthResponse(account *entities.Account, tokenPair *jwt.TokenPair) *entities.AuthResponse {
	public := account.Public()
	return &entities.AuthResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		Account:      &public,
	}
}
