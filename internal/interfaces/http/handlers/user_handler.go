package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	"kyc-desk.backend/internal/interfaces/http/middleware"
	"kyc-desk.backend/internal/interfaces/http/response"
	"kyc-desk.backend/internal/usecases"
)

// UserHandler handles account directory and profile endpoints
type UserHandler struct {
	userUsecase *usecases.UserUsecase
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUsecase *usecases.UserUsecase) *UserHandler {
	return &UserHandler{
		userUsecase: userUsecase,
	}
}

// Create is the self-service signup: a client account plus a minimal profile
// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var input entities.CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	account, err := h.userUsecase.CreateUser(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, account.Public())
}

// FindAll lists accounts with profile and KYC state
// GET /api/v1/users
func (h *UserHandler) FindAll(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	accounts, meta, err := h.userUsecase.FindAll(c.Request.Context(), &usecases.UserListInput{
		Search:    c.Query("search"),
		Role:      entities.Role(c.Query("role")),
		KYCStatus: entities.KYCStatus(c.Query("kycStatus")),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"data":       accounts,
		"pagination": meta,
	})
}

// FindMe returns the caller's account with profile and KYC record
// GET /api/v1/users/me
func (h *UserHandler) FindMe(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authorization required"))
		return
	}

	account, err := h.userUsecase.FindOne(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, account)
}

// FindOne returns one account with profile and KYC record
// GET /api/v1/users/:id
func (h *UserHandler) FindOne(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid account id"))
		return
	}

	account, err := h.userUsecase.FindOne(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, account)
}

// FindProfile returns one profile. Clients can only read their own; officers
// can read any.
// GET /api/v1/users/:id/profile
func (h *UserHandler) FindProfile(c *gin.Context) {
	accountID, err := h.resolveProfileOwner(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	profile, err := h.userUsecase.FindProfile(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateProfile merges a partial update onto a profile, with the same
// self-or-officer rule as FindProfile
// PATCH /api/v1/users/:id/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	accountID, err := h.resolveProfileOwner(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var input entities.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	profile, err := h.userUsecase.UpdateProfile(c.Request.Context(), accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// resolveProfileOwner parses the :id param and enforces the self-or-officer
// access rule for profile routes.
func (h *UserHandler) resolveProfileOwner(c *gin.Context) (uuid.UUID, error) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.BadRequest("invalid account id")
	}

	callerID, ok := middleware.GetAccountID(c)
	if !ok {
		return uuid.Nil, domainerrors.Unauthorized("authorization required")
	}
	role, _ := middleware.GetRole(c)
	if callerID != accountID && role != entities.RoleOfficer {
		return uuid.Nil, domainerrors.Forbidden("access to this profile is not allowed")
	}
	return accountID, nil
}
