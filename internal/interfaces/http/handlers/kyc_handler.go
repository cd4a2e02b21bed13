package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	"kyc-desk.backend/internal/interfaces/http/middleware"
	"kyc-desk.backend/internal/interfaces/http/response"
	"kyc-desk.backend/internal/usecases"
)

// KYCHandler handles disclosure submission and review endpoints
type KYCHandler struct {
	kycUsecase *usecases.KYCUsecase
}

// NewKYCHandler creates a new KYC handler
func NewKYCHandler(kycUsecase *usecases.KYCUsecase) *KYCHandler {
	return &KYCHandler{
		kycUsecase: kycUsecase,
	}
}

// Create submits the caller's disclosure
// POST /api/v1/kyc
func (h *KYCHandler) Create(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authorization required"))
		return
	}

	var input entities.DisclosureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	record, err := h.kycUsecase.Create(c.Request.Context(), accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, record)
}

// FindPending lists records awaiting review
// GET /api/v1/kyc/pending
func (h *KYCHandler) FindPending(c *gin.Context) {
	records, err := h.kycUsecase.FindPending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, records)
}

// FindReviewed lists decided records
// GET /api/v1/kyc/reviewed
func (h *KYCHandler) FindReviewed(c *gin.Context) {
	records, err := h.kycUsecase.FindReviewed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, records)
}

// FindOwn returns the caller's record
// GET /api/v1/kyc/me
func (h *KYCHandler) FindOwn(c *gin.Context) {
	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authorization required"))
		return
	}

	record, err := h.kycUsecase.FindOwn(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}

// FindOne returns one record; clients may only read their own
// GET /api/v1/kyc/:id
func (h *KYCHandler) FindOne(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid record id"))
		return
	}

	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authorization required"))
		return
	}
	role, _ := middleware.GetRole(c)

	record, err := h.kycUsecase.FindOne(c.Request.Context(), recordID, accountID, role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}

// Update resubmits the caller's disclosure
// PATCH /api/v1/kyc/:id
func (h *KYCHandler) Update(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid record id"))
		return
	}

	accountID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authorization required"))
		return
	}

	var input entities.DisclosureInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	record, err := h.kycUsecase.Update(c.Request.Context(), recordID, accountID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}

// Approve marks a pending record APPROVED
// PATCH /api/v1/kyc/:id/approve
func (h *KYCHandler) Approve(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid record id"))
		return
	}

	officerID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authorization required"))
		return
	}

	record, err := h.kycUsecase.Approve(c.Request.Context(), recordID, officerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}

// Reject marks a pending record REJECTED with a reason
// PATCH /api/v1/kyc/:id/reject
func (h *KYCHandler) Reject(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("invalid record id"))
		return
	}

	officerID, ok := middleware.GetAccountID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("authorization required"))
		return
	}

	var input entities.RejectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	record, err := h.kycUsecase.Reject(c.Request.Context(), recordID, officerID, input.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, record)
}
