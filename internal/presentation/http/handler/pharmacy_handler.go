package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/application/service"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/response"
)

// PharmacyHandler handles super-admin pharmacy administration requests
type PharmacyHandler struct {
	pharmacyService *service.PharmacyService
}

// NewPharmacyHandler creates a new pharmacy handler
func NewPharmacyHandler(pharmacyService *service.PharmacyService) *PharmacyHandler {
	return &PharmacyHandler{pharmacyService: pharmacyService}
}

// List handles listing pharmacies, optionally filtered by status
func (h *PharmacyHandler) List(c *gin.Context) {
	var status *enum.PharmacyStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := enum.PharmacyStatus(statusStr)
		status = &s
	}

	pharmacies, err := h.pharmacyService.ListPharmacies(c.Request.Context(), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pharmacies retrieved successfully", pharmacies)
}

// UpdateStatus handles approving or rejecting a pharmacy
func (h *PharmacyHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid pharmacy ID")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	pharmacy, err := h.pharmacyService.UpdateStatus(c.Request.Context(), id, enum.PharmacyStatus(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Pharmacy status updated successfully", pharmacy)
}
