package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/application/service"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/response"
)

// ReturnHandler handles stock return HTTP requests
type ReturnHandler struct {
	returnService *service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// Create handles returning stock to a supplier
func (h *ReturnHandler) Create(c *gin.Context) {
	var req struct {
		MedicineLotID uuid.UUID `json:"medicine_lot_id" binding:"required"`
		Quantity      int       `json:"quantity" binding:"required,gt=0"`
		Reason        string    `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	record, err := h.returnService.ReturnToSupplier(c.Request.Context(), &service.ReturnInput{
		MedicineLotID: req.MedicineLotID,
		Quantity:      req.Quantity,
		Reason:        req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Return recorded successfully", record)
}

// List handles listing return records
func (h *ReturnHandler) List(c *gin.Context) {
	records, err := h.returnService.ListReturns(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Returns retrieved successfully", records)
}
