package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/application/service"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/response"
)

// SupplierHandler handles supplier and supplier ledger HTTP requests
type SupplierHandler struct {
	supplierService *service.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierService *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

type supplierRequest struct {
	Name              string   `json:"name" binding:"required"`
	ContactNumber     string   `json:"contact_number"`
	CompaniesSupplied []string `json:"companies_supplied"`
}

// Create handles adding a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	supplier, err := h.supplierService.AddSupplier(c.Request.Context(), &service.SupplierInput{
		Name:              req.Name,
		ContactNumber:     req.ContactNumber,
		CompaniesSupplied: req.CompaniesSupplied,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Supplier added successfully", supplier)
}

// List handles listing suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.supplierService.ListSuppliers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Suppliers retrieved successfully", suppliers)
}

// Get handles getting a single supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier retrieved successfully", supplier)
}

// Update handles updating a supplier
func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), id, &service.SupplierInput{
		Name:              req.Name,
		ContactNumber:     req.ContactNumber,
		CompaniesSupplied: req.CompaniesSupplied,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier updated successfully", supplier)
}

// Delete handles removing a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	if err := h.supplierService.DeleteSupplier(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier deleted successfully", nil)
}

// Ledger handles listing a supplier's ledger entries
func (h *SupplierHandler) Ledger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	entries, err := h.supplierService.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger retrieved successfully", entries)
}

// Balance handles getting a supplier's net payable balance
func (h *SupplierHandler) Balance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid supplier ID")
		return
	}

	balance, err := h.supplierService.NetBalance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance retrieved successfully", gin.H{"net_balance": balance})
}

// AddTransaction handles appending a purchase or payment entry
func (h *SupplierHandler) AddTransaction(c *gin.Context) {
	var req struct {
		SupplierID  uuid.UUID  `json:"supplier_id" binding:"required"`
		Type        string     `json:"type" binding:"required"`
		Amount      float64    `json:"amount" binding:"required"`
		Date        *time.Time `json:"date"`
		Description string     `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.SupplierEntryInput{
		SupplierID:  req.SupplierID,
		Type:        enum.SupplierEntryType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	entry, err := h.supplierService.AddEntry(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded successfully", entry)
}
