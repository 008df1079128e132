package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/application/service"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/response"
)

// CustomerHandler handles customer and customer ledger HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Create handles adding a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req struct {
		Name   string `json:"name" binding:"required"`
		Mobile string `json:"mobile"`
		Force  bool   `json:"force"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.AddCustomer(c.Request.Context(), &service.AddCustomerInput{
		Name:   req.Name,
		Mobile: req.Mobile,
		Force:  req.Force,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer added successfully", customer)
}

// List handles listing customers with their outstanding dues
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.customerService.ListCustomers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customers retrieved successfully", customers)
}

// Ledger handles the merged bill + manual entry history of one customer
func (h *CustomerHandler) Ledger(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	lines, err := h.customerService.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Ledger retrieved successfully", lines)
}

// Due handles getting a customer's total outstanding amount
func (h *CustomerHandler) Due(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	due, err := h.customerService.TotalDue(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Total due retrieved successfully", gin.H{"total_due": due})
}

// AddTransaction handles appending a manual credit or payment
func (h *CustomerHandler) AddTransaction(c *gin.Context) {
	var req struct {
		CustomerID  uuid.UUID  `json:"customer_id" binding:"required"`
		Type        string     `json:"type" binding:"required"`
		Amount      float64    `json:"amount" binding:"required"`
		Date        *time.Time `json:"date"`
		Description string     `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	input := &service.AddEntryInput{
		CustomerID:  req.CustomerID,
		Type:        enum.CustomerEntryType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.Date != nil {
		input.Date = *req.Date
	}

	entry, err := h.customerService.AddEntry(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Transaction recorded successfully", entry)
}
