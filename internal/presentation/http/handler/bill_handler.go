package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/application/service"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/rxledger/pharmacy-api/pkg/pagination"
)

// BillHandler handles billing HTTP requests
type BillHandler struct {
	billingService *service.BillingService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(billingService *service.BillingService) *BillHandler {
	return &BillHandler{billingService: billingService}
}

// Create handles creating a bill
func (h *BillHandler) Create(c *gin.Context) {
	var req struct {
		CustomerName   string   `json:"customer_name" binding:"required"`
		CustomerMobile string   `json:"customer_mobile"`
		Discount       float64  `json:"discount"`
		Paid           *float64 `json:"paid"`
		Items          []struct {
			MedicineLotID uuid.UUID `json:"medicine_lot_id" binding:"required"`
			Quantity      int       `json:"quantity" binding:"required,gt=0"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.BillItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.BillItemInput{
			MedicineLotID: item.MedicineLotID,
			Quantity:      item.Quantity,
		}
	}

	bill, err := h.billingService.CreateBill(c.Request.Context(), &service.CreateBillInput{
		CustomerName:   req.CustomerName,
		CustomerMobile: req.CustomerMobile,
		Discount:       req.Discount,
		Paid:           req.Paid,
		Items:          items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Bill created successfully", bill)
}

// List handles listing bills with optional date range
func (h *BillHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	startDate, endDate, err := service.DateRangeFromQuery(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		response.Error(c, err)
		return
	}

	params := &repository.BillFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		StartDate: startDate,
		EndDate:   endDate,
	}

	result, err := h.billingService.ListBills(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bills retrieved successfully", result)
}

// Get handles getting a single bill with its items
func (h *BillHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	bill, err := h.billingService.GetBill(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill retrieved successfully", bill)
}

// ListByCustomer handles listing one customer's bills by mobile
func (h *BillHandler) ListByCustomer(c *gin.Context) {
	mobile := c.Param("mobile")

	bills, err := h.billingService.ListBillsByCustomerMobile(c.Request.Context(), mobile)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bills retrieved successfully", bills)
}

// Settle handles recording a payment against a bill
func (h *BillHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	var req struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	bill, err := h.billingService.SettleBill(c.Request.Context(), id, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", bill)
}

// Delete handles deleting a bill and restoring its stock
func (h *BillHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid bill ID")
		return
	}

	if err := h.billingService.DeleteBill(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Bill deleted successfully", nil)
}
