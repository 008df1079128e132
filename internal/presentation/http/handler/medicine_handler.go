package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/application/service"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/request"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/response"
	"github.com/rxledger/pharmacy-api/pkg/pagination"
)

// MedicineHandler handles inventory HTTP requests
type MedicineHandler struct {
	medicineService *service.MedicineService
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(medicineService *service.MedicineService) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService}
}

func medicineInputFromRequest(req *request.MedicineRequest) *service.MedicineInput {
	return &service.MedicineInput{
		Name:          req.Name,
		BatchNumber:   req.BatchNumber,
		ExpiryDate:    req.ExpiryDate,
		MRP:           req.MRP,
		SupplierPrice: req.SupplierPrice,
		Price:         req.Price,
		Quantity:      req.Quantity,
		SupplierID:    req.SupplierID,
		MinStockLevel: req.MinStockLevel,
		InvoiceNumber: req.InvoiceNumber,
	}
}

// Create handles adding a single lot
func (h *MedicineHandler) Create(c *gin.Context) {
	var req request.MedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lot, err := h.medicineService.AddMedicine(c.Request.Context(), medicineInputFromRequest(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Medicine added successfully", lot)
}

// BulkCreate handles adding one supplier delivery of several lots
func (h *MedicineHandler) BulkCreate(c *gin.Context) {
	var req request.BulkMedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.MedicineInput, len(req.Items))
	for i := range req.Items {
		items[i] = *medicineInputFromRequest(&req.Items[i])
	}

	lots, err := h.medicineService.BulkAddMedicines(c.Request.Context(), &service.BulkAddInput{
		SupplierID:    req.SupplierID,
		InvoiceNumber: req.InvoiceNumber,
		Items:         items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Medicines added successfully", lots)
}

// List handles listing lots with search and low-stock filtering
func (h *MedicineHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.MedicineFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:   c.Query("search"),
		LowStock: c.Query("low_stock") == "true",
	}

	if supplierIDStr := c.Query("supplier_id"); supplierIDStr != "" {
		if supplierID, err := uuid.Parse(supplierIDStr); err == nil {
			params.SupplierID = &supplierID
		}
	}

	result, err := h.medicineService.ListMedicines(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Medicines retrieved successfully", result)
}

// Get handles getting a single lot
func (h *MedicineHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	lot, err := h.medicineService.GetMedicine(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine retrieved successfully", lot)
}

// Update handles updating a lot
func (h *MedicineHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	var req request.MedicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	lot, err := h.medicineService.UpdateMedicine(c.Request.Context(), id, medicineInputFromRequest(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine updated successfully", lot)
}

// Delete handles removing a lot
func (h *MedicineHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid medicine ID")
		return
	}

	if err := h.medicineService.DeleteMedicine(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Medicine deleted successfully", nil)
}

// LowStock handles listing lots at or below their reorder threshold
func (h *MedicineHandler) LowStock(c *gin.Context) {
	lots, err := h.medicineService.LowStock(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock medicines retrieved successfully", lots)
}

// Expiring handles listing lots that expire within the window (days)
func (h *MedicineHandler) Expiring(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		response.BadRequest(c, "Invalid days parameter")
		return
	}

	lots, err := h.medicineService.ExpiringSoon(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Expiring medicines retrieved successfully", lots)
}
