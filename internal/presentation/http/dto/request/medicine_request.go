package request

import (
	"time"

	"github.com/google/uuid"
)

// MedicineRequest represents a create/update medicine lot request
type MedicineRequest struct {
	Name          string     `json:"name" binding:"required,min=1,max=255"`
	BatchNumber   string     `json:"batch_number" binding:"required"`
	ExpiryDate    time.Time  `json:"expiry_date" binding:"required"`
	MRP           float64    `json:"mrp" binding:"required,gt=0"`
	SupplierPrice float64    `json:"supplier_price" binding:"gte=0"`
	Price         float64    `json:"price" binding:"required,gt=0"`
	Quantity      int        `json:"quantity" binding:"gte=0"`
	SupplierID    *uuid.UUID `json:"supplier_id"`
	MinStockLevel int        `json:"min_stock_level"`
	InvoiceNumber *string    `json:"invoice_number"`
}

// BulkMedicineRequest represents one supplier delivery of several lots
type BulkMedicineRequest struct {
	SupplierID    *uuid.UUID        `json:"supplier_id"`
	InvoiceNumber string            `json:"invoice_number"`
	Items         []MedicineRequest `json:"items" binding:"required,min=1,dive"`
}
