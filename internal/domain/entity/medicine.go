package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MedicineLot is one purchased batch of one product. The same medicine name
// can appear in several lots with different batch numbers and expiries; each
// lot is an independent stock unit.
type MedicineLot struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PharmacyID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Name          string         `gorm:"size:255;not null;index" json:"name"`
	BatchNumber   string         `gorm:"size:100;not null" json:"batch_number"`
	ExpiryDate    time.Time      `gorm:"not null" json:"expiry_date"`
	MRP           int64          `gorm:"not null" json:"-"` // printed max price, in paise
	SupplierPrice int64          `gorm:"not null" json:"-"` // cost price, in paise
	Price         int64          `gorm:"not null" json:"-"` // selling price, in paise
	Quantity      int            `gorm:"not null;default:0" json:"quantity"`
	SupplierID    *uuid.UUID     `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	MinStockLevel int            `gorm:"default:10" json:"min_stock_level"`
	InvoiceNumber *string        `gorm:"size:100;index" json:"invoice_number,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Pharmacy Pharmacy  `gorm:"foreignKey:PharmacyID" json:"-"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// MarshalJSON converts paise amounts to decimals for API responses
func (m MedicineLot) MarshalJSON() ([]byte, error) {
	type Alias MedicineLot
	return json.Marshal(&struct {
		Alias
		MRP           float64 `json:"mrp"`
		SupplierPrice float64 `json:"supplier_price"`
		Price         float64 `json:"price"`
	}{
		Alias:         Alias(m),
		MRP:           float64(m.MRP) / 100,
		SupplierPrice: float64(m.SupplierPrice) / 100,
		Price:         float64(m.Price) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new lot
func (m *MedicineLot) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MedicineLot model
func (MedicineLot) TableName() string {
	return "medicine_lots"
}

// IsExpired reports whether the lot is past its expiry date at the given time
func (m *MedicineLot) IsExpired(at time.Time) bool {
	return m.ExpiryDate.Before(at)
}

// IsLowStock reports whether quantity has dropped to the reorder threshold
func (m *MedicineLot) IsLowStock() bool {
	return m.Quantity <= m.MinStockLevel
}
