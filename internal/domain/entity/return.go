package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReturnRecord is the audit entry for stock sent back to a supplier.
// Append-only; created in the same unit of work as the triggering
// supplier ledger credit.
type ReturnRecord struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	PharmacyID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	MedicineLotID uuid.UUID  `gorm:"type:uuid;not null;index" json:"medicine_lot_id"`
	MedicineName  string     `gorm:"size:255;not null" json:"medicine_name"`
	BatchNumber   string     `gorm:"size:100;not null" json:"batch_number"`
	Quantity      int        `gorm:"not null" json:"quantity"`
	SupplierID    *uuid.UUID `gorm:"type:uuid;index" json:"supplier_id,omitempty"`
	Reason        string     `gorm:"size:255;default:'Expired'" json:"reason"`
	CreatedAt     time.Time  `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new return record
func (r *ReturnRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReturnRecord model
func (ReturnRecord) TableName() string {
	return "return_records"
}
