package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"gorm.io/gorm"
)

// CustomerLedgerEntry is a manually entered credit or payment against a
// customer account, independent of bills. Append-only: no update or delete.
type CustomerLedgerEntry struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	PharmacyID  uuid.UUID              `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	CustomerID  uuid.UUID              `gorm:"type:uuid;not null;index" json:"customer_id"`
	Type        enum.CustomerEntryType `gorm:"size:20;not null" json:"type"`
	Amount      int64                  `gorm:"not null" json:"-"` // paise, always positive
	Date        time.Time              `gorm:"not null;index" json:"date"`
	Description string                 `gorm:"type:text" json:"description"`
	CreatedAt   time.Time              `json:"created_at"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON converts paise to decimals for API responses
func (e CustomerLedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias CustomerLedgerEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.Amount) / 100,
	})
}

// SignedAmount returns the entry's effect on the customer's total due
func (e *CustomerLedgerEntry) SignedAmount() int64 {
	return e.Type.Sign() * e.Amount
}

// BeforeCreate generates a UUID before creating a new entry
func (e *CustomerLedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CustomerLedgerEntry model
func (CustomerLedgerEntry) TableName() string {
	return "customer_ledger_entries"
}

// SupplierLedgerEntry records a purchase, payment or stock return against a
// supplier account. Append-only.
type SupplierLedgerEntry struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	PharmacyID  uuid.UUID              `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	SupplierID  uuid.UUID              `gorm:"type:uuid;not null;index" json:"supplier_id"`
	Type        enum.SupplierEntryType `gorm:"size:20;not null" json:"type"`
	Amount      int64                  `gorm:"not null" json:"-"` // paise, always positive
	Date        time.Time              `gorm:"not null;index" json:"date"`
	Description string                 `gorm:"type:text" json:"description"`
	CreatedAt   time.Time              `json:"created_at"`

	// Relationships
	Supplier Supplier `gorm:"foreignKey:SupplierID" json:"-"`
}

// MarshalJSON converts paise to decimals for API responses
func (e SupplierLedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias SupplierLedgerEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: float64(e.Amount) / 100,
	})
}

// SignedAmount returns the entry's effect on the net payable balance
func (e *SupplierLedgerEntry) SignedAmount() int64 {
	return e.Type.Sign() * e.Amount
}

// BeforeCreate generates a UUID before creating a new entry
func (e *SupplierLedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SupplierLedgerEntry model
func (SupplierLedgerEntry) TableName() string {
	return "supplier_ledger_entries"
}
