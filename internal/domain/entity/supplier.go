package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier is a distributor the pharmacy buys stock from. Lots reference it
// optionally; supplier ledger entries require it.
type Supplier struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PharmacyID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Name              string         `gorm:"size:255;not null" json:"name"`
	ContactNumber     string         `gorm:"size:50;not null" json:"contact_number"`
	CompaniesSupplied []string       `gorm:"type:jsonb;serializer:json" json:"companies_supplied,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Pharmacy Pharmacy `gorm:"foreignKey:PharmacyID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new supplier
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
