package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Pharmacy is the tenant of the system. Every record in the core carries a
// PharmacyID and is invisible to other pharmacies.
type Pharmacy struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	Name          string              `gorm:"size:255;not null" json:"name"`
	Address       string              `gorm:"type:text;not null" json:"address"`
	LicenseNumber string              `gorm:"size:100;unique;not null" json:"license_number"`
	ContactNumber string              `gorm:"size:50;not null" json:"contact_number"`
	GSTNumber     string              `gorm:"size:50" json:"gst_number"`
	OwnerID       uuid.UUID           `gorm:"type:uuid;not null;index" json:"owner_id"`
	Status        enum.PharmacyStatus `gorm:"size:20;default:'Pending'" json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	DeletedAt     gorm.DeletedAt      `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new pharmacy
func (p *Pharmacy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Pharmacy model
func (Pharmacy) TableName() string {
	return "pharmacies"
}

// IsApproved reports whether the pharmacy may transact
func (p *Pharmacy) IsApproved() bool {
	return p.Status == enum.PharmacyStatusApproved
}
