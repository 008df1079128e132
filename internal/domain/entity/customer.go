package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a simple master record. Bills store the customer's name and
// mobile by value, so a sale never requires a Customer row to exist.
type Customer struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PharmacyID uuid.UUID      `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	Name       string         `gorm:"size:255;not null" json:"name"`
	Mobile     string         `gorm:"size:50;not null;index" json:"mobile"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Pharmacy Pharmacy `gorm:"foreignKey:PharmacyID" json:"-"`

	// Computed: outstanding dues, filled by the service layer
	TotalDue *float64 `gorm:"-" json:"total_due,omitempty"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
