package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Bill is one completed sale. All monetary fields are paise. The pharmacy
// display fields are snapshotted at creation time: later edits to the
// pharmacy profile must not change historical receipts.
type Bill struct {
	ID             uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	PharmacyID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"pharmacy_id"`
	BillNo         string             `gorm:"size:100;unique;not null" json:"bill_no"`
	CustomerName   string             `gorm:"size:255;not null" json:"customer_name"`
	CustomerMobile string             `gorm:"size:50;not null;index" json:"customer_mobile"`
	PharmacyName   string             `gorm:"size:255" json:"pharmacy_name"`
	GSTNumber      string             `gorm:"size:50" json:"gst_number"`
	SubTotal       int64              `gorm:"not null" json:"-"`
	DiscountAmount int64              `gorm:"default:0" json:"-"`
	TaxAmount      int64              `gorm:"default:0" json:"-"`
	TotalAmount    int64              `gorm:"not null" json:"-"`
	PaidAmount     int64              `gorm:"default:0" json:"-"`
	BalanceAmount  int64              `gorm:"default:0" json:"-"`
	PaymentStatus  enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
	DeletedAt      gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Pharmacy Pharmacy   `gorm:"foreignKey:PharmacyID" json:"-"`
	Items    []BillItem `gorm:"foreignKey:BillID" json:"items,omitempty"`
}

// MarshalJSON converts paise to decimals for API responses
func (b Bill) MarshalJSON() ([]byte, error) {
	type Alias Bill
	return json.Marshal(&struct {
		Alias
		SubTotal       float64 `json:"sub_total"`
		DiscountAmount float64 `json:"discount_amount"`
		TaxAmount      float64 `json:"tax_amount"`
		TotalAmount    float64 `json:"total_amount"`
		PaidAmount     float64 `json:"paid_amount"`
		BalanceAmount  float64 `json:"balance_amount"`
	}{
		Alias:          Alias(b),
		SubTotal:       float64(b.SubTotal) / 100,
		DiscountAmount: float64(b.DiscountAmount) / 100,
		TaxAmount:      float64(b.TaxAmount) / 100,
		TotalAmount:    float64(b.TotalAmount) / 100,
		PaidAmount:     float64(b.PaidAmount) / 100,
		BalanceAmount:  float64(b.BalanceAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill
func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Bill model
func (Bill) TableName() string {
	return "bills"
}

// BillItem is one line of a bill. Name, batch and price are snapshotted from
// the lot at sale time and stay fixed if the lot is later edited or deleted.
type BillItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BillID        uuid.UUID `gorm:"type:uuid;not null;index" json:"bill_id"`
	MedicineLotID uuid.UUID `gorm:"type:uuid;not null;index" json:"medicine_lot_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	BatchNumber   string    `gorm:"size:100;not null" json:"batch_number"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	Price         int64     `gorm:"not null" json:"-"` // unit price, in paise
	Amount        int64     `gorm:"not null" json:"-"` // line total, in paise
	CreatedAt     time.Time `json:"created_at"`

	// Relationships
	Bill Bill `gorm:"foreignKey:BillID" json:"-"`
}

// MarshalJSON converts paise to decimals for API responses
func (bi BillItem) MarshalJSON() ([]byte, error) {
	type Alias BillItem
	return json.Marshal(&struct {
		Alias
		Price  float64 `json:"price"`
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(bi),
		Price:  float64(bi.Price) / 100,
		Amount: float64(bi.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new bill item
func (bi *BillItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the BillItem model
func (BillItem) TableName() string {
	return "bill_items"
}
