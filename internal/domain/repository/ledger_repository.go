package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
)

// CustomerLedgerRepository stores manual customer credit/payment entries.
// Entries are append-only; there is no update or delete.
type CustomerLedgerRepository interface {
	Create(ctx context.Context, entry *entity.CustomerLedgerEntry) error
	// ListByCustomer returns tenant-scoped entries for one customer, newest first
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerLedgerEntry, error)
	// SumByCustomer returns the signed sum of the customer's entries, in paise
	// (Credit positive, Payment negative)
	SumByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
}

// SupplierLedgerRepository stores supplier purchase/payment/return entries.
// Append-only.
type SupplierLedgerRepository interface {
	Create(ctx context.Context, entry *entity.SupplierLedgerEntry) error
	// ListBySupplier returns tenant-scoped entries for one supplier, newest first
	ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplierLedgerEntry, error)
	// NetBalance returns ΣPurchase − ΣPayment − ΣReturn for a supplier, in paise
	NetBalance(ctx context.Context, supplierID uuid.UUID) (int64, error)
}

// ReturnRepository stores stock return audit records
type ReturnRepository interface {
	// Create persists the return record; when a ledger credit accompanies it
	// both rows are written in one transaction.
	Create(ctx context.Context, record *entity.ReturnRecord, credit *entity.SupplierLedgerEntry) error
	// List returns tenant-scoped return records, newest first
	List(ctx context.Context) ([]entity.ReturnRecord, error)
}
