package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	domainRepo "github.com/rxledger/pharmacy-api/internal/domain/repository"
	"gorm.io/gorm"
)

type customerLedgerRepository struct {
	db *gorm.DB
}

// NewCustomerLedgerRepository creates a new customer ledger repository
func NewCustomerLedgerRepository(db *gorm.DB) domainRepo.CustomerLedgerRepository {
	return &customerLedgerRepository{db: db}
}

func (r *customerLedgerRepository) Create(ctx context.Context, entry *entity.CustomerLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *customerLedgerRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CustomerLedgerEntry, error) {
	var entries []entity.CustomerLedgerEntry
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("customer_id = ?", customerID).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

// SumByCustomer folds the entries through the type sign mapping in SQL:
// credits add to the due, payments subtract.
func (r *customerLedgerRepository) SumByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.CustomerLedgerEntry{}).Scopes(TenantScope(ctx)).
		Where("customer_id = ?", customerID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", enum.CustomerEntryCredit).
		Scan(&total).Error
	return total, err
}

type supplierLedgerRepository struct {
	db *gorm.DB
}

// NewSupplierLedgerRepository creates a new supplier ledger repository
func NewSupplierLedgerRepository(db *gorm.DB) domainRepo.SupplierLedgerRepository {
	return &supplierLedgerRepository{db: db}
}

func (r *supplierLedgerRepository) Create(ctx context.Context, entry *entity.SupplierLedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *supplierLedgerRepository) ListBySupplier(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplierLedgerEntry, error) {
	var entries []entity.SupplierLedgerEntry
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("supplier_id = ?", supplierID).
		Order("date DESC").
		Find(&entries).Error
	return entries, err
}

func (r *supplierLedgerRepository) NetBalance(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.SupplierLedgerEntry{}).Scopes(TenantScope(ctx)).
		Where("supplier_id = ?", supplierID).
		Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", enum.SupplierEntryPurchase).
		Scan(&total).Error
	return total, err
}

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(db *gorm.DB) domainRepo.ReturnRepository {
	return &returnRepository{db: db}
}

// Create writes the return record and, when present, the supplier ledger
// credit in one transaction. A nil credit means the lot had no supplier and
// the ledger write is skipped.
func (r *returnRepository) Create(ctx context.Context, record *entity.ReturnRecord, credit *entity.SupplierLedgerEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return err
		}
		if credit != nil {
			if err := tx.Create(credit).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *returnRepository) List(ctx context.Context) ([]entity.ReturnRecord, error) {
	var records []entity.ReturnRecord
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
