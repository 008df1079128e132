package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	infraRepo "github.com/rxledger/pharmacy-api/internal/infrastructure/repository"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
	"github.com/rxledger/pharmacy-api/pkg/utils"
)

// SupplierService handles supplier accounts and their ledgers
type SupplierService struct {
	supplierRepo repository.SupplierRepository
	ledgerRepo   repository.SupplierLedgerRepository
}

// NewSupplierService creates a new supplier service
func NewSupplierService(
	supplierRepo repository.SupplierRepository,
	ledgerRepo repository.SupplierLedgerRepository,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		ledgerRepo:   ledgerRepo,
	}
}

// SupplierInput represents the create/update supplier input
type SupplierInput struct {
	Name              string
	ContactNumber     string
	CompaniesSupplied []string
}

// AddSupplier creates a supplier
func (s *SupplierService) AddSupplier(ctx context.Context, input *SupplierInput) (*entity.Supplier, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if input.Name == "" {
		return nil, apperror.NewEmptyInputError("Supplier name is required")
	}

	supplier := &entity.Supplier{
		PharmacyID:        tenantID,
		Name:              input.Name,
		ContactNumber:     input.ContactNumber,
		CompaniesSupplied: input.CompaniesSupplied,
	}
	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// GetSupplier retrieves a supplier, enforcing tenant ownership
func (s *SupplierService) GetSupplier(ctx context.Context, id uuid.UUID) (*entity.Supplier, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	supplier, err := s.supplierRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, apperror.NewNotFoundError("Supplier")
	}
	if supplier.PharmacyID != tenantID {
		return nil, apperror.NewCrossTenantError("supplier")
	}
	return supplier, nil
}

// UpdateSupplier updates a supplier's details
func (s *SupplierService) UpdateSupplier(ctx context.Context, id uuid.UUID, input *SupplierInput) (*entity.Supplier, error) {
	supplier, err := s.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}

	supplier.Name = input.Name
	supplier.ContactNumber = input.ContactNumber
	supplier.CompaniesSupplied = input.CompaniesSupplied

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier soft-deletes a supplier. Ledger entries and lots keep
// their supplier ID for history.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSupplier(ctx, id); err != nil {
		return err
	}
	return s.supplierRepo.Delete(ctx, id)
}

// ListSuppliers returns all of the tenant's suppliers
func (s *SupplierService) ListSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	return s.supplierRepo.List(ctx)
}

// SupplierEntryInput represents a manual supplier ledger entry
type SupplierEntryInput struct {
	SupplierID  uuid.UUID
	Type        enum.SupplierEntryType
	Amount      float64
	Date        time.Time
	Description string
}

// AddEntry appends a purchase or payment to a supplier's ledger
func (s *SupplierService) AddEntry(ctx context.Context, input *SupplierEntryInput) (*entity.SupplierLedgerEntry, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewInvalidAmountError("Amount")
	}
	if !input.Type.Valid() {
		return nil, apperror.NewBadRequestError("Entry type must be Purchase, Payment or Return")
	}

	supplier, err := s.GetSupplier(ctx, input.SupplierID)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	entry := &entity.SupplierLedgerEntry{
		PharmacyID:  supplier.PharmacyID,
		SupplierID:  supplier.ID,
		Type:        input.Type,
		Amount:      utils.Cents(input.Amount),
		Date:        date,
		Description: input.Description,
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// History returns a supplier's ledger entries, newest first
func (s *SupplierService) History(ctx context.Context, supplierID uuid.UUID) ([]entity.SupplierLedgerEntry, error) {
	if _, err := s.GetSupplier(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.ListBySupplier(ctx, supplierID)
}

// NetBalance returns what the pharmacy still owes the supplier: purchases
// minus payments and returns.
func (s *SupplierService) NetBalance(ctx context.Context, supplierID uuid.UUID) (float64, error) {
	if _, err := s.GetSupplier(ctx, supplierID); err != nil {
		return 0, err
	}
	balance, err := s.ledgerRepo.NetBalance(ctx, supplierID)
	if err != nil {
		return 0, err
	}
	return utils.Decimal(balance), nil
}
