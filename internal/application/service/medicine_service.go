package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	infraRepo "github.com/rxledger/pharmacy-api/internal/infrastructure/repository"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
	"github.com/rxledger/pharmacy-api/pkg/pagination"
	"github.com/rxledger/pharmacy-api/pkg/utils"
)

// MedicineService handles inventory lot operations
type MedicineService struct {
	medicineRepo       repository.MedicineRepository
	supplierRepo       repository.SupplierRepository
	supplierLedgerRepo repository.SupplierLedgerRepository
}

// NewMedicineService creates a new medicine service
func NewMedicineService(
	medicineRepo repository.MedicineRepository,
	supplierRepo repository.SupplierRepository,
	supplierLedgerRepo repository.SupplierLedgerRepository,
) *MedicineService {
	return &MedicineService{
		medicineRepo:       medicineRepo,
		supplierRepo:       supplierRepo,
		supplierLedgerRepo: supplierLedgerRepo,
	}
}

// MedicineInput represents one lot being added or updated
type MedicineInput struct {
	Name          string
	BatchNumber   string
	ExpiryDate    time.Time
	MRP           float64
	SupplierPrice float64
	Price         float64
	Quantity      int
	SupplierID    *uuid.UUID
	MinStockLevel int
	InvoiceNumber *string
}

// BulkAddInput is one supplier delivery: several lots sharing a supplier
// and an invoice number
type BulkAddInput struct {
	SupplierID    *uuid.UUID
	InvoiceNumber string
	Items         []MedicineInput
}

func (s *MedicineService) buildLot(pharmacyID uuid.UUID, input *MedicineInput) *entity.MedicineLot {
	minStock := input.MinStockLevel
	if minStock <= 0 {
		minStock = 10
	}
	return &entity.MedicineLot{
		PharmacyID:    pharmacyID,
		Name:          input.Name,
		BatchNumber:   input.BatchNumber,
		ExpiryDate:    input.ExpiryDate,
		MRP:           utils.Cents(input.MRP),
		SupplierPrice: utils.Cents(input.SupplierPrice),
		Price:         utils.Cents(input.Price),
		Quantity:      input.Quantity,
		SupplierID:    input.SupplierID,
		MinStockLevel: minStock,
		InvoiceNumber: input.InvoiceNumber,
	}
}

// AddMedicine creates a single lot
func (s *MedicineService) AddMedicine(ctx context.Context, input *MedicineInput) (*entity.MedicineLot, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}
	if input.SupplierID != nil {
		if err := s.checkSupplier(ctx, tenantID, *input.SupplierID); err != nil {
			return nil, err
		}
	}

	lot := s.buildLot(tenantID, input)
	if err := s.medicineRepo.Create(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// BulkAddMedicines records one supplier delivery. All lots share the
// supplier and invoice number, and when a supplier is named a Purchase
// ledger entry is appended for the delivery's cost value.
func (s *MedicineService) BulkAddMedicines(ctx context.Context, input *BulkAddInput) ([]entity.MedicineLot, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewEmptyInputError("Delivery must contain at least one item")
	}
	if input.SupplierID != nil {
		if err := s.checkSupplier(ctx, tenantID, *input.SupplierID); err != nil {
			return nil, err
		}
	}

	var invoiceNo *string
	if input.InvoiceNumber != "" {
		invoiceNo = &input.InvoiceNumber
	}

	var purchaseValue int64
	lots := make([]entity.MedicineLot, 0, len(input.Items))
	for i := range input.Items {
		item := input.Items[i]
		if item.Quantity < 0 {
			return nil, apperror.NewBadRequestError("Quantity cannot be negative")
		}
		item.SupplierID = input.SupplierID
		item.InvoiceNumber = invoiceNo

		lot := s.buildLot(tenantID, &item)
		purchaseValue += lot.SupplierPrice * int64(lot.Quantity)
		lots = append(lots, *lot)
	}

	if err := s.medicineRepo.CreateBatch(ctx, lots); err != nil {
		return nil, err
	}

	if input.SupplierID != nil && purchaseValue > 0 {
		entry := &entity.SupplierLedgerEntry{
			PharmacyID:  tenantID,
			SupplierID:  *input.SupplierID,
			Type:        enum.SupplierEntryPurchase,
			Amount:      purchaseValue,
			Date:        time.Now(),
			Description: fmt.Sprintf("Stock purchase, invoice %s (%d items)", input.InvoiceNumber, len(lots)),
		}
		if err := s.supplierLedgerRepo.Create(ctx, entry); err != nil {
			log.Error().Err(err).
				Str("invoice", input.InvoiceNumber).
				Msg("failed to record purchase ledger entry for delivery")
			return nil, err
		}
	}

	return lots, nil
}

// GetMedicine retrieves a lot, enforcing tenant ownership
func (s *MedicineService) GetMedicine(ctx context.Context, id uuid.UUID) (*entity.MedicineLot, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	lot, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	if lot.PharmacyID != tenantID {
		return nil, apperror.NewCrossTenantError("medicine")
	}
	return lot, nil
}

// UpdateMedicine updates a lot's details and prices
func (s *MedicineService) UpdateMedicine(ctx context.Context, id uuid.UUID, input *MedicineInput) (*entity.MedicineLot, error) {
	lot, err := s.GetMedicine(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}

	lot.Name = input.Name
	lot.BatchNumber = input.BatchNumber
	lot.ExpiryDate = input.ExpiryDate
	lot.MRP = utils.Cents(input.MRP)
	lot.SupplierPrice = utils.Cents(input.SupplierPrice)
	lot.Price = utils.Cents(input.Price)
	lot.Quantity = input.Quantity
	lot.SupplierID = input.SupplierID
	if input.MinStockLevel > 0 {
		lot.MinStockLevel = input.MinStockLevel
	}
	lot.InvoiceNumber = input.InvoiceNumber

	if err := s.medicineRepo.Update(ctx, lot); err != nil {
		return nil, err
	}
	return lot, nil
}

// DeleteMedicine soft-deletes a lot. Historical bill items keep their
// snapshotted name and price.
func (s *MedicineService) DeleteMedicine(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetMedicine(ctx, id); err != nil {
		return err
	}
	return s.medicineRepo.Delete(ctx, id)
}

// ListMedicines lists lots with filtering
func (s *MedicineService) ListMedicines(ctx context.Context, params *repository.MedicineFilterParams) (*pagination.PaginatedResult[entity.MedicineLot], error) {
	lots, total, err := s.medicineRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(lots, pag), nil
}

// LowStock returns lots at or below their reorder threshold
func (s *MedicineService) LowStock(ctx context.Context) ([]entity.MedicineLot, error) {
	return s.medicineRepo.LowStock(ctx)
}

// ExpiringSoon returns lots expiring within the given window
func (s *MedicineService) ExpiringSoon(ctx context.Context, within time.Duration) ([]entity.MedicineLot, error) {
	return s.medicineRepo.ExpiringBefore(ctx, time.Now().Add(within))
}

// ReserveAndCommit validates a sale against the inventory and atomically
// decrements stock. Validation covers existence, tenant ownership, expiry
// and availability before any write; the decrements themselves are
// conditional updates in one transaction, so a concurrent sale that wins
// the race surfaces here as insufficient stock, never as oversell.
// Returns the fetched lots keyed by ID so the caller can snapshot names
// and prices.
func (s *MedicineService) ReserveAndCommit(ctx context.Context, lines []repository.StockLine) (map[uuid.UUID]*entity.MedicineLot, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if len(lines) == 0 {
		return nil, apperror.NewEmptyInputError("Nothing to reserve")
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, apperror.NewInvalidAmountError("Quantity")
		}
		ids = append(ids, line.LotID)
	}

	lots, err := s.medicineRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	lotMap := make(map[uuid.UUID]*entity.MedicineLot, len(lots))
	for i := range lots {
		lotMap[lots[i].ID] = &lots[i]
	}

	now := time.Now()
	decrements := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		lot, exists := lotMap[line.LotID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Medicine %s", line.LotID))
		}
		if lot.PharmacyID != tenantID {
			return nil, apperror.NewCrossTenantError("medicine")
		}
		if lot.IsExpired(now) {
			return nil, apperror.NewExpiredLotError(lot.Name, lot.ExpiryDate)
		}
		if line.Quantity > lot.Quantity {
			return nil, apperror.NewInsufficientStockError(lot.Name, lot.Quantity)
		}
		decrements[line.LotID] += line.Quantity
	}

	failedIDs, err := s.medicineRepo.AtomicDecrementBatch(ctx, decrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		// A concurrent sale won the race between validation and commit.
		// Re-read so the error carries the real remaining quantity.
		fresh, ferr := s.medicineRepo.GetByIDs(ctx, failedIDs)
		if ferr == nil && len(fresh) > 0 {
			return nil, apperror.NewInsufficientStockError(fresh[0].Name, fresh[0].Quantity)
		}
		if lot, exists := lotMap[failedIDs[0]]; exists {
			return nil, apperror.NewInsufficientStockError(lot.Name, 0)
		}
		return nil, apperror.NewBadRequestError("Insufficient stock")
	}

	return lotMap, nil
}

// Restore puts quantities back after a bill is deleted or fails to persist.
// Lots that have since been deleted are skipped and logged; a vanished lot
// never fails the whole restore.
func (s *MedicineService) Restore(ctx context.Context, increments map[uuid.UUID]int) error {
	skipped, err := s.medicineRepo.AtomicIncrementBatch(ctx, increments)
	if err != nil {
		return err
	}
	for _, id := range skipped {
		log.Warn().Str("lot_id", id.String()).Msg("stock restore skipped a missing lot")
	}
	return nil
}

// Adjust removes quantity from one lot with a conditional decrement. Used
// by supplier returns; the caller has already done tenant and quantity
// validation against a fetched lot.
func (s *MedicineService) Adjust(ctx context.Context, lotID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return apperror.NewInvalidAmountError("Quantity")
	}
	applied, err := s.medicineRepo.AtomicDecrement(ctx, lotID, quantity)
	if err != nil {
		return err
	}
	if !applied {
		lot, ferr := s.medicineRepo.GetByID(ctx, lotID)
		if ferr == nil && lot != nil {
			return apperror.NewInsufficientStockError(lot.Name, lot.Quantity)
		}
		return apperror.NewNotFoundError("Medicine")
	}
	return nil
}

func (s *MedicineService) checkSupplier(ctx context.Context, tenantID, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return apperror.NewNotFoundError("Supplier")
	}
	if supplier.PharmacyID != tenantID {
		return apperror.NewCrossTenantError("supplier")
	}
	return nil
}
