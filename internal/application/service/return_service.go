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
)

// ReturnService handles stock returns to suppliers
type ReturnService struct {
	returnRepo   repository.ReturnRepository
	medicineRepo repository.MedicineRepository
	inventory    *MedicineService
}

// NewReturnService creates a new return service
func NewReturnService(
	returnRepo repository.ReturnRepository,
	medicineRepo repository.MedicineRepository,
	inventory *MedicineService,
) *ReturnService {
	return &ReturnService{
		returnRepo:   returnRepo,
		medicineRepo: medicineRepo,
		inventory:    inventory,
	}
}

// ReturnInput represents a stock return request
type ReturnInput struct {
	MedicineLotID uuid.UUID
	Quantity      int
	Reason        string
}

// ReturnToSupplier removes quantity from a lot and records the return.
// When the lot names a supplier, the supplier's payable balance is credited
// with the cost value of the returned units in the same transaction; a lot
// without a supplier still gets its audit record.
func (s *ReturnService) ReturnToSupplier(ctx context.Context, input *ReturnInput) (*entity.ReturnRecord, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if input.Quantity <= 0 {
		return nil, apperror.NewInvalidAmountError("Quantity")
	}

	lot, err := s.medicineRepo.GetByID(ctx, input.MedicineLotID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, apperror.NewNotFoundError("Medicine")
	}
	if lot.PharmacyID != tenantID {
		return nil, apperror.NewCrossTenantError("medicine")
	}
	if input.Quantity > lot.Quantity {
		return nil, apperror.NewInsufficientStockError(lot.Name, lot.Quantity)
	}

	if err := s.inventory.Adjust(ctx, lot.ID, input.Quantity); err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = "Expired"
	}

	record := &entity.ReturnRecord{
		PharmacyID:    tenantID,
		MedicineLotID: lot.ID,
		MedicineName:  lot.Name,
		BatchNumber:   lot.BatchNumber,
		Quantity:      input.Quantity,
		SupplierID:    lot.SupplierID,
		Reason:        reason,
	}

	var credit *entity.SupplierLedgerEntry
	if lot.SupplierID != nil {
		credit = &entity.SupplierLedgerEntry{
			PharmacyID: tenantID,
			SupplierID: *lot.SupplierID,
			Type:       enum.SupplierEntryReturn,
			Amount:     lot.SupplierPrice * int64(input.Quantity),
			Date:       time.Now(),
			Description: fmt.Sprintf("Returned %d x %s (batch %s)",
				input.Quantity, lot.Name, lot.BatchNumber),
		}
	}

	if err := s.returnRepo.Create(ctx, record, credit); err != nil {
		// Stock was already decremented, put it back
		if rerr := s.inventory.Restore(ctx, map[uuid.UUID]int{lot.ID: input.Quantity}); rerr != nil {
			log.Error().Err(rerr).
				Str("lot_id", lot.ID.String()).
				Int("quantity", input.Quantity).
				Msg("failed to restore stock after return persist failure")
		}
		return nil, err
	}

	return record, nil
}

// ListReturns returns the tenant's return records, newest first
func (s *ReturnService) ListReturns(ctx context.Context) ([]entity.ReturnRecord, error) {
	return s.returnRepo.List(ctx)
}
