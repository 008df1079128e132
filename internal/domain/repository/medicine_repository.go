package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/pkg/pagination"
)

// StockLine is one (lot, quantity) request against the inventory store.
// Name is carried only so stock errors can name the item for the caller.
type StockLine struct {
	LotID    uuid.UUID
	Name     string
	Quantity int
}

// MedicineFilterParams filters lot listings
type MedicineFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	LowStock   bool
	SupplierID *uuid.UUID
}

// MedicineRepository defines the interface for medicine lot data operations.
// GetByID and GetByIDs fetch without a tenant filter so services can
// distinguish "not found" from "belongs to another pharmacy".
type MedicineRepository interface {
	Create(ctx context.Context, lot *entity.MedicineLot) error
	CreateBatch(ctx context.Context, lots []entity.MedicineLot) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MedicineLot, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MedicineLot, error)
	Update(ctx context.Context, lot *entity.MedicineLot) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns tenant-scoped lots with filtering, newest first
	List(ctx context.Context, params *MedicineFilterParams) ([]entity.MedicineLot, int64, error)
	// LowStock returns tenant-scoped lots at or below their reorder threshold
	LowStock(ctx context.Context) ([]entity.MedicineLot, error)
	// ExpiringBefore returns tenant-scoped lots that expire before the cutoff
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]entity.MedicineLot, error)

	// AtomicDecrementBatch decrements stock for multiple lots in one
	// transaction using conditional updates (quantity >= amount). If any lot
	// fails the condition the whole transaction rolls back and the failed lot
	// IDs are returned.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error)
	// AtomicIncrementBatch restores stock. Lots that no longer exist are
	// skipped; their IDs are returned for the audit trail.
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) ([]uuid.UUID, error)
	// AtomicDecrement decrements one lot only if enough stock remains
	AtomicDecrement(ctx context.Context, id uuid.UUID, amount int) (bool, error)
}
