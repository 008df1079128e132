package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/pkg/pagination"
)

// BillFilterParams filters bill listings
type BillFilterParams struct {
	Pagination *pagination.PaginationParams
	StartDate  *time.Time
	EndDate    *time.Time
}

// BillRepository defines the interface for bill data operations.
// Create persists the bill together with its items in one transaction.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error)
	Update(ctx context.Context, bill *entity.Bill) error
	// SettlePayment applies a payment as one conditional update: the paid
	// amount grows by at most the remaining balance and the status is
	// recomputed in the same statement, so concurrent settlements never
	// lose each other's writes. Returns false when no balance remained.
	SettlePayment(ctx context.Context, id uuid.UUID, amount int64) (bool, error)
	// Delete removes the bill and its items. Returns false when the bill
	// was already gone, so exactly one concurrent caller wins.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// List returns tenant-scoped bills, newest first
	List(ctx context.Context, params *BillFilterParams) ([]entity.Bill, int64, error)
	// ListByCustomerMobile returns tenant-scoped bills for one customer, newest first
	ListByCustomerMobile(ctx context.Context, mobile string) ([]entity.Bill, error)
	// SumOutstandingByMobile sums balance amounts of the customer's bills, in paise
	SumOutstandingByMobile(ctx context.Context, mobile string) (int64, error)
}

// AnalyticsRepository serves the dashboard's aggregate reads
type AnalyticsRepository interface {
	// SalesSince returns bill count and revenue (paise) since the given time
	SalesSince(ctx context.Context, since time.Time) (int64, int64, error)
	// OutstandingReceivables sums all unsettled bill balances, in paise
	OutstandingReceivables(ctx context.Context) (int64, error)
	// LowStockCount counts lots at or below their reorder threshold
	LowStockCount(ctx context.Context) (int64, error)
	// ExpiringCount counts lots expiring before the cutoff
	ExpiringCount(ctx context.Context, cutoff time.Time) (int64, error)
}
