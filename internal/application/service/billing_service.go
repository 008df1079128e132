package service

import (
	"context"
	"math"
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

// gstDivisor extracts the included 5% GST from a tax-inclusive total
const gstDivisor = 1.05

// BillingService handles bill creation, settlement and deletion
type BillingService struct {
	billRepo     repository.BillRepository
	pharmacyRepo repository.PharmacyRepository
	inventory    *MedicineService
}

// NewBillingService creates a new billing service
func NewBillingService(
	billRepo repository.BillRepository,
	pharmacyRepo repository.PharmacyRepository,
	inventory *MedicineService,
) *BillingService {
	return &BillingService{
		billRepo:     billRepo,
		pharmacyRepo: pharmacyRepo,
		inventory:    inventory,
	}
}

// BillItemInput is one cart line
type BillItemInput struct {
	MedicineLotID uuid.UUID
	Quantity      int
}

// CreateBillInput represents the create bill input. Paid is optional;
// an omitted value means the customer paid in full at the counter.
type CreateBillInput struct {
	CustomerName   string
	CustomerMobile string
	Discount       float64
	Paid           *float64
	Items          []BillItemInput
}

// IncludedTax returns the GST portion already included in a tax-inclusive
// total, in paise.
func IncludedTax(grandTotal int64) int64 {
	return grandTotal - int64(math.Round(float64(grandTotal)/gstDivisor))
}

// CreateBill reserves stock and persists the bill. Stock decrements are
// conditional updates in one transaction; if persisting the bill fails
// afterwards the decrements are compensated, so no sale ever leaves stock
// reduced without a matching bill.
func (s *BillingService) CreateBill(ctx context.Context, input *CreateBillInput) (*entity.Bill, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewEmptyInputError("Bill must contain at least one item")
	}
	if input.CustomerName == "" {
		return nil, apperror.NewEmptyInputError("Customer name is required")
	}
	if input.Discount < 0 {
		return nil, apperror.NewBadRequestError("Discount cannot be negative")
	}
	if input.Paid != nil && *input.Paid < 0 {
		return nil, apperror.NewBadRequestError("Paid amount cannot be negative")
	}

	pharmacy, err := s.pharmacyRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if pharmacy == nil {
		return nil, apperror.NewNotFoundError("Pharmacy")
	}

	lines := make([]repository.StockLine, 0, len(input.Items))
	decrements := make(map[uuid.UUID]int, len(input.Items))
	for _, item := range input.Items {
		lines = append(lines, repository.StockLine{LotID: item.MedicineLotID, Quantity: item.Quantity})
		decrements[item.MedicineLotID] += item.Quantity
	}

	lotMap, err := s.inventory.ReserveAndCommit(ctx, lines)
	if err != nil {
		return nil, err
	}

	var subTotal int64
	items := make([]entity.BillItem, 0, len(input.Items))
	for _, item := range input.Items {
		lot := lotMap[item.MedicineLotID]
		lineTotal := lot.Price * int64(item.Quantity)
		subTotal += lineTotal
		items = append(items, entity.BillItem{
			MedicineLotID: lot.ID,
			Name:          lot.Name,
			BatchNumber:   lot.BatchNumber,
			Quantity:      item.Quantity,
			Price:         lot.Price,
			Amount:        lineTotal,
		})
	}

	discount := utils.Cents(input.Discount)
	grandTotal := subTotal - discount
	if grandTotal < 0 {
		grandTotal = 0
	}
	tax := IncludedTax(grandTotal)

	paid := grandTotal
	if input.Paid != nil {
		paid = utils.Cents(*input.Paid)
	}
	balance := grandTotal - paid
	if balance < 0 {
		balance = 0
	}

	bill := &entity.Bill{
		PharmacyID:     tenantID,
		BillNo:         utils.GenerateBillNo(),
		CustomerName:   input.CustomerName,
		CustomerMobile: input.CustomerMobile,
		PharmacyName:   pharmacy.Name,
		GSTNumber:      pharmacy.GSTNumber,
		SubTotal:       subTotal,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalAmount:    grandTotal,
		PaidAmount:     paid,
		BalanceAmount:  balance,
		PaymentStatus:  enum.DerivePaymentStatus(grandTotal, paid),
		Items:          items,
	}

	if err := s.billRepo.Create(ctx, bill); err != nil {
		// Stock was already decremented, put it back
		if rerr := s.inventory.Restore(ctx, decrements); rerr != nil {
			log.Error().Err(rerr).
				Str("bill_no", bill.BillNo).
				Msg("failed to restore stock after bill persist failure")
		}
		return nil, err
	}

	return bill, nil
}

// GetBill retrieves a bill with its items, enforcing tenant ownership
func (s *BillingService) GetBill(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	bill, err := s.billRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if bill.PharmacyID != tenantID {
		return nil, apperror.NewCrossTenantError("bill")
	}
	return bill, nil
}

// SettleBill records a payment against an outstanding bill. Overpayment is
// clamped to the remaining balance; the excess is not carried as credit.
// The payment itself is one conditional update, so two concurrent
// settlements both land instead of overwriting each other.
func (s *BillingService) SettleBill(ctx context.Context, id uuid.UUID, amount float64) (*entity.Bill, error) {
	if amount <= 0 {
		return nil, apperror.NewInvalidAmountError("Payment amount")
	}

	// Existence and tenant ownership first; the write below re-checks the
	// balance so a racer settling in between surfaces as AlreadySettled.
	if _, err := s.GetBill(ctx, id); err != nil {
		return nil, err
	}

	applied, err := s.billRepo.SettlePayment(ctx, id, utils.Cents(amount))
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, apperror.NewAlreadySettledError()
	}

	return s.GetBill(ctx, id)
}

// DeleteBill removes a bill and restores the stock it consumed. The delete
// runs first with a rows-affected check, so of two concurrent deletions only
// the winner restores; lots deleted since the sale are skipped.
func (s *BillingService) DeleteBill(ctx context.Context, id uuid.UUID) error {
	bill, err := s.GetBill(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := s.billRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperror.NewNotFoundError("Bill")
	}

	increments := make(map[uuid.UUID]int, len(bill.Items))
	for _, item := range bill.Items {
		increments[item.MedicineLotID] += item.Quantity
	}

	if err := s.inventory.Restore(ctx, increments); err != nil {
		log.Error().Err(err).
			Str("bill_id", id.String()).
			Msg("failed to restore stock after bill deletion")
		return err
	}
	return nil
}

// ListBills lists bills newest-first with optional date range
func (s *BillingService) ListBills(ctx context.Context, params *repository.BillFilterParams) (*pagination.PaginatedResult[entity.Bill], error) {
	bills, total, err := s.billRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(bills, pag), nil
}

// ListBillsByCustomerMobile returns one customer's bills, newest first
func (s *BillingService) ListBillsByCustomerMobile(ctx context.Context, mobile string) ([]entity.Bill, error) {
	if mobile == "" {
		return nil, apperror.NewEmptyInputError("Customer mobile is required")
	}
	return s.billRepo.ListByCustomerMobile(ctx, mobile)
}

// DateRangeFromQuery builds an optional [start, end) filter from query dates
func DateRangeFromQuery(start, end string) (*time.Time, *time.Time, error) {
	var startAt, endAt *time.Time
	if start != "" {
		t, err := time.Parse("2006-01-02", start)
		if err != nil {
			return nil, nil, apperror.NewBadRequestError("Invalid start date, expected YYYY-MM-DD")
		}
		startAt = &t
	}
	if end != "" {
		t, err := time.Parse("2006-01-02", end)
		if err != nil {
			return nil, nil, apperror.NewBadRequestError("Invalid end date, expected YYYY-MM-DD")
		}
		e := t.Add(24 * time.Hour)
		endAt = &e
	}
	return startAt, endAt, nil
}
