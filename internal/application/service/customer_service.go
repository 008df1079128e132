package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/internal/domain/repository"
	infraRepo "github.com/rxledger/pharmacy-api/internal/infrastructure/repository"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
	"github.com/rxledger/pharmacy-api/pkg/utils"
)

// CustomerService handles customer accounts and their ledgers
type CustomerService struct {
	customerRepo repository.CustomerRepository
	ledgerRepo   repository.CustomerLedgerRepository
	billRepo     repository.BillRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	ledgerRepo repository.CustomerLedgerRepository,
	billRepo repository.BillRepository,
) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		ledgerRepo:   ledgerRepo,
		billRepo:     billRepo,
	}
}

// AddCustomerInput represents the add customer input. Force suppresses the
// duplicate-name check when the operator really means a second account.
type AddCustomerInput struct {
	Name   string
	Mobile string
	Force  bool
}

// AddCustomer creates a customer. Names are stored uppercase so lookups and
// duplicate checks are case-insensitive.
func (s *CustomerService) AddCustomer(ctx context.Context, input *AddCustomerInput) (*entity.Customer, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}
	name := strings.ToUpper(strings.TrimSpace(input.Name))
	if name == "" {
		return nil, apperror.NewEmptyInputError("Customer name is required")
	}

	if !input.Force {
		existing, err := s.customerRepo.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Customer with this name already exists, set force to add anyway")
		}
	}

	customer := &entity.Customer{
		PharmacyID: tenantID,
		Name:       name,
		Mobile:     input.Mobile,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer, enforcing tenant ownership
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	if customer.PharmacyID != tenantID {
		return nil, apperror.NewCrossTenantError("customer")
	}
	return customer, nil
}

// ListCustomers returns all customers with their outstanding dues filled in
func (s *CustomerService) ListCustomers(ctx context.Context) ([]entity.Customer, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range customers {
		due, err := s.totalDue(ctx, &customers[i])
		if err != nil {
			return nil, err
		}
		dec := utils.Decimal(due)
		customers[i].TotalDue = &dec
	}
	return customers, nil
}

// AddEntryInput represents a manual ledger entry
type AddEntryInput struct {
	CustomerID  uuid.UUID
	Type        enum.CustomerEntryType
	Amount      float64
	Date        time.Time
	Description string
}

// AddEntry appends a manual credit or payment to a customer's ledger
func (s *CustomerService) AddEntry(ctx context.Context, input *AddEntryInput) (*entity.CustomerLedgerEntry, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewInvalidAmountError("Amount")
	}
	if !input.Type.Valid() {
		return nil, apperror.NewBadRequestError("Entry type must be Credit or Payment")
	}

	customer, err := s.GetCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	entry := &entity.CustomerLedgerEntry{
		PharmacyID:  customer.PharmacyID,
		CustomerID:  customer.ID,
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

// TotalDue returns the customer's outstanding amount: unsettled bill
// balances matched by mobile plus the signed sum of manual ledger entries.
func (s *CustomerService) TotalDue(ctx context.Context, customerID uuid.UUID) (float64, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return 0, err
	}
	due, err := s.totalDue(ctx, customer)
	if err != nil {
		return 0, err
	}
	return utils.Decimal(due), nil
}

func (s *CustomerService) totalDue(ctx context.Context, customer *entity.Customer) (int64, error) {
	var billDue int64
	if customer.Mobile != "" {
		var err error
		billDue, err = s.billRepo.SumOutstandingByMobile(ctx, customer.Mobile)
		if err != nil {
			return 0, err
		}
	}

	manual, err := s.ledgerRepo.SumByCustomer(ctx, customer.ID)
	if err != nil {
		return 0, err
	}
	return billDue + manual, nil
}

// LedgerLine is one row of a customer's merged history. Amount is the
// signed net impact on the customer's due: bills contribute their balance,
// credits are positive, payments negative.
type LedgerLine struct {
	Origin      string    `json:"origin"` // "bill" or "ledger"
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Reference   string    `json:"reference,omitempty"`
}

// History returns the merged chronological view of a customer's bills and
// manual ledger entries, newest first.
func (s *CustomerService) History(ctx context.Context, customerID uuid.UUID) ([]LedgerLine, error) {
	customer, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	var lines []LedgerLine

	if customer.Mobile != "" {
		bills, err := s.billRepo.ListByCustomerMobile(ctx, customer.Mobile)
		if err != nil {
			return nil, err
		}
		for _, bill := range bills {
			lines = append(lines, LedgerLine{
				Origin:      "bill",
				Date:        bill.CreatedAt,
				Description: "Bill " + bill.BillNo,
				Amount:      utils.Decimal(bill.BalanceAmount),
				Reference:   bill.BillNo,
			})
		}
	}

	entries, err := s.ledgerRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		lines = append(lines, LedgerLine{
			Origin:      "ledger",
			Date:        entries[i].Date,
			Description: entries[i].Description,
			Amount:      utils.Decimal(entries[i].SignedAmount()),
			Reference:   entries[i].Type.String(),
		})
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Date.After(lines[j].Date)
	})
	return lines, nil
}
