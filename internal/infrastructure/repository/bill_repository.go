package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	domainRepo "github.com/rxledger/pharmacy-api/internal/domain/repository"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

// Create persists the bill and its items in one transaction (GORM inserts
// the associated items with the parent row).
func (r *billRepository) Create(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Create(bill).Error
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).Preload("Items").First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}

func (r *billRepository) Update(ctx context.Context, bill *entity.Bill) error {
	return r.db.WithContext(ctx).Omit("Items").Save(bill).Error
}

// SettlePayment folds the read-modify-write into one UPDATE. Every column
// expression sees the pre-update balance, so the payment is clamped and the
// status derived against a consistent snapshot even under concurrent calls.
func (r *billRepository) SettlePayment(ctx context.Context, id uuid.UUID, amount int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.Bill{}).
		Where("id = ? AND balance_amount > 0", id).
		Updates(map[string]interface{}{
			"paid_amount":    gorm.Expr("paid_amount + CASE WHEN balance_amount < ? THEN balance_amount ELSE ? END", amount, amount),
			"balance_amount": gorm.Expr("CASE WHEN balance_amount < ? THEN 0 ELSE balance_amount - ? END", amount, amount),
			"payment_status": gorm.Expr("CASE WHEN balance_amount <= ? THEN ? ELSE ? END", amount, enum.PaymentStatusPaid, enum.PaymentStatusPartial),
		})

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the bill row first with a rows-affected check; when two
// callers race, the loser sees zero rows and the items are left alone.
func (r *billRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&entity.Bill{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Delete(&entity.BillItem{}, "bill_id = ?", id).Error
	})
	return deleted, err
}

func (r *billRepository) List(ctx context.Context, params *domainRepo.BillFilterParams) ([]entity.Bill, int64, error) {
	var bills []entity.Bill
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Bill{}).Scopes(TenantScope(ctx))

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order("created_at DESC").
		Find(&bills).Error

	return bills, total, err
}

func (r *billRepository) ListByCustomerMobile(ctx context.Context, mobile string) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("customer_mobile = ?", mobile).
		Preload("Items").
		Order("created_at DESC").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) SumOutstandingByMobile(ctx context.Context, mobile string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).Scopes(TenantScope(ctx)).
		Where("customer_mobile = ?", mobile).
		Select("COALESCE(SUM(balance_amount), 0)").
		Scan(&total).Error
	return total, err
}

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) SalesSince(ctx context.Context, since time.Time) (int64, int64, error) {
	var result struct {
		Count int64
		Total int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).Scopes(TenantScope(ctx)).
		Where("created_at >= ?", since).
		Select("COUNT(*) AS count, COALESCE(SUM(total_amount), 0) AS total").
		Scan(&result).Error
	return result.Count, result.Total, err
}

func (r *analyticsRepository) OutstandingReceivables(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Bill{}).Scopes(TenantScope(ctx)).
		Where("balance_amount > 0").
		Select("COALESCE(SUM(balance_amount), 0)").
		Scan(&total).Error
	return total, err
}

func (r *analyticsRepository) LowStockCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MedicineLot{}).Scopes(TenantScope(ctx)).
		Where("quantity <= min_stock_level").
		Count(&count).Error
	return count, err
}

func (r *analyticsRepository) ExpiringCount(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.MedicineLot{}).Scopes(TenantScope(ctx)).
		Where("expiry_date < ? AND quantity > 0", cutoff).
		Count(&count).Error
	return count, err
}
