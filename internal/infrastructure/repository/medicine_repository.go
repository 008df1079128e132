package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	domainRepo "github.com/rxledger/pharmacy-api/internal/domain/repository"
	"gorm.io/gorm"
)

// errShortStock aborts the decrement transaction when any line fails its
// quantity condition. Never surfaces to callers.
var errShortStock = errors.New("short stock")

type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new medicine lot repository
func NewMedicineRepository(db *gorm.DB) domainRepo.MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, lot *entity.MedicineLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *medicineRepository) CreateBatch(ctx context.Context, lots []entity.MedicineLot) error {
	if len(lots) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&lots).Error
}

func (r *medicineRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.MedicineLot, error) {
	var lot entity.MedicineLot
	err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &lot, err
}

// GetByIDs retrieves multiple lots in a single query
func (r *medicineRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MedicineLot, error) {
	if len(ids) == 0 {
		return []entity.MedicineLot{}, nil
	}
	var lots []entity.MedicineLot
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&lots).Error
	return lots, err
}

func (r *medicineRepository) Update(ctx context.Context, lot *entity.MedicineLot) error {
	return r.db.WithContext(ctx).Save(lot).Error
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.MedicineLot{}, "id = ?", id).Error
}

func (r *medicineRepository) List(ctx context.Context, params *domainRepo.MedicineFilterParams) ([]entity.MedicineLot, int64, error) {
	var lots []entity.MedicineLot
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.MedicineLot{}).Scopes(TenantScope(ctx))

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR batch_number ILIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if params.LowStock {
		query = query.Where("quantity <= min_stock_level")
	}

	if params.SupplierID != nil {
		query = query.Where("supplier_id = ?", *params.SupplierID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("created_at DESC").
		Find(&lots).Error

	return lots, total, err
}

func (r *medicineRepository) LowStock(ctx context.Context) ([]entity.MedicineLot, error) {
	var lots []entity.MedicineLot
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("quantity <= min_stock_level").
		Order("quantity ASC").
		Find(&lots).Error
	return lots, err
}

func (r *medicineRepository) ExpiringBefore(ctx context.Context, cutoff time.Time) ([]entity.MedicineLot, error) {
	var lots []entity.MedicineLot
	err := r.db.WithContext(ctx).Scopes(TenantScope(ctx)).
		Where("expiry_date < ? AND quantity > 0", cutoff).
		Order("expiry_date ASC").
		Find(&lots).Error
	return lots, err
}

// AtomicDecrementBatch decrements stock for multiple lots in a single
// transaction. Each line runs as
//
//	UPDATE medicine_lots SET quantity = quantity - ? WHERE id = ? AND quantity >= ?
//
// so a lot raced to exhaustion by a concurrent bill fails its condition
// instead of going negative. Any failed line rolls back every decrement.
func (r *medicineRepository) AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(decrements) == 0 {
		return nil, nil
	}

	var failedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range decrements {
			result := tx.Model(&entity.MedicineLot{}).
				Where("id = ? AND quantity >= ?", id, amount).
				Update("quantity", gorm.Expr("quantity - ?", amount))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				failedIDs = append(failedIDs, id)
			}
		}

		if len(failedIDs) > 0 {
			return errShortStock
		}
		return nil
	})

	if errors.Is(err, errShortStock) {
		return failedIDs, nil
	}
	return failedIDs, err
}

// AtomicIncrementBatch restores stock. A lot that was deleted in the meantime
// matches no row; its ID is collected so the caller can log the skip, and the
// other lines still apply.
func (r *medicineRepository) AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) ([]uuid.UUID, error) {
	if len(increments) == 0 {
		return nil, nil
	}

	var skippedIDs []uuid.UUID

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, amount := range increments {
			result := tx.Model(&entity.MedicineLot{}).
				Where("id = ?", id).
				Update("quantity", gorm.Expr("quantity + ?", amount))

			if result.Error != nil {
				return result.Error
			}

			if result.RowsAffected == 0 {
				skippedIDs = append(skippedIDs, id)
			}
		}
		return nil
	})

	return skippedIDs, err
}

// AtomicDecrement decrements one lot only if enough stock remains
func (r *medicineRepository) AtomicDecrement(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.MedicineLot{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
