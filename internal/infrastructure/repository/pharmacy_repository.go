package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	domainRepo "github.com/rxledger/pharmacy-api/internal/domain/repository"
	"gorm.io/gorm"
)

type pharmacyRepository struct {
	db *gorm.DB
}

// NewPharmacyRepository creates a new pharmacy repository
func NewPharmacyRepository(db *gorm.DB) domainRepo.PharmacyRepository {
	return &pharmacyRepository{db: db}
}

func (r *pharmacyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Pharmacy, error) {
	var pharmacy entity.Pharmacy
	err := r.db.WithContext(ctx).First(&pharmacy, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pharmacy, err
}

func (r *pharmacyRepository) GetByLicense(ctx context.Context, licenseNumber string) (*entity.Pharmacy, error) {
	var pharmacy entity.Pharmacy
	err := r.db.WithContext(ctx).First(&pharmacy, "license_number = ?", licenseNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &pharmacy, err
}

func (r *pharmacyRepository) Update(ctx context.Context, pharmacy *entity.Pharmacy) error {
	return r.db.WithContext(ctx).Save(pharmacy).Error
}

func (r *pharmacyRepository) List(ctx context.Context, status *enum.PharmacyStatus) ([]entity.Pharmacy, error) {
	var pharmacies []entity.Pharmacy
	query := r.db.WithContext(ctx).Model(&entity.Pharmacy{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at DESC").Find(&pharmacies).Error
	return pharmacies, err
}

// CreateWithOwner persists both rows in one transaction. The caller has
// already pre-generated both IDs and cross-linked them, so no second
// corrective write is needed. The pharmacy goes in first: the owner's
// pharmacy_id carries a foreign key, while pharmacies.owner_id does not.
func (r *pharmacyRepository) CreateWithOwner(ctx context.Context, pharmacy *entity.Pharmacy, owner *entity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pharmacy).Error; err != nil {
			return err
		}
		return tx.Create(owner).Error
	})
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
