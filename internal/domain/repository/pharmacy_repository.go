package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
)

// PharmacyRepository defines the interface for pharmacy (tenant) operations
type PharmacyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Pharmacy, error)
	GetByLicense(ctx context.Context, licenseNumber string) (*entity.Pharmacy, error)
	Update(ctx context.Context, pharmacy *entity.Pharmacy) error
	// List returns pharmacies, optionally filtered by status (super admin view)
	List(ctx context.Context, status *enum.PharmacyStatus) ([]entity.Pharmacy, error)
	// CreateWithOwner persists the pharmacy and its admin user in one
	// transaction. Both IDs are pre-generated by the caller so neither row
	// needs a corrective second write.
	CreateWithOwner(ctx context.Context, pharmacy *entity.Pharmacy, owner *entity.User) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context) error
}
