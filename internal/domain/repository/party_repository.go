package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	// GetByName looks up a tenant-scoped customer by its uppercased name
	GetByName(ctx context.Context, name string) (*entity.Customer, error)
	// List returns all tenant-scoped customers
	List(ctx context.Context) ([]entity.Customer, error)
}

// SupplierRepository defines the interface for supplier data operations
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns all tenant-scoped suppliers
	List(ctx context.Context) ([]entity.Supplier, error)
}
