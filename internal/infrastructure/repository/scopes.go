package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// TenantIDKey is the context key for the caller's pharmacy ID
	TenantIDKey ctxKey = "pharmacy_id"
	// SkipTenantScopeKey is the context key for skipping tenant scope (super admin)
	SkipTenantScopeKey ctxKey = "skip_tenant_scope"
)

// TenantScope returns a GORM scope that filters by the caller's pharmacy.
// Applied to every query over tenant-scoped entities. If the tenant is
// missing from the context the query matches nothing: a lost tenant must
// never widen into a cross-tenant read.
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if skip, ok := ctx.Value(SkipTenantScopeKey).(bool); ok && skip {
			return db
		}

		pharmacyID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
		if !ok {
			return db.Where("1 = 0")
		}
		return db.Where("pharmacy_id = ?", pharmacyID)
	}
}

// WithSkipTenantScope adds the skip flag to context (super admin views)
func WithSkipTenantScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipTenantScopeKey, skip)
}

// WithTenant adds the pharmacy ID to context
func WithTenant(ctx context.Context, pharmacyID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, pharmacyID)
}

// GetTenantID extracts the pharmacy ID from context
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	pharmacyID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return pharmacyID, ok
}
