package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	infraRepo "github.com/rxledger/pharmacy-api/internal/infrastructure/repository"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/dto/response"
)

// TenantMiddleware copies the caller's pharmacy ID from the JWT claims into
// the request context so repositories can scope every query. Super admins
// have no pharmacy; they pass through without a tenant and repositories
// fall back to the match-nothing scope unless explicitly skipped.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		pharmacyIDVal, exists := c.Get("pharmacy_id")
		if exists {
			if pharmacyID, ok := pharmacyIDVal.(uuid.UUID); ok && pharmacyID != uuid.Nil {
				ctx := infraRepo.WithTenant(c.Request.Context(), pharmacyID)
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}

// RequireTenant ensures the caller belongs to a pharmacy
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		pharmacyIDVal, exists := c.Get("pharmacy_id")
		if !exists {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}

		id, ok := pharmacyIDVal.(uuid.UUID)
		if !ok || id == uuid.Nil {
			response.BadRequest(c, "Invalid tenant context")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetPharmacyID retrieves the pharmacy ID from gin context
func GetPharmacyID(c *gin.Context) uuid.UUID {
	pharmacyIDVal, exists := c.Get("pharmacy_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := pharmacyIDVal.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}
