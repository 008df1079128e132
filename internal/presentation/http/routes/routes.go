package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rxledger/pharmacy-api/internal/config"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	domainRepo "github.com/rxledger/pharmacy-api/internal/domain/repository"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/handler"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/middleware"
	"github.com/rxledger/pharmacy-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Pharmacy  *handler.PharmacyHandler
	Medicine  *handler.MedicineHandler
	Bill      *handler.BillHandler
	Return    *handler.ReturnHandler
	Customer  *handler.CustomerHandler
	Supplier  *handler.SupplierHandler
	Dashboard *handler.DashboardHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.TenantMiddleware())

		// Per-pharmacy rate limiter
		rateLimiter := middleware.NewTenantRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.Profile)

	// Super admin routes; no tenant required
	registerAdminRoutes(protected, h)

	// Everything below operates on one pharmacy's data
	tenant := protected.Group("")
	tenant.Use(middleware.RequireTenant())

	tenant.GET("/dashboard", h.Dashboard.Stats)

	registerMedicineRoutes(tenant, h)
	registerBillRoutes(tenant, h, deps)
	registerReturnRoutes(tenant, h)
	registerCustomerRoutes(tenant, h)
	registerSupplierRoutes(tenant, h)
}

func registerAdminRoutes(protected *gin.RouterGroup, h *Handlers) {
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(enum.RoleSuperAdmin))
	{
		admin.GET("/pharmacies", h.Pharmacy.List)
		admin.PUT("/pharmacies/:id/status", h.Pharmacy.UpdateStatus)
	}
}

func registerMedicineRoutes(tenant *gin.RouterGroup, h *Handlers) {
	medicines := tenant.Group("/medicines")
	{
		medicines.GET("", h.Medicine.List)
		medicines.POST("", h.Medicine.Create)
		medicines.POST("/bulk", h.Medicine.BulkCreate)
		medicines.GET("/low-stock", h.Medicine.LowStock)
		medicines.GET("/expiring", h.Medicine.Expiring)
		medicines.GET("/:id", h.Medicine.Get)
		medicines.PUT("/:id", h.Medicine.Update)
		medicines.DELETE("/:id", h.Medicine.Delete)
	}
}

func registerBillRoutes(tenant *gin.RouterGroup, h *Handlers, deps *Deps) {
	bills := tenant.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		// Bill creation decrements stock; retries must replay, not re-run
		bills.POST("", middleware.IdempotencyRequired(deps.IdempotencyRepo), h.Bill.Create)
		bills.GET("/customer/:mobile", h.Bill.ListByCustomer)
		bills.GET("/:id", h.Bill.Get)
		bills.POST("/:id/settle", h.Bill.Settle)
		bills.DELETE("/:id", h.Bill.Delete)
	}
}

func registerReturnRoutes(tenant *gin.RouterGroup, h *Handlers) {
	returns := tenant.Group("/returns")
	{
		returns.GET("", h.Return.List)
		returns.POST("", h.Return.Create)
	}
}

func registerCustomerRoutes(tenant *gin.RouterGroup, h *Handlers) {
	customers := tenant.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.POST("/transactions", h.Customer.AddTransaction)
		customers.GET("/:id/ledger", h.Customer.Ledger)
		customers.GET("/:id/due", h.Customer.Due)
	}
}

func registerSupplierRoutes(tenant *gin.RouterGroup, h *Handlers) {
	suppliers := tenant.Group("/suppliers")
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.POST("/transactions", h.Supplier.AddTransaction)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
		suppliers.GET("/:id/ledger", h.Supplier.Ledger)
		suppliers.GET("/:id/balance", h.Supplier.Balance)
	}
}
