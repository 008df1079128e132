package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rxledger/pharmacy-api/internal/application/service"
	"github.com/rxledger/pharmacy-api/internal/config"
	"github.com/rxledger/pharmacy-api/internal/infrastructure/database"
	"github.com/rxledger/pharmacy-api/internal/infrastructure/repository"
	"github.com/rxledger/pharmacy-api/internal/jobs"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/handler"
	"github.com/rxledger/pharmacy-api/internal/presentation/http/routes"
	"github.com/rxledger/pharmacy-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Configure global logger
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.App.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.App.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Seed the super admin
	if err := database.SeedDefaultData(db); err != nil {
		log.Warn().Err(err).Msg("failed to seed default data")
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	pharmacyRepo := repository.NewPharmacyRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	billRepo := repository.NewBillRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerLedgerRepo := repository.NewCustomerLedgerRepository(db)
	supplierLedgerRepo := repository.NewSupplierLedgerRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, pharmacyRepo, jwtManager)
	pharmacyService := service.NewPharmacyService(pharmacyRepo)
	medicineService := service.NewMedicineService(medicineRepo, supplierRepo, supplierLedgerRepo)
	billingService := service.NewBillingService(billRepo, pharmacyRepo, medicineService)
	returnService := service.NewReturnService(returnRepo, medicineRepo, medicineService)
	customerService := service.NewCustomerService(customerRepo, customerLedgerRepo, billRepo)
	supplierService := service.NewSupplierService(supplierRepo, supplierLedgerRepo)
	dashboardService := service.NewDashboardService(analyticsRepo, cfg.Alerts.ExpiryWindowDays)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Pharmacy:  handler.NewPharmacyHandler(pharmacyService),
		Medicine:  handler.NewMedicineHandler(medicineService),
		Bill:      handler.NewBillHandler(billingService),
		Return:    handler.NewReturnHandler(returnService),
		Customer:  handler.NewCustomerHandler(customerService),
		Supplier:  handler.NewSupplierHandler(supplierService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Schedule the daily stock alert sweep
	alertJob := jobs.NewStockAlertJob(
		pharmacyRepo,
		medicineRepo,
		cfg.Alerts.CronSpec,
		cfg.Alerts.ExpiryWindowDays,
	)
	if err := alertJob.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule stock alert job")
	}
	defer alertJob.Stop()

	// Purge expired idempotency keys hourly
	cleanupJob := jobs.NewIdempotencyCleanupJob(idempotencyRepo, "")
	if err := cleanupJob.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule idempotency cleanup job")
	}
	defer cleanupJob.Stop()

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Info().
		Str("service", cfg.App.Name).
		Str("env", cfg.App.Env).
		Str("port", port).
		Msg("starting server")

	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
