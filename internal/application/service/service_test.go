package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	infraRepo "github.com/rxledger/pharmacy-api/internal/infrastructure/repository"
	"github.com/rxledger/pharmacy-api/pkg/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories against an in-memory database so service
// tests exercise the actual SQL, including the conditional stock updates.
type testEnv struct {
	db *gorm.DB

	medicine  *MedicineService
	billing   *BillingService
	returns   *ReturnService
	customers *CustomerService
	suppliers *SupplierService
	dashboard *DashboardService
	auth      *AuthService
	pharmacy  *PharmacyService

	tenant    *entity.Pharmacy
	tenantCtx context.Context
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps concurrent writers serialized the way a
	// real server's row locks would
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Pharmacy{},
		&entity.MedicineLot{},
		&entity.Supplier{},
		&entity.Customer{},
		&entity.Bill{},
		&entity.BillItem{},
		&entity.CustomerLedgerEntry{},
		&entity.SupplierLedgerEntry{},
		&entity.ReturnRecord{},
		&entity.IdempotencyKey{},
	))

	userRepo := infraRepo.NewUserRepository(db)
	pharmacyRepo := infraRepo.NewPharmacyRepository(db)
	medicineRepo := infraRepo.NewMedicineRepository(db)
	billRepo := infraRepo.NewBillRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	supplierRepo := infraRepo.NewSupplierRepository(db)
	customerLedgerRepo := infraRepo.NewCustomerLedgerRepository(db)
	supplierLedgerRepo := infraRepo.NewSupplierLedgerRepository(db)
	returnRepo := infraRepo.NewReturnRepository(db)
	analyticsRepo := infraRepo.NewAnalyticsRepository(db)

	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)

	medicineService := NewMedicineService(medicineRepo, supplierRepo, supplierLedgerRepo)

	env := &testEnv{
		db:        db,
		medicine:  medicineService,
		billing:   NewBillingService(billRepo, pharmacyRepo, medicineService),
		returns:   NewReturnService(returnRepo, medicineRepo, medicineService),
		customers: NewCustomerService(customerRepo, customerLedgerRepo, billRepo),
		suppliers: NewSupplierService(supplierRepo, supplierLedgerRepo),
		dashboard: NewDashboardService(analyticsRepo, 30),
		auth:      NewAuthService(userRepo, pharmacyRepo, jwtManager),
		pharmacy:  NewPharmacyService(pharmacyRepo),
	}

	env.tenant = env.createPharmacy(t, "City Medicos", "DL-001")
	env.tenantCtx = infraRepo.WithTenant(context.Background(), env.tenant.ID)
	return env
}

func (e *testEnv) createPharmacy(t *testing.T, name, license string) *entity.Pharmacy {
	t.Helper()

	ownerID := uuid.New()
	pharmacy := &entity.Pharmacy{
		ID:            uuid.New(),
		Name:          name,
		Address:       "12 Main Road",
		LicenseNumber: license,
		ContactNumber: "9000000000",
		GSTNumber:     "22AAAAA0000A1Z5",
		OwnerID:       ownerID,
		Status:        enum.PharmacyStatusApproved,
	}
	require.NoError(t, e.db.Create(pharmacy).Error)
	return pharmacy
}

// ctxFor returns a request context scoped to the given pharmacy
func (e *testEnv) ctxFor(pharmacyID uuid.UUID) context.Context {
	return infraRepo.WithTenant(context.Background(), pharmacyID)
}

// addLot inserts a lot directly, defaulting to a one-year shelf life
func (e *testEnv) addLot(t *testing.T, pharmacyID uuid.UUID, name string, priceRupees float64, quantity int) *entity.MedicineLot {
	t.Helper()
	return e.addLotExpiring(t, pharmacyID, name, priceRupees, quantity, time.Now().AddDate(1, 0, 0))
}

func (e *testEnv) addLotExpiring(t *testing.T, pharmacyID uuid.UUID, name string, priceRupees float64, quantity int, expiry time.Time) *entity.MedicineLot {
	t.Helper()

	lot := &entity.MedicineLot{
		PharmacyID:    pharmacyID,
		Name:          name,
		BatchNumber:   "B-" + uuid.New().String()[:6],
		ExpiryDate:    expiry,
		MRP:           utils.Cents(priceRupees),
		SupplierPrice: utils.Cents(priceRupees / 2),
		Price:         utils.Cents(priceRupees),
		Quantity:      quantity,
		MinStockLevel: 10,
	}
	require.NoError(t, e.db.Create(lot).Error)
	return lot
}

func (e *testEnv) addSupplier(t *testing.T, pharmacyID uuid.UUID, name string) *entity.Supplier {
	t.Helper()

	supplier := &entity.Supplier{
		PharmacyID:    pharmacyID,
		Name:          name,
		ContactNumber: "9111111111",
	}
	require.NoError(t, e.db.Create(supplier).Error)
	return supplier
}

func (e *testEnv) lotQuantity(t *testing.T, lotID uuid.UUID) int {
	t.Helper()

	var lot entity.MedicineLot
	require.NoError(t, e.db.First(&lot, "id = ?", lotID).Error)
	return lot.Quantity
}
