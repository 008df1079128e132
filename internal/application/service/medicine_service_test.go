package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMedicine(t *testing.T) {
	env := newTestEnv(t)

	lot, err := env.medicine.AddMedicine(env.tenantCtx, &MedicineInput{
		Name:          "Paracetamol 500mg",
		BatchNumber:   "PCM-2026-01",
		ExpiryDate:    time.Now().AddDate(1, 0, 0),
		MRP:           12.50,
		SupplierPrice: 8,
		Price:         10,
		Quantity:      100,
	})
	require.NoError(t, err)

	assert.Equal(t, env.tenant.ID, lot.PharmacyID)
	assert.Equal(t, int64(1250), lot.MRP)
	assert.Equal(t, int64(800), lot.SupplierPrice)
	assert.Equal(t, int64(1000), lot.Price)
	assert.Equal(t, 10, lot.MinStockLevel) // default threshold
}

func TestAddMedicine_UnknownSupplier(t *testing.T) {
	env := newTestEnv(t)

	bogus := uuid.New()
	_, err := env.medicine.AddMedicine(env.tenantCtx, &MedicineInput{
		Name:        "Cetirizine",
		BatchNumber: "CTZ-01",
		ExpiryDate:  time.Now().AddDate(1, 0, 0),
		Price:       5,
		Quantity:    10,
		SupplierID:  &bogus,
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestBulkAddMedicines_RecordsPurchase(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.addSupplier(t, env.tenant.ID, "MediDist Pvt Ltd")

	lots, err := env.medicine.BulkAddMedicines(env.tenantCtx, &BulkAddInput{
		SupplierID:    &supplier.ID,
		InvoiceNumber: "INV-4471",
		Items: []MedicineInput{
			{Name: "Paracetamol", BatchNumber: "P1", ExpiryDate: time.Now().AddDate(1, 0, 0), SupplierPrice: 8, Price: 10, Quantity: 100},
			{Name: "Ibuprofen", BatchNumber: "I1", ExpiryDate: time.Now().AddDate(1, 0, 0), SupplierPrice: 12, Price: 15, Quantity: 50},
		},
	})
	require.NoError(t, err)
	require.Len(t, lots, 2)

	for _, lot := range lots {
		require.NotNil(t, lot.SupplierID)
		assert.Equal(t, supplier.ID, *lot.SupplierID)
		require.NotNil(t, lot.InvoiceNumber)
		assert.Equal(t, "INV-4471", *lot.InvoiceNumber)
	}

	// the delivery's cost value lands on the supplier ledger as one Purchase
	var entries []entity.SupplierLedgerEntry
	require.NoError(t, env.db.Where("supplier_id = ?", supplier.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, enum.SupplierEntryPurchase, entries[0].Type)
	assert.Equal(t, int64(100*800+50*1200), entries[0].Amount)
}

func TestBulkAddMedicines_NoSupplierNoLedger(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.medicine.BulkAddMedicines(env.tenantCtx, &BulkAddInput{
		Items: []MedicineInput{
			{Name: "Paracetamol", BatchNumber: "P2", ExpiryDate: time.Now().AddDate(1, 0, 0), SupplierPrice: 8, Price: 10, Quantity: 10},
		},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&entity.SupplierLedgerEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetMedicine_TenantOwnership(t *testing.T) {
	env := newTestEnv(t)
	other := env.createPharmacy(t, "Other Pharmacy", "DL-010")
	lot := env.addLot(t, other.ID, "Cetirizine", 30, 10)

	_, err := env.medicine.GetMedicine(env.tenantCtx, lot.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.GetAppError(err).Code)

	_, err = env.medicine.GetMedicine(env.tenantCtx, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestLowStock(t *testing.T) {
	env := newTestEnv(t)
	env.addLot(t, env.tenant.ID, "Plenty", 10, 500)
	low := env.addLot(t, env.tenant.ID, "Scarce", 10, 5)

	lots, err := env.medicine.LowStock(env.tenantCtx)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, low.ID, lots[0].ID)
}

func TestExpiringSoon(t *testing.T) {
	env := newTestEnv(t)
	soon := env.addLotExpiring(t, env.tenant.ID, "Short Dated", 10, 50, time.Now().AddDate(0, 0, 10))
	env.addLotExpiring(t, env.tenant.ID, "Long Dated", 10, 50, time.Now().AddDate(2, 0, 0))

	lots, err := env.medicine.ExpiringSoon(env.tenantCtx, 30*24*time.Hour)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.Equal(t, soon.ID, lots[0].ID)
}

func TestRestore_SkipsVanishedLot(t *testing.T) {
	env := newTestEnv(t)
	kept := env.addLot(t, env.tenant.ID, "Kept", 10, 5)
	doomed := env.addLot(t, env.tenant.ID, "Doomed", 10, 5)
	require.NoError(t, env.medicine.DeleteMedicine(env.tenantCtx, doomed.ID))

	// restoring both must top up the surviving lot and skip the deleted one
	err := env.medicine.Restore(env.tenantCtx, map[uuid.UUID]int{
		kept.ID:   3,
		doomed.ID: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, env.lotQuantity(t, kept.ID))
}

func TestAdjust_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Amoxicillin", 50, 4)

	err := env.medicine.Adjust(env.tenantCtx, lot.ID, 6)
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for Amoxicillin. Available: 4", err.Error())
	assert.Equal(t, 4, env.lotQuantity(t, lot.ID))
}
