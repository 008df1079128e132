package service

import (
	"testing"
	"time"

	"github.com/rxledger/pharmacy-api/internal/domain/entity"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReturnToSupplier_CreditsLedger(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.addSupplier(t, env.tenant.ID, "MediDist Pvt Ltd")

	lot := &entity.MedicineLot{
		PharmacyID:    env.tenant.ID,
		Name:          "Paracetamol 500mg",
		BatchNumber:   "PCM-2025-11",
		ExpiryDate:    time.Now().AddDate(0, 1, 0),
		MRP:           7500,
		SupplierPrice: 5000, // 50 rupees cost
		Price:         6000,
		Quantity:      10,
		SupplierID:    &supplier.ID,
		MinStockLevel: 10,
	}
	require.NoError(t, env.db.Create(lot).Error)

	record, err := env.returns.ReturnToSupplier(env.tenantCtx, &ReturnInput{
		MedicineLotID: lot.ID,
		Quantity:      2,
		Reason:        "Damaged",
	})
	require.NoError(t, err)

	assert.Equal(t, lot.Name, record.MedicineName)
	assert.Equal(t, lot.BatchNumber, record.BatchNumber)
	assert.Equal(t, 2, record.Quantity)
	assert.Equal(t, "Damaged", record.Reason)
	require.NotNil(t, record.SupplierID)
	assert.Equal(t, supplier.ID, *record.SupplierID)

	assert.Equal(t, 8, env.lotQuantity(t, lot.ID))

	// two units at the 50 rupee cost price credit the supplier with 100
	var entries []entity.SupplierLedgerEntry
	require.NoError(t, env.db.Where("supplier_id = ?", supplier.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, enum.SupplierEntryReturn, entries[0].Type)
	assert.Equal(t, int64(10000), entries[0].Amount)
}

func TestReturnToSupplier_NoSupplierStillRecorded(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "House Brand Syrup", 40, 6)

	record, err := env.returns.ReturnToSupplier(env.tenantCtx, &ReturnInput{
		MedicineLotID: lot.ID,
		Quantity:      3,
	})
	require.NoError(t, err)
	assert.Nil(t, record.SupplierID)
	assert.Equal(t, "Expired", record.Reason) // default reason
	assert.Equal(t, 3, env.lotQuantity(t, lot.ID))

	var count int64
	require.NoError(t, env.db.Model(&entity.SupplierLedgerEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReturnToSupplier_QuantityTooLarge(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Ibuprofen", 30, 5)

	_, err := env.returns.ReturnToSupplier(env.tenantCtx, &ReturnInput{
		MedicineLotID: lot.ID,
		Quantity:      8,
	})
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for Ibuprofen. Available: 5", err.Error())
	assert.Equal(t, 5, env.lotQuantity(t, lot.ID))
}

func TestReturnToSupplier_CrossTenant(t *testing.T) {
	env := newTestEnv(t)
	other := env.createPharmacy(t, "Other Pharmacy", "DL-020")
	lot := env.addLot(t, other.ID, "Cetirizine", 30, 10)

	_, err := env.returns.ReturnToSupplier(env.tenantCtx, &ReturnInput{
		MedicineLotID: lot.ID,
		Quantity:      1,
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperror.GetAppError(err).Code)
}

func TestListReturns(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Pantoprazole", 60, 10)

	for i := 0; i < 2; i++ {
		_, err := env.returns.ReturnToSupplier(env.tenantCtx, &ReturnInput{
			MedicineLotID: lot.ID,
			Quantity:      1,
		})
		require.NoError(t, err)
	}

	records, err := env.returns.ListReturns(env.tenantCtx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	// another tenant sees none of them
	other := env.createPharmacy(t, "Other Pharmacy", "DL-021")
	records, err = env.returns.ListReturns(env.ctxFor(other.ID))
	require.NoError(t, err)
	assert.Empty(t, records)
}
