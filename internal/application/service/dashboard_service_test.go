package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	env := newTestEnv(t)

	// low stock lot and one expiring inside the 30 day window
	env.addLot(t, env.tenant.ID, "Scarce", 20, 2)
	env.addLotExpiring(t, env.tenant.ID, "Short Dated", 20, 200, time.Now().AddDate(0, 0, 15))

	// today's sale of 200 with 50 unpaid
	lot := env.addLot(t, env.tenant.ID, "Paracetamol", 100, 50)
	paid := 150.0
	_, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Paid:         &paid,
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	stats, err := env.dashboard.GetStats(env.tenantCtx)
	require.NoError(t, err)

	assert.Equal(t, int64(1), stats.TodayBillCount)
	assert.Equal(t, 200.0, stats.TodaySales)
	assert.Equal(t, 50.0, stats.OutstandingDues)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(1), stats.ExpiringSoonCount)

	// a second tenant starts from zero
	other := env.createPharmacy(t, "Other Pharmacy", "DL-050")
	stats, err = env.dashboard.GetStats(env.ctxFor(other.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TodayBillCount)
	assert.Equal(t, 0.0, stats.TodaySales)
}
