package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBill_CounterSale(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Paracetamol 500mg", 100, 10)

	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName:   "Ravi",
		CustomerMobile: "9876543210",
		Items:          []BillItemInput{{MedicineLotID: lot.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30000), bill.SubTotal)
	assert.Equal(t, int64(30000), bill.TotalAmount)
	assert.Equal(t, int64(1429), bill.TaxAmount)
	assert.Equal(t, int64(30000), bill.PaidAmount)
	assert.Equal(t, int64(0), bill.BalanceAmount)
	assert.Equal(t, enum.PaymentStatusPaid, bill.PaymentStatus)
	assert.Equal(t, env.tenant.Name, bill.PharmacyName)
	assert.Equal(t, env.tenant.GSTNumber, bill.GSTNumber)

	require.Len(t, bill.Items, 1)
	assert.Equal(t, lot.Name, bill.Items[0].Name)
	assert.Equal(t, lot.BatchNumber, bill.Items[0].BatchNumber)
	assert.Equal(t, int64(10000), bill.Items[0].Price)
	assert.Equal(t, int64(30000), bill.Items[0].Amount)

	assert.Equal(t, 7, env.lotQuantity(t, lot.ID))
}

func TestCreateBill_InsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Amoxicillin 250mg", 50, 10)

	_, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 15}},
	})
	require.Error(t, err)
	assert.Equal(t, "Insufficient stock for Amoxicillin 250mg. Available: 10", err.Error())

	// the failed sale must not touch stock
	assert.Equal(t, 10, env.lotQuantity(t, lot.ID))
}

func TestCreateBill_ExpiredLot(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLotExpiring(t, env.tenant.ID, "Old Syrup", 80, 5, time.Now().AddDate(0, 0, -1))

	_, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lot expired")
	assert.Equal(t, 5, env.lotQuantity(t, lot.ID))
}

func TestCreateBill_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{CustomerName: "Ravi"})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestCreateBill_CrossTenantLot(t *testing.T) {
	env := newTestEnv(t)
	other := env.createPharmacy(t, "Other Pharmacy", "DL-002")
	lot := env.addLot(t, other.ID, "Cetirizine", 30, 10)

	_, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, 403, apperror.GetAppError(err).Code)
	assert.Equal(t, 10, env.lotQuantity(t, lot.ID))
}

func TestCreateBill_DiscountAndPartialPayment(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Ibuprofen 400mg", 100, 10)

	paid := 100.0
	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName:   "Sita",
		CustomerMobile: "9000000001",
		Paid:           &paid,
		Items:          []BillItemInput{{MedicineLotID: lot.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(30000), bill.TotalAmount)
	assert.Equal(t, int64(10000), bill.PaidAmount)
	assert.Equal(t, int64(20000), bill.BalanceAmount)
	assert.Equal(t, enum.PaymentStatusPartial, bill.PaymentStatus)

	// balance always equals total minus paid, floored at zero
	assert.Equal(t, bill.TotalAmount-bill.PaidAmount, bill.BalanceAmount)
}

func TestSettleBill_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Azithromycin", 100, 10)

	paid := 100.0
	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName:   "Sita",
		CustomerMobile: "9000000001",
		Paid:           &paid,
		Items:          []BillItemInput{{MedicineLotID: lot.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(20000), bill.BalanceAmount)

	bill, err = env.billing.SettleBill(env.tenantCtx, bill.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, int64(25000), bill.PaidAmount)
	assert.Equal(t, int64(5000), bill.BalanceAmount)
	assert.Equal(t, enum.PaymentStatusPartial, bill.PaymentStatus)

	bill, err = env.billing.SettleBill(env.tenantCtx, bill.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bill.BalanceAmount)
	assert.Equal(t, enum.PaymentStatusPaid, bill.PaymentStatus)

	_, err = env.billing.SettleBill(env.tenantCtx, bill.ID, 10)
	require.Error(t, err)
	assert.Equal(t, "Bill is already fully paid", err.Error())
}

func TestSettleBill_OverpaymentClamped(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Metformin", 100, 10)

	paid := 250.0
	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Sita",
		Paid:         &paid,
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(5000), bill.BalanceAmount)

	bill, err = env.billing.SettleBill(env.tenantCtx, bill.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), bill.PaidAmount)
	assert.Equal(t, int64(0), bill.BalanceAmount)
	assert.Equal(t, enum.PaymentStatusPaid, bill.PaymentStatus)
}

func TestSettleBill_InvalidAmount(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.billing.SettleBill(env.tenantCtx, uuid.New(), 0)
	require.Error(t, err)
	assert.Equal(t, "Payment amount must be greater than zero", err.Error())
}

func TestDeleteBill_RestoresStock(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Pantoprazole", 60, 10)

	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, env.lotQuantity(t, lot.ID))

	require.NoError(t, env.billing.DeleteBill(env.tenantCtx, bill.ID))
	assert.Equal(t, 10, env.lotQuantity(t, lot.ID))

	_, err = env.billing.GetBill(env.tenantCtx, bill.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestGetBill_CrossTenant(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Cough Syrup", 90, 10)

	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	other := env.createPharmacy(t, "Other Pharmacy", "DL-003")
	_, err = env.billing.GetBill(env.ctxFor(other.ID), bill.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.GetAppError(err).Code)
}

func TestCreateBill_ConcurrentSalesNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Insulin", 400, 10)

	// Two sales of 7 against a stock of 10: exactly one can win
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
				CustomerName: "Ravi",
				Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 7}},
			})
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.Contains(t, err.Error(), "Insufficient stock")
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, 3, env.lotQuantity(t, lot.ID))
}

func TestSettleBill_ConcurrentPaymentsAllLand(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Atorvastatin", 1000, 10)

	paid := 0.0
	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Paid:         &paid,
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(100000), bill.BalanceAmount)

	// 40 payments of 10 against a 1000 rupee balance: every one must land
	var wg sync.WaitGroup
	errs := make([]error, 40)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.billing.SettleBill(env.tenantCtx, bill.ID, 10)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	final, err := env.billing.GetBill(env.tenantCtx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40000), final.PaidAmount)
	assert.Equal(t, int64(60000), final.BalanceAmount)
	assert.Equal(t, enum.PaymentStatusPartial, final.PaymentStatus)
}

func TestSettleBill_ConcurrentFinalPayment(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Losartan", 100, 10)

	paid := 250.0
	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Paid:         &paid,
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(5000), bill.BalanceAmount)

	// Two payments racing for the last 50: one settles, one sees a paid bill
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.billing.SettleBill(env.tenantCtx, bill.ID, 50)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.Equal(t, "Bill is already fully paid", err.Error())
		}
	}
	assert.Equal(t, 1, failures)

	final, err := env.billing.GetBill(env.tenantCtx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), final.PaidAmount)
	assert.Equal(t, int64(0), final.BalanceAmount)
	assert.Equal(t, enum.PaymentStatusPaid, final.PaymentStatus)
}

func TestDeleteBill_ConcurrentDeletesRestoreOnce(t *testing.T) {
	env := newTestEnv(t)
	lot := env.addLot(t, env.tenant.ID, "Cefixime", 80, 10)

	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName: "Ravi",
		Items:        []BillItemInput{{MedicineLotID: lot.ID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, env.lotQuantity(t, lot.ID))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = env.billing.DeleteBill(env.tenantCtx, bill.ID)
		}(i)
	}
	wg.Wait()

	// exactly one deletion wins; the loser must not restore a second time
	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.Equal(t, 404, apperror.GetAppError(err).Code)
		}
	}
	assert.Equal(t, 1, failures)
	assert.Equal(t, 10, env.lotQuantity(t, lot.ID))
}

func TestIncludedTax(t *testing.T) {
	tests := []struct {
		name       string
		grandTotal int64
		want       int64
	}{
		{"three hundred rupees", 30000, 1429},
		{"one hundred rupees", 10000, 476},
		{"zero", 0, 0},
		{"one paisa", 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IncludedTax(tt.grandTotal))
		})
	}
}

func TestDateRangeFromQuery(t *testing.T) {
	start, end, err := DateRangeFromQuery("2026-08-01", "2026-08-27")
	require.NoError(t, err)
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *start)
	// the end bound is exclusive, covering the whole last day
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), *end)

	_, _, err = DateRangeFromQuery("27-08-2026", "")
	require.Error(t, err)

	start, end, err = DateRangeFromQuery("", "")
	require.NoError(t, err)
	assert.Nil(t, start)
	assert.Nil(t, end)
}
