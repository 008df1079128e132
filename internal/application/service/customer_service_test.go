package service

import (
	"testing"
	"time"

	"github.com/rxledger/pharmacy-api/internal/domain/enum"
	"github.com/rxledger/pharmacy-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCustomer_UppercasesName(t *testing.T) {
	env := newTestEnv(t)

	customer, err := env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{
		Name:   "  ravi kumar ",
		Mobile: "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "RAVI KUMAR", customer.Name)
}

func TestAddCustomer_DuplicateNeedsForce(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{Name: "Ravi Kumar"})
	require.NoError(t, err)

	// the duplicate check is case-insensitive because names are stored uppercase
	_, err = env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{Name: "RAVI kumar"})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	dup, err := env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{Name: "Ravi Kumar", Force: true})
	require.NoError(t, err)
	assert.Equal(t, "RAVI KUMAR", dup.Name)
}

func TestAddEntry_Validation(t *testing.T) {
	env := newTestEnv(t)
	customer, err := env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{Name: "Sita"})
	require.NoError(t, err)

	_, err = env.customers.AddEntry(env.tenantCtx, &AddEntryInput{
		CustomerID: customer.ID,
		Type:       enum.CustomerEntryCredit,
		Amount:     0,
	})
	require.Error(t, err)
	assert.Equal(t, "Amount must be greater than zero", err.Error())

	_, err = env.customers.AddEntry(env.tenantCtx, &AddEntryInput{
		CustomerID: customer.ID,
		Type:       enum.CustomerEntryType("Refund"),
		Amount:     50,
	})
	require.Error(t, err)
	assert.Equal(t, 400, apperror.GetAppError(err).Code)
}

func TestTotalDue_CombinesBillsAndLedger(t *testing.T) {
	env := newTestEnv(t)
	customer, err := env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{
		Name:   "Ravi",
		Mobile: "9876543210",
	})
	require.NoError(t, err)

	// a 300 rupee bill with 100 paid leaves 200 outstanding
	lot := env.addLot(t, env.tenant.ID, "Paracetamol", 100, 10)
	paid := 100.0
	_, err = env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName:   "Ravi",
		CustomerMobile: "9876543210",
		Paid:           &paid,
		Items:          []BillItemInput{{MedicineLotID: lot.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	// a manual 80 credit and a 30 payment net to +50
	_, err = env.customers.AddEntry(env.tenantCtx, &AddEntryInput{
		CustomerID:  customer.ID,
		Type:        enum.CustomerEntryCredit,
		Amount:      80,
		Description: "Old khata balance",
	})
	require.NoError(t, err)
	_, err = env.customers.AddEntry(env.tenantCtx, &AddEntryInput{
		CustomerID:  customer.ID,
		Type:        enum.CustomerEntryPayment,
		Amount:      30,
		Description: "Cash received",
	})
	require.NoError(t, err)

	due, err := env.customers.TotalDue(env.tenantCtx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, due)
}

func TestListCustomers_FillsTotalDue(t *testing.T) {
	env := newTestEnv(t)
	customer, err := env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{Name: "Sita"})
	require.NoError(t, err)

	_, err = env.customers.AddEntry(env.tenantCtx, &AddEntryInput{
		CustomerID: customer.ID,
		Type:       enum.CustomerEntryCredit,
		Amount:     120,
	})
	require.NoError(t, err)

	customers, err := env.customers.ListCustomers(env.tenantCtx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.NotNil(t, customers[0].TotalDue)
	assert.Equal(t, 120.0, *customers[0].TotalDue)
}

func TestHistory_MergesBillsAndEntriesNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	customer, err := env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{
		Name:   "Ravi",
		Mobile: "9876543210",
	})
	require.NoError(t, err)

	lot := env.addLot(t, env.tenant.ID, "Ibuprofen", 50, 10)
	paid := 0.0
	bill, err := env.billing.CreateBill(env.tenantCtx, &CreateBillInput{
		CustomerName:   "Ravi",
		CustomerMobile: "9876543210",
		Paid:           &paid,
		Items:          []BillItemInput{{MedicineLotID: lot.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	_, err = env.customers.AddEntry(env.tenantCtx, &AddEntryInput{
		CustomerID:  customer.ID,
		Type:        enum.CustomerEntryPayment,
		Amount:      40,
		Date:        time.Now().Add(time.Hour),
		Description: "Cash received",
	})
	require.NoError(t, err)

	lines, err := env.customers.History(env.tenantCtx, customer.ID)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// newest first: the payment is dated after the bill
	assert.Equal(t, "ledger", lines[0].Origin)
	assert.Equal(t, -40.0, lines[0].Amount)
	assert.Equal(t, "bill", lines[1].Origin)
	assert.Equal(t, 100.0, lines[1].Amount)
	assert.Equal(t, bill.BillNo, lines[1].Reference)
}

func TestGetCustomer_CrossTenant(t *testing.T) {
	env := newTestEnv(t)
	customer, err := env.customers.AddCustomer(env.tenantCtx, &AddCustomerInput{Name: "Ravi"})
	require.NoError(t, err)

	other := env.createPharmacy(t, "Other Pharmacy", "DL-030")
	_, err = env.customers.GetCustomer(env.ctxFor(other.ID), customer.ID)
	require.Error(t, err)
	assert.Equal(t, 403, apperror.GetAppError(err).Code)
}
