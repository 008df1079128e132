package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		paid  int64
		want  PaymentStatus
	}{
		{"nothing paid", 30000, 0, PaymentStatusUnpaid},
		{"partially paid", 30000, 10000, PaymentStatusPartial},
		{"fully paid", 30000, 30000, PaymentStatusPaid},
		{"overpaid still paid", 30000, 40000, PaymentStatusPaid},
		{"zero total", 0, 0, PaymentStatusPaid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePaymentStatus(tt.total, tt.paid))
		})
	}
}

func TestPaymentStatusString(t *testing.T) {
	assert.Equal(t, "Unpaid", PaymentStatusUnpaid.String())
	assert.Equal(t, "Partial", PaymentStatusPartial.String())
	assert.Equal(t, "Paid", PaymentStatusPaid.String())
	assert.Equal(t, "Unpaid", PaymentStatus(99).String())
}

func TestCustomerEntrySign(t *testing.T) {
	assert.Equal(t, int64(1), CustomerEntryCredit.Sign())
	assert.Equal(t, int64(-1), CustomerEntryPayment.Sign())
}

func TestSupplierEntrySign(t *testing.T) {
	assert.Equal(t, int64(1), SupplierEntryPurchase.Sign())
	assert.Equal(t, int64(-1), SupplierEntryPayment.Sign())
	assert.Equal(t, int64(-1), SupplierEntryReturn.Sign())
}

func TestEntryTypeValid(t *testing.T) {
	assert.True(t, CustomerEntryCredit.Valid())
	assert.False(t, CustomerEntryType("Refund").Valid())
	assert.True(t, SupplierEntryReturn.Valid())
	assert.False(t, SupplierEntryType("Discount").Valid())
}
