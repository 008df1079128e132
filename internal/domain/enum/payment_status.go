package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentStatus represents how much of a bill has been paid
type PaymentStatus int

const (
	PaymentStatusUnpaid  PaymentStatus = 0
	PaymentStatusPartial PaymentStatus = 1
	PaymentStatusPaid    PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	names := [...]string{"Unpaid", "Partial", "Paid"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Unpaid"
	}
	return names[s]
}

// DerivePaymentStatus computes the status from total and paid amounts in paise.
// The status is fully determined by this pair: Paid when nothing is left,
// Unpaid when nothing was paid, Partial otherwise.
func DerivePaymentStatus(totalAmount, paidAmount int64) PaymentStatus {
	balance := totalAmount - paidAmount
	if balance <= 0 {
		return PaymentStatusPaid
	}
	if paidAmount == 0 {
		return PaymentStatusUnpaid
	}
	return PaymentStatusPartial
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PaymentStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = PaymentStatus(i)
		return nil
	}
	switch str {
	case "Unpaid":
		*s = PaymentStatusUnpaid
	case "Partial":
		*s = PaymentStatusPartial
	case "Paid":
		*s = PaymentStatusPaid
	}
	return nil
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *PaymentStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PaymentStatusUnpaid
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = PaymentStatus(v)
	case int:
		*s = PaymentStatus(v)
	}
	return nil
}
