package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CustomerEntryType tags a manual customer ledger entry.
// Credit increases what the customer owes, Payment decreases it.
type CustomerEntryType string

const (
	CustomerEntryCredit  CustomerEntryType = "Credit"
	CustomerEntryPayment CustomerEntryType = "Payment"
)

// Valid reports whether the value is a known entry type
func (t CustomerEntryType) Valid() bool {
	return t == CustomerEntryCredit || t == CustomerEntryPayment
}

// Sign maps the entry type to its effect on the customer's outstanding due.
// Summation logic must go through this mapping, never compare strings inline.
func (t CustomerEntryType) Sign() int64 {
	if t == CustomerEntryPayment {
		return -1
	}
	return 1
}

func (t CustomerEntryType) String() string { return string(t) }

func (t CustomerEntryType) Value() (driver.Value, error) { return string(t), nil }

func (t *CustomerEntryType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = CustomerEntryType(v)
	case []byte:
		*t = CustomerEntryType(string(v))
	}
	return nil
}

// SupplierEntryType tags a supplier ledger entry. Purchase increases the
// payable balance; Payment and Return both decrease it.
type SupplierEntryType string

const (
	SupplierEntryPurchase SupplierEntryType = "Purchase"
	SupplierEntryPayment  SupplierEntryType = "Payment"
	SupplierEntryReturn   SupplierEntryType = "Return"
)

// Valid reports whether the value is a known entry type
func (t SupplierEntryType) Valid() bool {
	return t == SupplierEntryPurchase || t == SupplierEntryPayment || t == SupplierEntryReturn
}

// Sign maps the entry type to its effect on the net payable balance
func (t SupplierEntryType) Sign() int64 {
	if t == SupplierEntryPurchase {
		return 1
	}
	return -1
}

func (t SupplierEntryType) String() string { return string(t) }

func (t SupplierEntryType) Value() (driver.Value, error) { return string(t), nil }

func (t *SupplierEntryType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*t = SupplierEntryType(v)
	case []byte:
		*t = SupplierEntryType(string(v))
	}
	return nil
}

func (t CustomerEntryType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *CustomerEntryType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = CustomerEntryType(str)
	return nil
}

func (t SupplierEntryType) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *SupplierEntryType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*t = SupplierEntryType(str)
	return nil
}
