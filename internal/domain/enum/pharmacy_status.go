package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PharmacyStatus tracks the onboarding state of a pharmacy tenant
type PharmacyStatus string

const (
	PharmacyStatusPending  PharmacyStatus = "Pending"
	PharmacyStatusApproved PharmacyStatus = "Approved"
	PharmacyStatusRejected PharmacyStatus = "Rejected"
)

// Valid reports whether the value is a known status
func (s PharmacyStatus) Valid() bool {
	return s == PharmacyStatusPending || s == PharmacyStatusApproved || s == PharmacyStatusRejected
}

func (s PharmacyStatus) String() string { return string(s) }

func (s PharmacyStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *PharmacyStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = PharmacyStatus(str)
	return nil
}

func (s PharmacyStatus) Value() (driver.Value, error) { return string(s), nil }

func (s *PharmacyStatus) Scan(value interface{}) error {
	if value == nil {
		*s = PharmacyStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = PharmacyStatus(v)
	case []byte:
		*s = PharmacyStatus(string(v))
	}
	return nil
}

// User roles. Super admins operate across tenants; everyone else is bound
// to one pharmacy.
const (
	RoleSuperAdmin    = "super-admin"
	RolePharmacyAdmin = "pharmacy-admin"
	RoleStaff         = "staff"
)
