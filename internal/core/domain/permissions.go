package domain

import (
	"bytes"
	"encoding/json"
)

// PermissionSet is the fixed capability schema attached to every identity.
// It is always a complete mapping of the five capability names to booleans,
// never null and never a list.
type PermissionSet struct {
	CanAddClients    bool `json:"canAddClients"`
	CanEditClients   bool `json:"canEditClients"`
	CanDeleteClients bool `json:"canDeleteClients"`
	CanViewReports   bool `json:"canViewReports"`
	CanExportData    bool `json:"canExportData"`
}

// DefaultStaffPermissions returns the canonical restricted set granted to
// admin-created staff and substituted for malformed stored values. A fresh
// value is constructed on every call so callers never share state.
func DefaultStaffPermissions() PermissionSet {
	return PermissionSet{
		CanAddClients:    true,
		CanEditClients:   true,
		CanDeleteClients: false,
		CanViewReports:   true,
		CanExportData:    false,
	}
}

// FullPermissions returns the unrestricted set granted to self-registered
// owners and the bootstrap administrator.
func FullPermissions() PermissionSet {
	return PermissionSet{
		CanAddClients:    true,
		CanEditClients:   true,
		CanDeleteClients: true,
		CanViewReports:   true,
		CanExportData:    true,
	}
}

// NormalizePermissions repairs a raw permission payload read from storage or
// submitted by a caller. Anything that is not a JSON object (absent value,
// null, or the legacy array shape some old rows carry) is replaced wholesale
// with the canonical staff default. A proper object is decoded as-is: keys
// that are missing simply stay false, there is no key-by-key merge with the
// default set. The function is idempotent.
func NormalizePermissions(raw []byte) PermissionSet {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || trimmed[0] != '{' {
		return DefaultStaffPermissions()
	}

	var set PermissionSet
	if err := json.Unmarshal(trimmed, &set); err != nil {
		return DefaultStaffPermissions()
	}

	return set
}
