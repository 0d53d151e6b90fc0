package domain

import (
	"encoding/json"
	"testing"
)

func TestNormalizePermissionsRepairsMalformedPayloads(t *testing.T) {
	defaults := DefaultStaffPermissions()

	cases := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "whitespace", raw: "   "},
		{name: "null", raw: "null"},
		{name: "legacy array", raw: `["canAddClients","canViewReports"]`},
		{name: "scalar", raw: `true`},
		{name: "string", raw: `"canAddClients"`},
		{name: "broken object", raw: `{"canAddClients": tru`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePermissions([]byte(tc.raw))
			if got != defaults {
				t.Fatalf("expected staff defaults for %q, got %+v", tc.raw, got)
			}
		})
	}
}

func TestNormalizePermissionsKeepsWellFormedObjects(t *testing.T) {
	raw := []byte(`{"canAddClients":false,"canEditClients":true,"canDeleteClients":true,"canViewReports":false,"canExportData":true}`)

	got := NormalizePermissions(raw)

	want := PermissionSet{
		CanAddClients:    false,
		CanEditClients:   true,
		CanDeleteClients: true,
		CanViewReports:   false,
		CanExportData:    true,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestNormalizePermissionsDoesNotMergeMissingKeys(t *testing.T) {
	// A partial object is still an object; absent capabilities stay false
	// rather than inheriting the staff defaults.
	got := NormalizePermissions([]byte(`{"canExportData":true}`))

	want := PermissionSet{CanExportData: true}
	if got != want {
		t.Fatalf("expected only canExportData set, got %+v", got)
	}
}

func TestNormalizePermissionsIsIdempotent(t *testing.T) {
	first := NormalizePermissions([]byte(`["legacy"]`))

	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal normalized set: %v", err)
	}

	second := NormalizePermissions(encoded)
	if first != second {
		t.Fatalf("normalization not idempotent: %+v vs %+v", first, second)
	}
}

func TestDefaultStaffPermissionsReturnsFreshValues(t *testing.T) {
	a := DefaultStaffPermissions()
	a.CanDeleteClients = true

	b := DefaultStaffPermissions()
	if b.CanDeleteClients {
		t.Fatal("mutating one returned set must not affect later calls")
	}
}

func TestRoleIsAdministrative(t *testing.T) {
	cases := []struct {
		role Role
		want bool
	}{
		{RoleStaff, false},
		{RoleManager, false},
		{RoleAdmin, true},
		{RoleOwner, true},
	}

	for _, tc := range cases {
		if got := tc.role.IsAdministrative(); got != tc.want {
			t.Fatalf("IsAdministrative(%s) = %v, want %v", tc.role, got, tc.want)
		}
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleManager.Valid() {
		t.Fatal("manager should be a known role")
	}
	if Role("superuser").Valid() {
		t.Fatal("unknown role accepted")
	}
}
