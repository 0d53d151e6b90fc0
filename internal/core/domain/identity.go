package domain

import "time"

// Role classifies an identity's administrative standing.
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
	RoleOwner   Role = "owner"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin, RoleOwner:
		return true
	}
	return false
}

// IsAdministrative reports whether the role passes the admin gate.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleOwner
}

// IdentityStatus enumerates possible account states.
type IdentityStatus string

const (
	StatusActive    IdentityStatus = "active"
	StatusInactive  IdentityStatus = "inactive"
	StatusSuspended IdentityStatus = "suspended"
)

// Identity mirrors the persisted representation in the identities table.
type Identity struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         Role
	Status       IdentityStatus
	Permissions  PermissionSet
	CreatedBy    *string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
