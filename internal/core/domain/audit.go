package domain

import "time"

// AuditAction names the kind of privileged action being recorded.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
	AuditActionLogout AuditAction = "logout"
)

// AuditTargetType names the entity class an audit entry refers to.
type AuditTargetType string

const (
	AuditTargetClient       AuditTargetType = "client"
	AuditTargetIdentity     AuditTargetType = "identity"
	AuditTargetOrganization AuditTargetType = "organization"
)

// AuditEntry is an immutable record of a privileged action. Entries are only
// ever appended, never updated or deleted.
type AuditEntry struct {
	ID          string
	ActorID     string
	Action      AuditAction
	TargetType  AuditTargetType
	TargetID    *string
	Description string
	IPAddress   *string
	UserAgent   *string
	CreatedAt   time.Time
}
