package handlers

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// IdentitySummary describes a staff account as returned by the API.
type IdentitySummary struct {
	ID          string                `json:"id"`
	Email       string                `json:"email"`
	Name        string                `json:"name"`
	Role        domain.Role           `json:"role"`
	Status      domain.IdentityStatus `json:"status"`
	Permissions domain.PermissionSet  `json:"permissions"`
	CreatedBy   *string               `json:"created_by,omitempty"`
	LastLogin   *time.Time            `json:"last_login,omitempty"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

func toIdentitySummary(identity domain.Identity) IdentitySummary {
	return IdentitySummary{
		ID:          identity.ID,
		Email:       identity.Email,
		Name:        identity.Name,
		Role:        identity.Role,
		Status:      identity.Status,
		Permissions: identity.Permissions,
		CreatedBy:   identity.CreatedBy,
		LastLogin:   identity.LastLogin,
		CreatedAt:   identity.CreatedAt,
		UpdatedAt:   identity.UpdatedAt,
	}
}

// RegisterRequest defines the self-registration payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest defines the credential login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse describes a successful registration or login.
type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        IdentitySummary `json:"user"`
}

// CreateStaffRequest defines the payload for adding a staff account.
// Permissions is passed through raw; anything other than a proper object is
// replaced with the default staff set.
type CreateStaffRequest struct {
	Email       string          `json:"email" binding:"required,email"`
	Name        string          `json:"name" binding:"required"`
	Password    string          `json:"password" binding:"required"`
	Role        string          `json:"role"`
	Permissions json.RawMessage `json:"permissions"`
}

// UpdateRoleRequest defines the payload for a role change.
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdatePermissionsRequest carries the replacement permission payload.
type UpdatePermissionsRequest struct {
	Permissions json.RawMessage `json:"permissions"`
}

// StaffListResponse wraps the staff roster.
type StaffListResponse struct {
	Staff []IdentitySummary `json:"staff"`
}

// DeleteStaffResponse reports the outcome of a staff removal.
type DeleteStaffResponse struct {
	Message           string `json:"message"`
	ReassignedClients int64  `json:"reassigned_clients"`
}

// BootstrapRequest defines the payload for the initial administrator.
type BootstrapRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// StatsResponse carries dashboard counters, including the per-role
// breakdown of the roster.
type StatsResponse struct {
	TotalStaff   int `json:"total_staff"`
	ActiveStaff  int `json:"active_staff"`
	Admins       int `json:"admins"`
	Managers     int `json:"managers"`
	Staff        int `json:"staff"`
	TotalClients int `json:"total_clients"`
}

// SubscriptionResponse describes the workspace plan.
type SubscriptionResponse struct {
	Plan       string `json:"plan"`
	Status     string `json:"status"`
	MaxStaff   int    `json:"max_staff"`
	MaxClients int    `json:"max_clients"`
}

// ClientCreateRequest defines the payload for a new client record.
type ClientCreateRequest struct {
	Name   string `json:"name" binding:"required"`
	Phone  string `json:"phone"`
	Note   string `json:"note"`
	Status string `json:"status"`
}

// ClientUpdateRequest defines the partial update payload for a client.
type ClientUpdateRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Note   *string `json:"note,omitempty"`
	Status *string `json:"status,omitempty"`
}

// ClientPayload describes a client record as returned by the API.
type ClientPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Note      string    `json:"note"`
	Status    string    `json:"status"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClientPayload(client domain.Client) ClientPayload {
	return ClientPayload{
		ID:        client.ID,
		Name:      client.Name,
		Phone:     client.Phone,
		Note:      client.Note,
		Status:    client.Status,
		OwnerID:   client.OwnerID,
		CreatedAt: client.CreatedAt,
		UpdatedAt: client.UpdatedAt,
	}
}

// ClientListResponse wraps multiple client records.
type ClientListResponse struct {
	Clients []ClientPayload `json:"clients"`
}

// AuditEntryPayload describes a recorded activity entry.
type AuditEntryPayload struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	Action      string    `json:"action"`
	TargetType  string    `json:"target_type"`
	TargetID    *string   `json:"target_id,omitempty"`
	Description string    `json:"description"`
	IPAddress   *string   `json:"ip_address,omitempty"`
	UserAgent   *string   `json:"user_agent,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toAuditEntryPayload(entry domain.AuditEntry) AuditEntryPayload {
	return AuditEntryPayload{
		ID:          entry.ID,
		ActorID:     entry.ActorID,
		Action:      string(entry.Action),
		TargetType:  string(entry.TargetType),
		TargetID:    entry.TargetID,
		Description: entry.Description,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		CreatedAt:   entry.CreatedAt,
	}
}

// ActivityLogResponse wraps the recent activity trail.
type ActivityLogResponse struct {
	Entries []AuditEntryPayload `json:"entries"`
}

// HealthResponse reports liveness information.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
