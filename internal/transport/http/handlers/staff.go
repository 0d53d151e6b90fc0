package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/transport/http/middleware"
	"github.com/Limon4ik66607/TestCRM/internal/usecase"
)

// StaffHandler exposes the administrator endpoints for staff management,
// workspace stats, and the activity log.
type StaffHandler struct {
	staff *usecase.StaffService
	audit *usecase.AuditService
}

// NewStaffHandler builds a StaffHandler.
func NewStaffHandler(staff *usecase.StaffService, audit *usecase.AuditService) *StaffHandler {
	return &StaffHandler{staff: staff, audit: audit}
}

// RegisterRoutes attaches the admin endpoints to the group. The group is
// expected to carry authentication middleware; role checks happen in the
// services so every path enforces them uniformly.
func (h *StaffHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/staff", h.List)
	rg.POST("/staff", h.Create)
	rg.PUT("/staff/:id/role", h.UpdateRole)
	rg.PUT("/staff/:id/permissions", h.UpdatePermissions)
	rg.DELETE("/staff/:id", h.Delete)
	rg.GET("/stats", h.Stats)
	rg.GET("/subscription", h.Subscription)
	rg.GET("/activity-log", h.ActivityLog)
}

var staffErrorCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "administrative privileges required"},
	{Err: usecase.ErrIdentityNotFound, Status: http.StatusNotFound, Message: "staff account not found"},
	{Err: usecase.ErrEmailConflict, Status: http.StatusConflict, Message: "email is already registered"},
	{Err: usecase.ErrSelfOperation, Status: http.StatusBadRequest, Message: "operation cannot target your own account"},
	{Err: usecase.ErrInvalidRole, Status: http.StatusBadRequest, Message: "unknown role"},
}

// Create adds a staff account.
func (h *StaffHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	identity, err := h.staff.CreateStaff(c.Request.Context(), actor, usecase.CreateStaffInput{
		Email:       req.Email,
		Name:        req.Name,
		Password:    req.Password,
		Role:        domain.Role(req.Role),
		Permissions: req.Permissions,
	}, middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, staffErrorCases, http.StatusInternalServerError, "failed to create staff account")
		return
	}

	c.JSON(http.StatusCreated, toIdentitySummary(*identity))
}

// List returns the staff roster.
func (h *StaffHandler) List(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	identities, err := h.staff.ListStaff(c.Request.Context(), actor)
	if err != nil {
		RespondWithMappedError(c, err, staffErrorCases, http.StatusInternalServerError, "failed to list staff")
		return
	}

	summaries := make([]IdentitySummary, 0, len(identities))
	for _, identity := range identities {
		summaries = append(summaries, toIdentitySummary(identity))
	}

	c.JSON(http.StatusOK, StaffListResponse{Staff: summaries})
}

// UpdateRole changes a staff member's role.
func (h *StaffHandler) UpdateRole(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	identity, err := h.staff.UpdateRole(c.Request.Context(), actor, c.Param("id"), domain.Role(req.Role), middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, staffErrorCases, http.StatusInternalServerError, "failed to update role")
		return
	}

	c.JSON(http.StatusOK, toIdentitySummary(*identity))
}

// UpdatePermissions replaces a staff member's permission set.
func (h *StaffHandler) UpdatePermissions(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	identity, err := h.staff.UpdatePermissions(c.Request.Context(), actor, c.Param("id"), req.Permissions, middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, staffErrorCases, http.StatusInternalServerError, "failed to update permissions")
		return
	}

	c.JSON(http.StatusOK, toIdentitySummary(*identity))
}

// Delete removes a staff account and reports how many clients moved to the
// acting administrator.
func (h *StaffHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	reassigned, err := h.staff.DeleteStaff(c.Request.Context(), actor, c.Param("id"), middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, staffErrorCases, http.StatusInternalServerError, "failed to delete staff account")
		return
	}

	c.JSON(http.StatusOK, DeleteStaffResponse{
		Message:           "staff account deleted",
		ReassignedClients: reassigned,
	})
}

// Stats returns dashboard counters.
func (h *StaffHandler) Stats(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	stats, err := h.staff.Stats(c.Request.Context(), actor)
	if err != nil {
		RespondWithMappedError(c, err, staffErrorCases, http.StatusInternalServerError, "failed to load stats")
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalStaff:   stats.TotalStaff,
		ActiveStaff:  stats.ActiveStaff,
		Admins:       stats.Admins,
		Managers:     stats.Managers,
		Staff:        stats.Staff,
		TotalClients: stats.TotalClients,
	})
}

// Subscription returns the workspace plan.
func (h *StaffHandler) Subscription(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	info, err := h.staff.Subscription(actor)
	if err != nil {
		RespondWithMappedError(c, err, staffErrorCases, http.StatusInternalServerError, "failed to load subscription")
		return
	}

	c.JSON(http.StatusOK, SubscriptionResponse{
		Plan:       info.Plan,
		Status:     info.Status,
		MaxStaff:   info.MaxStaff,
		MaxClients: info.MaxClients,
	})
}

// ActivityLog returns the most recent audit entries, newest first.
func (h *StaffHandler) ActivityLog(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.audit.List(c.Request.Context(), actor, limit)
	if err != nil {
		RespondWithMappedError(c, err, staffErrorCases, http.StatusInternalServerError, "failed to load activity log")
		return
	}

	payloads := make([]AuditEntryPayload, 0, len(entries))
	for _, entry := range entries {
		payloads = append(payloads, toAuditEntryPayload(entry))
	}

	c.JSON(http.StatusOK, ActivityLogResponse{Entries: payloads})
}

// Bootstrap creates the initial administrator. It is only callable while
// the workspace has no identities, so it stays outside authentication.
func (h *StaffHandler) Bootstrap(c *gin.Context) {
	var req BootstrapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	identity, err := h.staff.BootstrapAdmin(c.Request.Context(), usecase.BootstrapInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}, middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAlreadyInitialized, Status: http.StatusBadRequest, Message: "system is already initialized"},
		}, http.StatusInternalServerError, "initialization failed")
		return
	}

	c.JSON(http.StatusCreated, toIdentitySummary(*identity))
}
