package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Limon4ik66607/TestCRM/internal/core/domain"
	"github.com/Limon4ik66607/TestCRM/internal/transport/http/middleware"
	"github.com/Limon4ik66607/TestCRM/internal/usecase"
)

// AuthHandler exposes registration, login, and current-user endpoints.
type AuthHandler struct {
	auth  *usecase.AuthService
	audit *usecase.AuditService
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, audit *usecase.AuditService) *AuthHandler {
	return &AuthHandler{auth: auth, audit: audit}
}

// RegisterRoutes attaches the public auth endpoints to the group.
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/register", h.Register)
	rg.POST("/login", h.Login)
}

// Register creates a workspace account and returns a session token.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	session, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}, middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrEmailConflict, Status: http.StatusConflict, Message: "email is already registered"},
		}, http.StatusInternalServerError, "registration failed")
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(session))
}

// Login verifies credentials and returns a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	session, err := h.auth.Login(c.Request.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid email or password"},
			{Err: usecase.ErrAccountDisabled, Status: http.StatusForbidden, Message: "account is not active"},
		}, http.StatusInternalServerError, "login failed")
		return
	}

	c.JSON(http.StatusOK, sessionResponse(session))
}

// Me returns the authenticated identity.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, toIdentitySummary(*identity))
}

// Logout records the logout in the activity trail. Tokens are stateless, so
// the client discards its copy; nothing is revoked server-side.
func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	h.audit.Record(c.Request.Context(), identity.ID, domain.AuditActionLogout, domain.AuditTargetIdentity,
		&identity.ID, "logged out", middleware.RequestMeta(c))

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

func sessionResponse(session *usecase.Session) AuthResponse {
	return AuthResponse{
		AccessToken: session.Token,
		TokenType:   "bearer",
		ExpiresIn:   int(time.Until(session.ExpiresAt).Seconds()),
		User:        toIdentitySummary(*session.Identity),
	}
}
