package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Limon4ik66607/TestCRM/internal/transport/http/middleware"
	"github.com/Limon4ik66607/TestCRM/internal/usecase"
)

// ClientHandler exposes owner-scoped client management endpoints.
type ClientHandler struct {
	clients *usecase.ClientService
}

// NewClientHandler builds a ClientHandler.
func NewClientHandler(clients *usecase.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// RegisterRoutes attaches the client endpoints to the group. The group is
// expected to carry authentication middleware.
func (h *ClientHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

var clientErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "permission not granted"},
	{Err: usecase.ErrClientNotFound, Status: http.StatusNotFound, Message: "client not found"},
}

// Create adds a client owned by the caller.
func (h *ClientHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ClientCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	client, err := h.clients.Create(c.Request.Context(), actor, usecase.CreateClientInput{
		Name:   req.Name,
		Phone:  req.Phone,
		Note:   req.Note,
		Status: req.Status,
	}, middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, clientErrorCases, http.StatusInternalServerError, "failed to create client")
		return
	}

	c.JSON(http.StatusCreated, toClientPayload(*client))
}

// Get returns one of the caller's clients.
func (h *ClientHandler) Get(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	client, err := h.clients.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, clientErrorCases, http.StatusInternalServerError, "failed to load client")
		return
	}

	c.JSON(http.StatusOK, toClientPayload(*client))
}

// List returns every client owned by the caller.
func (h *ClientHandler) List(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	clients, err := h.clients.List(c.Request.Context(), actor)
	if err != nil {
		RespondWithMappedError(c, err, clientErrorCases, http.StatusInternalServerError, "failed to list clients")
		return
	}

	payloads := make([]ClientPayload, 0, len(clients))
	for _, client := range clients {
		payloads = append(payloads, toClientPayload(client))
	}

	c.JSON(http.StatusOK, ClientListResponse{Clients: payloads})
}

// Update applies partial changes to one of the caller's clients.
func (h *ClientHandler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ClientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	client, err := h.clients.Update(c.Request.Context(), actor, c.Param("id"), usecase.UpdateClientInput{
		Name:   req.Name,
		Phone:  req.Phone,
		Note:   req.Note,
		Status: req.Status,
	}, middleware.RequestMeta(c))
	if err != nil {
		RespondWithMappedError(c, err, clientErrorCases, http.StatusInternalServerError, "failed to update client")
		return
	}

	c.JSON(http.StatusOK, toClientPayload(*client))
}

// Delete removes one of the caller's clients.
func (h *ClientHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.clients.Delete(c.Request.Context(), actor, c.Param("id"), middleware.RequestMeta(c)); err != nil {
		RespondWithMappedError(c, err, clientErrorCases, http.StatusInternalServerError, "failed to delete client")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "client deleted"})
}
