package client

import (
	"net/http"
	"strconv"

	"dashflow-service/internal/domain/client"
	"dashflow-service/internal/middleware"
	"dashflow-service/internal/pkg/response"
	service "dashflow-service/internal/service/client"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// CreateClient creates a new client record
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req client.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.clientService.CreateClient(c.Request.Context(), middleware.GetEmail(c), &req)
	if err != nil {
		response.FromError(c, "failed to create client", err)
		return
	}

	response.Success(c, http.StatusCreated, "client created successfully", result)
}

// GetClient retrieves a client by ID
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	result, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "client not found", err)
		return
	}

	response.Success(c, http.StatusOK, "client retrieved", result)
}

// ListClients lists clients, optionally filtered by status
func (h *ClientHandler) ListClients(c *gin.Context) {
	result, err := h.clientService.ListClients(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.FromError(c, "failed to list clients", err)
		return
	}

	response.Success(c, http.StatusOK, "clients retrieved", result)
}

// UpdateClient applies a partial update to a client
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	var req client.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.clientService.UpdateClient(c.Request.Context(), middleware.GetEmail(c), id, &req)
	if err != nil {
		response.FromError(c, "failed to update client", err)
		return
	}

	response.Success(c, http.StatusOK, "client updated successfully", result)
}

// DeleteClient removes a client
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid client ID", err)
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), middleware.GetEmail(c), id); err != nil {
		response.FromError(c, "failed to delete client", err)
		return
	}

	response.Success(c, http.StatusOK, "client deleted successfully", nil)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
