package order

import (
	"net/http"
	"strconv"

	"dashflow-service/internal/domain/order"
	"dashflow-service/internal/middleware"
	"dashflow-service/internal/pkg/response"
	service "dashflow-service/internal/service/order"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orderService *service.OrderService
}

func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder creates a new order. The total is always computed server-side
// from the line items.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), middleware.GetEmail(c), &req)
	if err != nil {
		response.FromError(c, "failed to create order", err)
		return
	}

	response.Success(c, http.StatusCreated, "order created successfully", result)
}

// GetOrder retrieves an order by ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	result, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "order not found", err)
		return
	}

	response.Success(c, http.StatusOK, "order retrieved", result)
}

// ListOrders lists orders, newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	result, err := h.orderService.ListOrders(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list orders", err)
		return
	}

	response.Success(c, http.StatusOK, "orders retrieved", result)
}

// DeleteOrder cancels an order
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid order ID", err)
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), middleware.GetEmail(c), id); err != nil {
		response.FromError(c, "failed to delete order", err)
		return
	}

	response.Success(c, http.StatusOK, "order deleted successfully", nil)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
