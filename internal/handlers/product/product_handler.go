package product

import (
	"net/http"
	"strconv"

	"dashflow-service/internal/domain/product"
	"dashflow-service/internal/middleware"
	"dashflow-service/internal/pkg/response"
	service "dashflow-service/internal/service/product"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProduct creates a new product
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.productService.CreateProduct(c.Request.Context(), middleware.GetEmail(c), &req)
	if err != nil {
		response.FromError(c, "failed to create product", err)
		return
	}

	response.Success(c, http.StatusCreated, "product created successfully", result)
}

// GetProduct retrieves a product by ID
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	result, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, "product not found", err)
		return
	}

	response.Success(c, http.StatusOK, "product retrieved", result)
}

// ListProducts lists products, optionally filtered by status
func (h *ProductHandler) ListProducts(c *gin.Context) {
	result, err := h.productService.ListProducts(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.FromError(c, "failed to list products", err)
		return
	}

	response.Success(c, http.StatusOK, "products retrieved", result)
}

// UpdateProduct applies a partial update to a product
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	var req product.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.productService.UpdateProduct(c.Request.Context(), middleware.GetEmail(c), id, &req)
	if err != nil {
		response.FromError(c, "failed to update product", err)
		return
	}

	response.Success(c, http.StatusOK, "product updated successfully", result)
}

// DeleteProduct removes a product
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid product ID", err)
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), middleware.GetEmail(c), id); err != nil {
		response.FromError(c, "failed to delete product", err)
		return
	}

	response.Success(c, http.StatusOK, "product deleted successfully", nil)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
