package product

// CreateProductRequest carries the fields a new product needs.
type CreateProductRequest struct {
	Name     string  `json:"name" binding:"required"`
	Category string  `json:"category"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Stock    int     `json:"stock"`
	Status   string  `json:"status"`
}

// UpdateProductRequest patches an existing product.
type UpdateProductRequest struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
	Stock    *int     `json:"stock"`
	Status   *string  `json:"status"`
}
