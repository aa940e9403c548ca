package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest alta de producto con su stock inicial (misma transacción).
type CreateProductRequest struct {
	Code         string          `json:"code" validate:"required,min=1,max=60"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description" validate:"omitempty,max=1000"`
	CategoryID   string          `json:"category_id" validate:"omitempty,uuid"`
	Price        decimal.Decimal `json:"price" validate:"gt=0"`
	Cost         decimal.Decimal `json:"cost" validate:"gte=0"`
	Unit         string          `json:"unit" validate:"omitempty,max=30"`
	InitialStock decimal.Decimal `json:"initial_stock" validate:"gte=0"`
	MinQuantity  decimal.Decimal `json:"min_quantity" validate:"gte=0"`
	MaxQuantity  decimal.Decimal `json:"max_quantity" validate:"gte=0"`
	Location     string          `json:"location" validate:"omitempty,max=100"`
}

// UpdateProductRequest cambios parciales. La cantidad en stock no se edita acá:
// se mueve vía POST /api/stock para que quede asentada en el libro.
type UpdateProductRequest struct {
	Code        *string          `json:"code" validate:"omitempty,min=1,max=60"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	CategoryID  *string          `json:"category_id"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Unit        *string          `json:"unit" validate:"omitempty,max=30"`
	MinQuantity *decimal.Decimal `json:"min_quantity"`
	MaxQuantity *decimal.Decimal `json:"max_quantity"`
	Location    *string          `json:"location" validate:"omitempty,max=100"`
}

// ProductResponse salida de un producto con su existencia.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	CategoryID  string          `json:"category_id,omitempty"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Unit        string          `json:"unit"`
	Stock       *StockResponse  `json:"stock,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest alta de categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
}

// UpdateCategoryRequest cambios parciales de categoría.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
}

// CategoryResponse salida de categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProductQuery filtros de GET /api/products.
type ProductQuery struct {
	Search     string `query:"search" validate:"omitempty,max=100"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid"`
	PageRequest
}
