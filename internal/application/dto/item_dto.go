package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body para POST /api/items.
// OpeningQuantity > 0 genera una operación inicial "add" en el libro:
// la cantidad nunca se escribe directo en el artículo.
type CreateItemRequest struct {
	Name            string          `json:"name"`
	Barcode         string          `json:"barcode,omitempty"`
	SKU             string          `json:"sku,omitempty"`
	Description     string          `json:"description,omitempty"`
	Unit            string          `json:"unit"`
	MinQuantity     int64           `json:"min_quantity"`
	MaxQuantity     int64           `json:"max_quantity"`
	Cost            decimal.Decimal `json:"cost"`
	CategoryIDs     []string        `json:"category_ids,omitempty"`
	OpeningQuantity int64           `json:"opening_quantity,omitempty"`
}

// UpdateItemRequest body para PUT /api/items/:id. Sin campos de cantidad:
// las cantidades solo cambian vía operaciones.
type UpdateItemRequest struct {
	Name        *string          `json:"name,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
	SKU         *string          `json:"sku,omitempty"`
	Description *string          `json:"description,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	MinQuantity *int64           `json:"min_quantity,omitempty"`
	MaxQuantity *int64           `json:"max_quantity,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

// SetCategoriesRequest body para PUT /api/items/:id/categories.
type SetCategoriesRequest struct {
	CategoryIDs []string `json:"category_ids"`
}

// ItemResponse representación HTTP de un artículo.
type ItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Barcode           string          `json:"barcode,omitempty"`
	SKU               string          `json:"sku,omitempty"`
	Description       string          `json:"description,omitempty"`
	Unit              string          `json:"unit"`
	MinQuantity       int64           `json:"min_quantity"`
	MaxQuantity       int64           `json:"max_quantity"`
	Cost              decimal.Decimal `json:"cost"`
	Status            string          `json:"status"`
	CurrentQuantity   int64           `json:"current_quantity"`
	ReservedQuantity  int64           `json:"reserved_quantity"`
	AvailableQuantity int64           `json:"available_quantity"`
	CategoryIDs       []string        `json:"category_ids,omitempty"`
	LastOperationAt   *time.Time      `json:"last_operation_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ItemListResponse listado paginado de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
