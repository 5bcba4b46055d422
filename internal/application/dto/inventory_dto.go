package dto

import "time"

// CreateInventoryRequest body para POST /api/inventories.
// Sin CategoryIDs la sesión cubre todos los artículos activos.
type CreateInventoryRequest struct {
	Name        string   `json:"name"`
	CategoryIDs []string `json:"category_ids,omitempty"`
}

// RecordCountRequest body para PUT /api/inventories/:id/records/:itemId.
type RecordCountRequest struct {
	ActualQuantity int64  `json:"actual_quantity"`
	Comment        string `json:"comment,omitempty"`
}

// InventoryResponse representación HTTP de una sesión de conteo.
type InventoryResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Status      string     `json:"status"`
	CreatedBy   string     `json:"created_by"`
	CompletedBy string     `json:"completed_by,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RecordCount int        `json:"record_count,omitempty"`
}

// InventoryRecordResponse renglón de conteo.
type InventoryRecordResponse struct {
	ItemID         string     `json:"item_id"`
	SKU            string     `json:"sku,omitempty"`
	Name           string     `json:"name,omitempty"`
	SystemQuantity int64      `json:"system_quantity"`
	ActualQuantity *int64     `json:"actual_quantity,omitempty"`
	Difference     *int64     `json:"difference,omitempty"`
	Status         string     `json:"status"`
	Comment        string     `json:"comment,omitempty"`
	CheckedBy      string     `json:"checked_by,omitempty"`
	CheckedAt      *time.Time `json:"checked_at,omitempty"`
}

// InventoryListResponse listado paginado de sesiones.
type InventoryListResponse struct {
	Inventories []InventoryResponse `json:"inventories"`
	Page        PageResponse        `json:"page"`
}
