package dto

import "time"

// CreateCategoryRequest body para POST /api/categories (create-or-get).
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	ParentID    string `json:"parent_id,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

// CategoryResponse representación HTTP de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ParentID    string    `json:"parent_id,omitempty"`
	Color       string    `json:"color,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryPathResponse ruta completa desde la raíz.
type CategoryPathResponse struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// CategoryCountResponse conteo de artículos de una categoría.
type CategoryCountResponse struct {
	ID                 string `json:"id"`
	ItemCount          int    `json:"item_count"`
	IncludeDescendants bool   `json:"include_descendants"`
}
