package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un artículo. Un artículo con historial nunca se borra:
// se retira cambiando el estado a discontinued.
const (
	ItemStatusActive       = "active"
	ItemStatusInactive     = "inactive"
	ItemStatusDiscontinued = "discontinued"
)

// Item representa un artículo de almacén (utilería/equipo de alquiler).
// CurrentQuantity y ReservedQuantity solo cambian vía operaciones del libro
// (nunca por edición directa); Cost es la base de costo unitaria.
type Item struct {
	ID               string
	Name             string
	Barcode          string // único si no es vacío
	SKU              string // único si no es vacío
	Description      string
	Unit             string // unidad de medida: unidad, metro, kg...
	MinQuantity      int64  // umbral de stock bajo
	MaxQuantity      int64  // 0 = sin máximo
	Cost             decimal.Decimal
	Status           string
	CurrentQuantity  int64
	ReservedQuantity int64
	LastOperationAt  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AvailableQuantity cantidad disponible = actual - reservada (nunca negativa por invariante).
func (i *Item) AvailableQuantity() int64 {
	return i.CurrentQuantity - i.ReservedQuantity
}

// IsLowStock indica si el artículo está en o por debajo de su umbral mínimo.
func (i *Item) IsLowStock() bool {
	return i.CurrentQuantity <= i.MinQuantity
}

// ValidStatus valida el estado contra el catálogo de estados.
func ValidStatus(s string) bool {
	switch s {
	case ItemStatusActive, ItemStatusInactive, ItemStatusDiscontinued:
		return true
	}
	return false
}
