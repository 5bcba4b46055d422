package repository

import (
	"time"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
)

// ItemFilter filtros de búsqueda de artículos.
// Text busca por nombre, barcode, SKU o descripción; CategoryIDs aplica
// semántica OR sobre la membresía. Limit <= 0 significa sin límite.
type ItemFilter struct {
	Text        string
	CategoryIDs []string
	Status      string
	Limit       int
	Offset      int
}

// ItemRepository puerto de persistencia para artículos.
// Las cantidades (CurrentQuantity/ReservedQuantity) solo se escriben vía
// UpdateQuantities desde el libro de operaciones, nunca vía Update.
type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	// GetForUpdate obtiene el artículo y bloquea la fila (SELECT FOR UPDATE)
	// para serializar las escrituras concurrentes sobre el mismo artículo.
	GetForUpdate(id string) (*entity.Item, error)
	GetByBarcode(barcode string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	// Update persiste los campos descriptivos; no toca cantidades.
	Update(item *entity.Item) error
	// UpdateQuantities escribe las cantidades cacheadas junto con el asiento
	// del libro (misma transacción en el adaptador real).
	UpdateQuantities(id string, current, reserved int64, lastOperationAt time.Time) error
	Search(f ItemFilter) ([]*entity.Item, error)
	// LowStock artículos activos con current_quantity <= min_quantity.
	LowStock() ([]*entity.Item, error)
	// SetCategories reemplaza la membresía completa del artículo (diff-based).
	SetCategories(itemID string, categoryIDs []string) error
	CategoryIDs(itemID string) ([]string, error)
}
