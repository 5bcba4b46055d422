package repository

import "github.com/atrezzo-rental/almacen-api/internal/domain/entity"

// CountSheetRow renglón de conteo con los datos del artículo ya unidos,
// para listados de sesión y para la hoja de conteo en Excel.
type CountSheetRow struct {
	ItemID         string
	SKU            string
	Name           string
	Unit           string
	SystemQuantity int64
	ActualQuantity *int64
	Difference     *int64
	Status         string
	Comment        string
}

// InventoryRepository puerto de persistencia para sesiones de conteo físico.
type InventoryRepository interface {
	Create(inv *entity.Inventory) error
	GetByID(id string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila de la sesión dentro de la transacción
	// actual, para que el estado leído siga vigente al escribir.
	GetForUpdate(id string) (*entity.Inventory, error)
	Update(inv *entity.Inventory) error
	List(limit, offset int) ([]*entity.Inventory, error)

	CreateRecord(rec *entity.InventoryRecord) error
	GetRecord(inventoryID, itemID string) (*entity.InventoryRecord, error)
	UpdateRecord(rec *entity.InventoryRecord) error
	ListRecords(inventoryID string) ([]*entity.InventoryRecord, error)
	// ListRecordRows renglones con datos del artículo unidos (hoja de conteo).
	ListRecordRows(inventoryID string) ([]*CountSheetRow, error)
	CountPendingRecords(inventoryID string) (int, error)
}
