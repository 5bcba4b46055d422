package entity

import "time"

// Estados de una sesión de conteo físico.
// planned -> in_progress -> completed; cancelled desde planned o in_progress.
const (
	InventoryStatusPlanned    = "planned"
	InventoryStatusInProgress = "in_progress"
	InventoryStatusCompleted  = "completed"
	InventoryStatusCancelled  = "cancelled"
)

// Estados de un registro de conteo.
// pending -> checked -> adjusted; cada registro transiciona de forma independiente.
const (
	RecordStatusPending  = "pending"
	RecordStatusChecked  = "checked"
	RecordStatusAdjusted = "adjusted"
)

// Inventory es una sesión de conteo físico: congela las cantidades del
// sistema al iniciar y al finalizar emite ajustes a través del libro.
type Inventory struct {
	ID          string
	Name        string
	Status      string
	CreatedBy   string
	CompletedBy string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// InventoryRecord es el renglón de conteo de un artículo dentro de una sesión.
// SystemQuantity es la foto al iniciar la sesión y no se actualiza aunque el
// libro siga moviéndose; Difference = ActualQuantity - SystemQuantity.
type InventoryRecord struct {
	ID             string
	InventoryID    string
	ItemID         string
	SystemQuantity int64
	ActualQuantity *int64 // nil hasta que se cuenta
	Difference     *int64 // definido solo con ActualQuantity
	Status         string
	Comment        string
	CheckedBy      string
	CheckedAt      *time.Time
}
