package entity

import "time"

// Tipos de operación del libro de inventario.
const (
	OperationTypeAdd       = "add"       // entrada (compra, devolución)
	OperationTypeRemove    = "remove"    // salida (merma, baja)
	OperationTypeTransfer  = "transfer"  // traslado con documento de respaldo
	OperationTypeAdjust    = "adjust"    // ajuste por conteo físico
	OperationTypeReserve   = "reserve"   // apartado contra stock actual
	OperationTypeUnreserve = "unreserve" // liberación de un apartado
)

// Razón usada por los ajustes que emite una sesión de conteo.
const ReasonInventoryCount = "inventory_count"

// Operation es un asiento inmutable del libro de operaciones (append-only).
// QuantityBefore/After/Change encadenan sobre CurrentQuantity del artículo;
// para reserve/unreserve la cantidad actual no cambia (Change = 0) y el
// movimiento queda registrado en ReservedBefore/After.
type Operation struct {
	ID             string
	ItemID         string
	OperatorID     string // vacío para operaciones originadas por el sistema
	Type           string
	QuantityBefore int64
	QuantityAfter  int64
	QuantityChange int64 // siempre = QuantityAfter - QuantityBefore
	ReservedBefore int64
	ReservedAfter  int64
	Reason         string
	Comment        string
	DocumentRef    string // referencia externa: remisión, orden, ID de conteo
	OriginIP       string
	CreatedAt      time.Time
}

// ValidOperationType valida el tipo contra el catálogo de operaciones.
func ValidOperationType(t string) bool {
	switch t {
	case OperationTypeAdd, OperationTypeRemove, OperationTypeTransfer,
		OperationTypeAdjust, OperationTypeReserve, OperationTypeUnreserve:
		return true
	}
	return false
}
