package repository

import (
	"time"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
)

// OperationRepository puerto de persistencia para el libro de operaciones.
// Append-only: no existe Update ni Delete; las correcciones son asientos
// compensatorios nuevos.
type OperationRepository interface {
	Create(op *entity.Operation) error
	// ListByItem historial de un artículo, más reciente primero.
	ListByItem(itemID string, limit, offset int) ([]*entity.Operation, error)
	// SumChangesByItem suma de quantity_change de todo el historial del
	// artículo; usado por la auditoría de derivabilidad.
	SumChangesByItem(itemID string) (int64, error)
	CountSince(since time.Time) (int, error)
}
