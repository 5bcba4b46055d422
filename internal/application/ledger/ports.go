package ledger

import (
	"context"

	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad entre el asiento del
// libro y la actualización de cantidades del artículo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		cats repository.CategoryRepository,
		ops repository.OperationRepository,
		invs repository.InventoryRepository,
	) error) error
}
