package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
	"github.com/atrezzo-rental/almacen-api/pkg/logger"
)

// UseCase es el único punto de entrada de mutación de cantidades: toda
// variación de stock pasa por Apply y queda asentada en el libro de
// operaciones de forma transaccional, con bloqueo de fila por artículo
// (SELECT FOR UPDATE) y Commit/Rollback.
type UseCase struct {
	txRunner TxRunner
	items    repository.ItemRepository
	ops      repository.OperationRepository
	log      *logger.Logger
}

// NewUseCase construye el caso de uso. items y ops se usan solo para
// lecturas (historial, auditoría); las escrituras van por txRunner.
func NewUseCase(txRunner TxRunner, items repository.ItemRepository, ops repository.OperationRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, items: items, ops: ops, log: log}
}

// ApplyInput entrada para asentar una operación en el libro.
// QuantityChange lleva signo según tipo: add/reserve positivo,
// remove/unreserve negativo, adjust/transfer distinto de cero.
type ApplyInput struct {
	ItemID         string
	Type           string
	QuantityChange int64
	Reason         string
	Comment        string
	OperatorID     string // vacío para operaciones del sistema
	DocumentRef    string // obligatorio en transfer
	OriginIP       string
}

// Apply valida la entrada, inicia una transacción, bloquea la fila del
// artículo y asienta la operación junto con las cantidades cacheadas.
func (uc *UseCase) Apply(ctx context.Context, input ApplyInput) (*entity.Operation, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	now := time.Now()
	var op *entity.Operation
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		_ repository.CategoryRepository,
		ops repository.OperationRepository,
		_ repository.InventoryRepository,
	) error {
		var err error
		op, err = uc.ApplyInTx(items, ops, input, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// ApplyInTx asienta la operación usando los repositorios proporcionados
// (misma transacción del caller). Lo usa Apply y también la sesión de
// conteo para emitir ajustes dentro de su propia transacción, sin canal
// privilegiado: las reglas son exactamente las mismas.
func (uc *UseCase) ApplyInTx(
	items repository.ItemRepository,
	ops repository.OperationRepository,
	input ApplyInput,
	now time.Time,
) (*entity.Operation, error) {
	// Bloquea la fila del artículo: serializa escrituras concurrentes
	// sobre el mismo artículo; artículos distintos avanzan en paralelo.
	item, err := items.GetForUpdate(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.Status == entity.ItemStatusDiscontinued {
		return nil, domain.ErrInvalidState
	}

	curBefore, resBefore := item.CurrentQuantity, item.ReservedQuantity
	curAfter, resAfter := curBefore, resBefore

	switch input.Type {
	case entity.OperationTypeAdd, entity.OperationTypeRemove,
		entity.OperationTypeTransfer, entity.OperationTypeAdjust:
		curAfter = curBefore + input.QuantityChange
		if curAfter < 0 {
			return nil, domain.ErrInvariant
		}
		// La reserva nunca puede superar la cantidad actual
		if curAfter < resBefore {
			return nil, domain.ErrInvariant
		}
	case entity.OperationTypeReserve, entity.OperationTypeUnreserve:
		resAfter = resBefore + input.QuantityChange
		if resAfter < 0 || resAfter > curBefore {
			return nil, domain.ErrInvariant
		}
	}

	// reserve/unreserve no mueven la cantidad actual: QuantityChange del
	// asiento queda en 0 y el delta va en ReservedBefore/After, así el
	// encadenamiento before/after sobre current_quantity se mantiene.
	op := &entity.Operation{
		ID:             uuid.New().String(),
		ItemID:         input.ItemID,
		OperatorID:     input.OperatorID,
		Type:           input.Type,
		QuantityBefore: curBefore,
		QuantityAfter:  curAfter,
		QuantityChange: curAfter - curBefore,
		ReservedBefore: resBefore,
		ReservedAfter:  resAfter,
		Reason:         input.Reason,
		Comment:        input.Comment,
		DocumentRef:    input.DocumentRef,
		OriginIP:       input.OriginIP,
		CreatedAt:      now,
	}
	if err := ops.Create(op); err != nil {
		return nil, err
	}
	if err := items.UpdateQuantities(item.ID, curAfter, resAfter, now); err != nil {
		return nil, err
	}
	return op, nil
}

// History devuelve el historial de un artículo, más reciente primero.
func (uc *UseCase) History(ctx context.Context, itemID string, limit, offset int) ([]*entity.Operation, error) {
	item, err := uc.items.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return uc.ops.ListByItem(itemID, limit, offset)
}

// RecomputeFromLedger audita que la cantidad cacheada del artículo sea
// derivable del libro (suma de quantity_change desde cero). Una
// discrepancia se reporta y se deja en el log, nunca se corrige en
// automático: la corrección es un ajuste compensatorio explícito.
func (uc *UseCase) RecomputeFromLedger(ctx context.Context, itemID string) (*dto.AuditResponse, error) {
	item, err := uc.items.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	derived, err := uc.ops.SumChangesByItem(itemID)
	if err != nil {
		return nil, err
	}
	match := derived == item.CurrentQuantity
	if !match {
		uc.log.Error().
			Str("item_id", itemID).
			Int64("recorded", item.CurrentQuantity).
			Int64("derived", derived).
			Msg("cantidad cacheada no coincide con el libro de operaciones")
	}
	return &dto.AuditResponse{
		ItemID:           itemID,
		RecordedQuantity: item.CurrentQuantity,
		DerivedQuantity:  derived,
		Match:            match,
	}, nil
}

// validate revisa tipo, signo y campos obligatorios antes de abrir transacción.
func validate(input ApplyInput) error {
	if input.ItemID == "" || input.Reason == "" {
		return domain.ErrInvalidInput
	}
	if !entity.ValidOperationType(input.Type) {
		return domain.ErrInvalidInput
	}
	switch input.Type {
	case entity.OperationTypeAdd, entity.OperationTypeReserve:
		if input.QuantityChange <= 0 {
			return domain.ErrInvalidInput
		}
	case entity.OperationTypeRemove, entity.OperationTypeUnreserve:
		if input.QuantityChange >= 0 {
			return domain.ErrInvalidInput
		}
	case entity.OperationTypeTransfer:
		if input.QuantityChange == 0 || input.DocumentRef == "" {
			return domain.ErrInvalidInput
		}
	case entity.OperationTypeAdjust:
		if input.QuantityChange == 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}
