package recon

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/application/ledger"
	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

// UseCase sesiones de conteo físico: congela una foto de cantidades,
// recibe conteos y al ajustar emite operaciones "adjust" por el mismo
// punto de entrada del libro que cualquier otra operación.
type UseCase struct {
	txRunner ledger.TxRunner
	invRepo  repository.InventoryRepository
	ledger   *ledger.UseCase
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ledger.TxRunner, invRepo repository.InventoryRepository, ledgerUC *ledger.UseCase) *UseCase {
	return &UseCase{txRunner: txRunner, invRepo: invRepo, ledger: ledgerUC}
}

// Start crea la sesión, congela system_quantity de los artículos
// seleccionados (todos los activos, o los de las categorías dadas) y pasa
// a in_progress, todo en una transacción: la foto es consistente y los
// movimientos posteriores del libro no la tocan.
func (uc *UseCase) Start(ctx context.Context, creatorID string, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	if in.Name == "" || creatorID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	inv := &entity.Inventory{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Status:    entity.InventoryStatusPlanned,
		CreatedBy: creatorID,
		StartedAt: now,
	}
	var recordCount int
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		cats repository.CategoryRepository,
		_ repository.OperationRepository,
		invs repository.InventoryRepository,
	) error {
		if err := invs.Create(inv); err != nil {
			return err
		}
		// Una categoría desconocida en el selector es ErrNotFound, no una
		// selección vacía
		for _, catID := range in.CategoryIDs {
			cat, err := cats.GetByID(catID)
			if err != nil {
				return err
			}
			if cat == nil {
				return domain.ErrNotFound
			}
		}
		selected, err := items.Search(repository.ItemFilter{
			CategoryIDs: in.CategoryIDs,
			Status:      entity.ItemStatusActive,
		})
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			return domain.ErrInvalidInput
		}
		for _, item := range selected {
			rec := &entity.InventoryRecord{
				ID:             uuid.New().String(),
				InventoryID:    inv.ID,
				ItemID:         item.ID,
				SystemQuantity: item.CurrentQuantity,
				Status:         entity.RecordStatusPending,
			}
			if err := invs.CreateRecord(rec); err != nil {
				return err
			}
		}
		recordCount = len(selected)
		inv.Status = entity.InventoryStatusInProgress
		return invs.Update(inv)
	})
	if err != nil {
		return nil, err
	}
	out := toInventoryResponse(inv)
	out.RecordCount = recordCount
	return out, nil
}

// RecordCount asienta la cantidad contada de un artículo y calcula la
// diferencia contra la foto. Un registro checked puede recontarse; uno
// adjusted ya es final. La sesión se relee con bloqueo en la misma
// transacción que la escritura: un Complete concurrente no puede colarse
// entre la verificación de estado y el asiento del conteo.
func (uc *UseCase) RecordCount(ctx context.Context, inventoryID, itemID, checkerID string, in dto.RecordCountRequest) (*dto.InventoryRecordResponse, error) {
	if in.ActualQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	var rec *entity.InventoryRecord
	err := uc.txRunner.Run(ctx, func(
		_ repository.ItemRepository,
		_ repository.CategoryRepository,
		_ repository.OperationRepository,
		invs repository.InventoryRepository,
	) error {
		inv, err := invs.GetForUpdate(inventoryID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InventoryStatusInProgress {
			return domain.ErrInvalidState
		}
		rec, err = invs.GetRecord(inventoryID, itemID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec.Status == entity.RecordStatusAdjusted {
			return domain.ErrInvalidState
		}

		now := time.Now()
		actual := in.ActualQuantity
		diff := actual - rec.SystemQuantity
		rec.ActualQuantity = &actual
		rec.Difference = &diff
		rec.Status = entity.RecordStatusChecked
		rec.Comment = in.Comment
		rec.CheckedBy = checkerID
		rec.CheckedAt = &now
		return invs.UpdateRecord(rec)
	})
	if err != nil {
		return nil, err
	}
	return toRecordResponse(rec), nil
}

// ApplyAdjustment finaliza un registro checked: con diferencia distinta de
// cero emite un "adjust" por el libro (misma transacción que el cambio de
// estado del registro); con diferencia cero solo marca adjusted.
// Devuelve la operación emitida, o nil si no hizo falta.
func (uc *UseCase) ApplyAdjustment(ctx context.Context, inventoryID, itemID, checkerID string) (*entity.Operation, error) {
	var op *entity.Operation
	err := uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		_ repository.CategoryRepository,
		ops repository.OperationRepository,
		invs repository.InventoryRepository,
	) error {
		inv, err := invs.GetForUpdate(inventoryID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InventoryStatusInProgress {
			return domain.ErrInvalidState
		}
		rec, err := invs.GetRecord(inventoryID, itemID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}
		if rec.Status != entity.RecordStatusChecked {
			return domain.ErrInvalidState
		}
		if *rec.Difference != 0 {
			op, err = uc.ledger.ApplyInTx(items, ops, ledger.ApplyInput{
				ItemID:         itemID,
				Type:           entity.OperationTypeAdjust,
				QuantityChange: *rec.Difference,
				Reason:         entity.ReasonInventoryCount,
				Comment:        rec.Comment,
				OperatorID:     checkerID,
				DocumentRef:    inventoryID,
			}, time.Now())
			if err != nil {
				return err
			}
		}
		rec.Status = entity.RecordStatusAdjusted
		return invs.UpdateRecord(rec)
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

// Complete cierra la sesión. Solo procede cuando no queda ningún registro
// pending; el cierre es terminal.
func (uc *UseCase) Complete(ctx context.Context, inventoryID, completerID string) (*dto.InventoryResponse, error) {
	if completerID == "" {
		return nil, domain.ErrInvalidInput
	}
	var inv *entity.Inventory
	err := uc.txRunner.Run(ctx, func(
		_ repository.ItemRepository,
		_ repository.CategoryRepository,
		_ repository.OperationRepository,
		invs repository.InventoryRepository,
	) error {
		var err error
		inv, err = invs.GetForUpdate(inventoryID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InventoryStatusInProgress {
			return domain.ErrInvalidState
		}
		pending, err := invs.CountPendingRecords(inventoryID)
		if err != nil {
			return err
		}
		if pending > 0 {
			return domain.ErrInvalidState
		}
		now := time.Now()
		inv.Status = entity.InventoryStatusCompleted
		inv.CompletedBy = completerID
		inv.CompletedAt = &now
		return invs.Update(inv)
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(inv), nil
}

// Cancel detiene la sesión desde planned o in_progress. Los ajustes ya
// aplicados son asientos válidos del libro y no se revierten.
func (uc *UseCase) Cancel(ctx context.Context, inventoryID string) (*dto.InventoryResponse, error) {
	var inv *entity.Inventory
	err := uc.txRunner.Run(ctx, func(
		_ repository.ItemRepository,
		_ repository.CategoryRepository,
		_ repository.OperationRepository,
		invs repository.InventoryRepository,
	) error {
		var err error
		inv, err = invs.GetForUpdate(inventoryID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InventoryStatusPlanned && inv.Status != entity.InventoryStatusInProgress {
			return domain.ErrInvalidState
		}
		inv.Status = entity.InventoryStatusCancelled
		return invs.Update(inv)
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(inv), nil
}

// Get devuelve la sesión con sus renglones de conteo.
func (uc *UseCase) Get(ctx context.Context, inventoryID string) (*dto.InventoryResponse, []dto.InventoryRecordResponse, error) {
	inv, err := uc.invRepo.GetByID(inventoryID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	rows, err := uc.invRepo.ListRecordRows(inventoryID)
	if err != nil {
		return nil, nil, err
	}
	recs := make([]dto.InventoryRecordResponse, 0, len(rows))
	for _, r := range rows {
		recs = append(recs, dto.InventoryRecordResponse{
			ItemID:         r.ItemID,
			SKU:            r.SKU,
			Name:           r.Name,
			SystemQuantity: r.SystemQuantity,
			ActualQuantity: r.ActualQuantity,
			Difference:     r.Difference,
			Status:         r.Status,
			Comment:        r.Comment,
		})
	}
	out := toInventoryResponse(inv)
	out.RecordCount = len(recs)
	return out, recs, nil
}

// List lista sesiones con paginación.
func (uc *UseCase) List(ctx context.Context, page dto.PageRequest) (*dto.InventoryListResponse, error) {
	page.DefaultPage()
	list, err := uc.invRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InventoryResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, *toInventoryResponse(inv))
	}
	return &dto.InventoryListResponse{
		Inventories: out,
		Page:        dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// CountSheetRows renglones para la hoja de conteo en Excel de una sesión
// en curso.
func (uc *UseCase) CountSheetRows(ctx context.Context, inventoryID string) (*entity.Inventory, []*repository.CountSheetRow, error) {
	inv, err := uc.invRepo.GetByID(inventoryID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrNotFound
	}
	rows, err := uc.invRepo.ListRecordRows(inventoryID)
	if err != nil {
		return nil, nil, err
	}
	return inv, rows, nil
}

func toInventoryResponse(inv *entity.Inventory) *dto.InventoryResponse {
	return &dto.InventoryResponse{
		ID:          inv.ID,
		Name:        inv.Name,
		Status:      inv.Status,
		CreatedBy:   inv.CreatedBy,
		CompletedBy: inv.CompletedBy,
		StartedAt:   inv.StartedAt,
		CompletedAt: inv.CompletedAt,
	}
}

func toRecordResponse(rec *entity.InventoryRecord) *dto.InventoryRecordResponse {
	return &dto.InventoryRecordResponse{
		ItemID:         rec.ItemID,
		SystemQuantity: rec.SystemQuantity,
		ActualQuantity: rec.ActualQuantity,
		Difference:     rec.Difference,
		Status:         rec.Status,
		Comment:        rec.Comment,
		CheckedBy:      rec.CheckedBy,
		CheckedAt:      rec.CheckedAt,
	}
}
