package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/application/ledger"
	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

// ItemUseCase altas y mantenimiento del catálogo de artículos.
// Las cantidades no se editan aquí: la cantidad de apertura se asienta
// como una operación "add" a través del libro.
type ItemUseCase struct {
	repo     repository.ItemRepository
	catRepo  repository.CategoryRepository
	txRunner ledger.TxRunner
	ledger   *ledger.UseCase
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, catRepo repository.CategoryRepository, txRunner ledger.TxRunner, ledgerUC *ledger.UseCase) *ItemUseCase {
	return &ItemUseCase{repo: repo, catRepo: catRepo, txRunner: txRunner, ledger: ledgerUC}
}

// Create da de alta un artículo con cantidad 0. Si OpeningQuantity > 0 se
// sintetiza la operación inicial "add" para que el libro siga siendo la
// fuente de verdad desde el primer día.
func (uc *ItemUseCase) Create(ctx context.Context, operatorID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Name == "" || in.Unit == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.MinQuantity < 0 || in.MaxQuantity < 0 || in.OpeningQuantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MaxQuantity > 0 && in.MaxQuantity < in.MinQuantity {
		return nil, domain.ErrInvalidInput
	}
	if in.Cost.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.Barcode != "" {
		existing, err := uc.repo.GetByBarcode(in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if in.SKU != "" {
		existing, err := uc.repo.GetBySKU(in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	// Resolver categorías antes de persistir: una categoría desconocida no
	// debe dejar un artículo a medio crear
	catIDs, err := uc.resolveCategoryIDs(in.CategoryIDs)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	item := &entity.Item{
		ID:               uuid.New().String(),
		Name:             in.Name,
		Barcode:          in.Barcode,
		SKU:              in.SKU,
		Description:      in.Description,
		Unit:             in.Unit,
		MinQuantity:      in.MinQuantity,
		MaxQuantity:      in.MaxQuantity,
		Cost:             in.Cost,
		Status:           entity.ItemStatusActive,
		CurrentQuantity:  0,
		ReservedQuantity: 0,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	if len(catIDs) > 0 {
		if err := uc.setCategories(ctx, item.ID, catIDs); err != nil {
			return nil, err
		}
	}
	if in.OpeningQuantity > 0 {
		_, err := uc.ledger.Apply(ctx, ledger.ApplyInput{
			ItemID:         item.ID,
			Type:           entity.OperationTypeAdd,
			QuantityChange: in.OpeningQuantity,
			Reason:         "opening_balance",
			OperatorID:     operatorID,
		})
		if err != nil {
			return nil, err
		}
	}
	return uc.GetByID(item.ID)
}

// GetByID obtiene un artículo con sus categorías.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	catIDs, err := uc.repo.CategoryIDs(id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item, catIDs), nil
}

// Update modifica campos descriptivos y umbrales. Sin campos de cantidad.
// El cambio de estado a discontinued es el retiro suave del artículo.
func (uc *ItemUseCase) Update(id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Barcode != nil && *in.Barcode != item.Barcode && *in.Barcode != "" {
		existing, err := uc.repo.GetByBarcode(*in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if in.SKU != nil && *in.SKU != item.SKU && *in.SKU != "" {
		existing, err := uc.repo.GetBySKU(*in.SKU)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Barcode != nil {
		item.Barcode = *in.Barcode
	}
	if in.SKU != nil {
		item.SKU = *in.SKU
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.MinQuantity != nil {
		if *in.MinQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.MinQuantity = *in.MinQuantity
	}
	if in.MaxQuantity != nil {
		if *in.MaxQuantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		item.MaxQuantity = *in.MaxQuantity
	}
	if in.Cost != nil {
		if in.Cost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		item.Cost = *in.Cost
	}
	if in.Status != nil {
		if !entity.ValidStatus(*in.Status) {
			return nil, domain.ErrInvalidInput
		}
		item.Status = *in.Status
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return uc.GetByID(id)
}

// SetCategories reemplaza la membresía completa del artículo de forma
// transaccional. Idempotente: el mismo conjunto dos veces produce la misma
// membresía sin filas duplicadas.
func (uc *ItemUseCase) SetCategories(ctx context.Context, itemID string, categoryIDs []string) error {
	item, err := uc.repo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	ids, err := uc.resolveCategoryIDs(categoryIDs)
	if err != nil {
		return err
	}
	return uc.setCategories(ctx, itemID, ids)
}

// resolveCategoryIDs deduplica y valida que todas las categorías existan.
func (uc *ItemUseCase) resolveCategoryIDs(categoryIDs []string) ([]string, error) {
	seen := make(map[string]bool, len(categoryIDs))
	ids := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		cat, err := uc.catRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, domain.ErrNotFound
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (uc *ItemUseCase) setCategories(ctx context.Context, itemID string, ids []string) error {
	return uc.txRunner.Run(ctx, func(
		items repository.ItemRepository,
		_ repository.CategoryRepository,
		_ repository.OperationRepository,
		_ repository.InventoryRepository,
	) error {
		return items.SetCategories(itemID, ids)
	})
}

// Search busca artículos por texto, categorías (OR) y estado, con orden
// estable para paginación.
func (uc *ItemUseCase) Search(in dto.PageRequest, text string, categoryIDs []string, status string) (*dto.ItemListResponse, error) {
	in.DefaultPage()
	if status != "" && !entity.ValidStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.Search(repository.ItemFilter{
		Text:        text,
		CategoryIDs: categoryIDs,
		Status:      status,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it, nil))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// LowStock artículos activos en o por debajo de su umbral mínimo.
func (uc *ItemUseCase) LowStock() ([]dto.ItemResponse, error) {
	list, err := uc.repo.LowStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *toItemResponse(it, nil))
	}
	return items, nil
}

func toItemResponse(i *entity.Item, categoryIDs []string) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                i.ID,
		Name:              i.Name,
		Barcode:           i.Barcode,
		SKU:               i.SKU,
		Description:       i.Description,
		Unit:              i.Unit,
		MinQuantity:       i.MinQuantity,
		MaxQuantity:       i.MaxQuantity,
		Cost:              i.Cost,
		Status:            i.Status,
		CurrentQuantity:   i.CurrentQuantity,
		ReservedQuantity:  i.ReservedQuantity,
		AvailableQuantity: i.AvailableQuantity(),
		CategoryIDs:       categoryIDs,
		LastOperationAt:   i.LastOperationAt,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}
