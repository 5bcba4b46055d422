package catalog_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrezzo-rental/almacen-api/internal/application/catalog"
	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/application/ledger"
	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
	"github.com/atrezzo-rental/almacen-api/internal/testutil"
	"github.com/atrezzo-rental/almacen-api/pkg/logger"
)

func newItemUC(t *testing.T) (*testutil.Fixture, *catalog.ItemUseCase) {
	t.Helper()
	f := testutil.NewFixture()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledgerUC := ledger.NewUseCase(f.TxRunner, f.Items, f.Operations, log)
	return f, catalog.NewItemUseCase(f.Items, f.Categories, f.TxRunner, ledgerUC)
}

// seedCatalogItem inserta un artículo directo en el fixture, saltando el
// caso de uso, para preparar escenarios.
func seedCatalogItem(t *testing.T, f *testutil.Fixture, name, sku string) *entity.Item {
	t.Helper()
	now := time.Now()
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      name,
		SKU:       sku,
		Unit:      "unidad",
		Status:    entity.ItemStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.Items.Create(item))
	return item
}

func TestCreateItem_ConCantidadDeApertura(t *testing.T) {
	f, uc := newItemUC(t)

	out, err := uc.Create(context.Background(), "op-1", dto.CreateItemRequest{
		Name:            "Trono dorado",
		SKU:             "TRN-001",
		Unit:            "unidad",
		MinQuantity:     1,
		OpeningQuantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.CurrentQuantity)

	// La apertura entra por el libro, no por edición directa
	ops := f.Operations.All()
	require.Len(t, ops, 1)
	assert.Equal(t, entity.OperationTypeAdd, ops[0].Type)
	assert.Equal(t, "opening_balance", ops[0].Reason)
	assert.Equal(t, int64(0), ops[0].QuantityBefore)
	assert.Equal(t, int64(3), ops[0].QuantityAfter)
	assert.Equal(t, "op-1", ops[0].OperatorID)
}

func TestCreateItem_SinApertura(t *testing.T) {
	f, uc := newItemUC(t)

	out, err := uc.Create(context.Background(), "op-1", dto.CreateItemRequest{
		Name: "Copa de utilería", Unit: "unidad",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.CurrentQuantity)
	assert.Empty(t, f.Operations.All(), "sin apertura no hay asiento")
}

func TestCreateItem_SKUDuplicado(t *testing.T) {
	f, uc := newItemUC(t)
	seedCatalogItem(t, f, "Espada vikinga", "ESP-001")

	_, err := uc.Create(context.Background(), "op-1", dto.CreateItemRequest{
		Name: "Otra espada", SKU: "ESP-001", Unit: "unidad",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateItem_CategoriaInexistenteNoDejaRastro(t *testing.T) {
	f, uc := newItemUC(t)

	_, err := uc.Create(context.Background(), "op-1", dto.CreateItemRequest{
		Name:        "Máscara veneciana",
		SKU:         "MAS-001",
		Unit:        "unidad",
		CategoryIDs: []string{"no-existe"},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	// El alta fallida no deja el artículo a medio crear
	got, err := f.Items.GetBySKU("MAS-001")
	require.NoError(t, err)
	assert.Nil(t, got)
	list, err := f.Items.Search(repository.ItemFilter{Text: "máscara"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

// lookupErrRepo hace fallar las búsquedas por código de barras y SKU para
// simular una caída de infraestructura durante los pre-chequeos de duplicado.
type lookupErrRepo struct {
	*testutil.MemItemRepo
	err error
}

func (r *lookupErrRepo) GetByBarcode(barcode string) (*entity.Item, error) { return nil, r.err }
func (r *lookupErrRepo) GetBySKU(sku string) (*entity.Item, error)         { return nil, r.err }

func TestItem_FalloDeInfraestructuraSePropaga(t *testing.T) {
	f := testutil.NewFixture()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledgerUC := ledger.NewUseCase(f.TxRunner, f.Items, f.Operations, log)
	errDB := errors.New("conexión perdida")
	uc := catalog.NewItemUseCase(&lookupErrRepo{f.Items, errDB}, f.Categories, f.TxRunner, ledgerUC)

	// El error del repo no se traga: sin pre-chequeo confiable no se crea nada
	_, err := uc.Create(context.Background(), "op-1", dto.CreateItemRequest{
		Name: "Busto romano", SKU: "BUS-001", Unit: "unidad",
	})
	require.ErrorIs(t, err, errDB)
	list, err := f.Items.Search(repository.ItemFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	item := seedCatalogItem(t, f, "Busto griego", "BUS-002")
	otherSKU := "BUS-003"
	_, err = uc.Update(item.ID, dto.UpdateItemRequest{SKU: &otherSKU})
	require.ErrorIs(t, err, errDB)
}

func TestCreateItem_Validaciones(t *testing.T) {
	_, uc := newItemUC(t)

	cases := []struct {
		name string
		in   dto.CreateItemRequest
	}{
		{"sin nombre", dto.CreateItemRequest{Unit: "unidad"}},
		{"sin unidad", dto.CreateItemRequest{Name: "X"}},
		{"mínimo negativo", dto.CreateItemRequest{Name: "X", Unit: "u", MinQuantity: -1}},
		{"máximo menor al mínimo", dto.CreateItemRequest{Name: "X", Unit: "u", MinQuantity: 5, MaxQuantity: 2}},
		{"apertura negativa", dto.CreateItemRequest{Name: "X", Unit: "u", OpeningQuantity: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), "op-1", tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestUpdateItem_NoTocaCantidades(t *testing.T) {
	f, uc := newItemUC(t)
	item := seedCatalogItem(t, f, "Farol de gas", "FAR-001")
	require.NoError(t, f.Items.UpdateQuantities(item.ID, 7, 2, time.Now()))

	name := "Farol de gas restaurado"
	out, err := uc.Update(item.ID, dto.UpdateItemRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.Equal(t, int64(7), out.CurrentQuantity, "el update descriptivo no altera cantidades")
	assert.Equal(t, int64(2), out.ReservedQuantity)
}

func TestUpdateItem_EstadoInvalido(t *testing.T) {
	f, uc := newItemUC(t)
	item := seedCatalogItem(t, f, "Biombo oriental", "")

	bad := "vaporized"
	_, err := uc.Update(item.ID, dto.UpdateItemRequest{Status: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	good := entity.ItemStatusDiscontinued
	out, err := uc.Update(item.ID, dto.UpdateItemRequest{Status: &good})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusDiscontinued, out.Status)
}

func TestSetCategories_Idempotente(t *testing.T) {
	f, uc := newItemUC(t)
	catUC := catalog.NewCategoryUseCase(f.Categories)

	cat := mustCreate(t, catUC, "Atrezzo militar", "")
	item := seedCatalogItem(t, f, "Cantimplora", "")

	require.NoError(t, uc.SetCategories(context.Background(), item.ID, []string{cat.ID, cat.ID}))
	ids, err := f.Items.CategoryIDs(item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{cat.ID}, ids, "asignar dos veces no duplica la membresía")

	// Reasignar el mismo conjunto deja el mismo resultado
	require.NoError(t, uc.SetCategories(context.Background(), item.ID, []string{cat.ID}))
	ids, err = f.Items.CategoryIDs(item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{cat.ID}, ids)
}

func TestSetCategories_CategoriaInexistente(t *testing.T) {
	f, uc := newItemUC(t)
	item := seedCatalogItem(t, f, "Yelmo", "")

	err := uc.SetCategories(context.Background(), item.ID, []string{"no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch_PorTextoYEstado(t *testing.T) {
	f, uc := newItemUC(t)
	seedCatalogItem(t, f, "Lámpara de araña", "LAM-001")
	seedCatalogItem(t, f, "Lámpara de pie", "LAM-002")
	other := seedCatalogItem(t, f, "Mesa rústica", "MES-001")
	other.Status = entity.ItemStatusInactive
	require.NoError(t, f.Items.Update(other))

	out, err := uc.Search(dto.PageRequest{}, "lámpara", nil, "")
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	out, err = uc.Search(dto.PageRequest{}, "", nil, entity.ItemStatusInactive)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Mesa rústica", out.Items[0].Name)

	_, err = uc.Search(dto.PageRequest{}, "", nil, "bogus")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStock(t *testing.T) {
	f, uc := newItemUC(t)
	low := seedCatalogItem(t, f, "Cortina de terciopelo", "")
	low.MinQuantity = 5
	require.NoError(t, f.Items.Update(low))
	require.NoError(t, f.Items.UpdateQuantities(low.ID, 4, 0, time.Now()))

	ok := seedCatalogItem(t, f, "Atril", "")
	require.NoError(t, f.Items.UpdateQuantities(ok.ID, 10, 0, time.Now()))

	items, err := uc.LowStock()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}
