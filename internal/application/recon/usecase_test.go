package recon_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/application/ledger"
	"github.com/atrezzo-rental/almacen-api/internal/application/recon"
	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/testutil"
	"github.com/atrezzo-rental/almacen-api/pkg/logger"
)

func newRecon(t *testing.T) (*testutil.Fixture, *recon.UseCase, *ledger.UseCase) {
	t.Helper()
	f := testutil.NewFixture()
	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledgerUC := ledger.NewUseCase(f.TxRunner, f.Items, f.Operations, log)
	return f, recon.NewUseCase(f.TxRunner, f.Inventories, ledgerUC), ledgerUC
}

func seedStockedItem(t *testing.T, f *testutil.Fixture, uc *ledger.UseCase, name string, qty int64) *entity.Item {
	t.Helper()
	now := time.Now()
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      name,
		Unit:      "unidad",
		Status:    entity.ItemStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.Items.Create(item))
	if qty > 0 {
		_, err := uc.Apply(context.Background(), ledger.ApplyInput{
			ItemID: item.ID, Type: entity.OperationTypeAdd,
			QuantityChange: qty, Reason: "opening_balance",
		})
		require.NoError(t, err)
	}
	return item
}

func TestConteoFisico_FlujoCompleto(t *testing.T) {
	ctx := context.Background()
	f, uc, ledgerUC := newRecon(t)

	itemA := seedStockedItem(t, f, ledgerUC, "Columna griega", 10)
	itemB := seedStockedItem(t, f, ledgerUC, "Jarrón etrusco", 5)

	inv, err := uc.Start(ctx, "supervisor-1", dto.CreateInventoryRequest{Name: "Conteo agosto"})
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryStatusInProgress, inv.Status)
	assert.Equal(t, 2, inv.RecordCount)

	// Conteo real: faltan 2 columnas; los jarrones cuadran
	recA, err := uc.RecordCount(ctx, inv.ID, itemA.ID, "contador-1", dto.RecordCountRequest{ActualQuantity: 8})
	require.NoError(t, err)
	assert.Equal(t, entity.RecordStatusChecked, recA.Status)
	require.NotNil(t, recA.Difference)
	assert.Equal(t, int64(-2), *recA.Difference)

	_, err = uc.RecordCount(ctx, inv.ID, itemB.ID, "contador-1", dto.RecordCountRequest{ActualQuantity: 5})
	require.NoError(t, err)

	// El ajuste con diferencia emite un adjust por el libro
	op, err := uc.ApplyAdjustment(ctx, inv.ID, itemA.ID, "contador-1")
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, entity.OperationTypeAdjust, op.Type)
	assert.Equal(t, entity.ReasonInventoryCount, op.Reason)
	assert.Equal(t, inv.ID, op.DocumentRef, "el ajuste referencia la sesión que lo originó")
	assert.Equal(t, int64(-2), op.QuantityChange)

	got, err := f.Items.GetByID(itemA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.CurrentQuantity)

	// Diferencia cero: el registro se finaliza sin asiento
	op, err = uc.ApplyAdjustment(ctx, inv.ID, itemB.ID, "contador-1")
	require.NoError(t, err)
	assert.Nil(t, op)

	done, err := uc.Complete(ctx, inv.ID, "supervisor-1")
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryStatusCompleted, done.Status)
	assert.Equal(t, "supervisor-1", done.CompletedBy)
	require.NotNil(t, done.CompletedAt)

	// Cerrada es terminal: ni contar ni recerrar
	_, err = uc.RecordCount(ctx, inv.ID, itemA.ID, "contador-1", dto.RecordCountRequest{ActualQuantity: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.Complete(ctx, inv.ID, "supervisor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestStart_SeleccionVacia(t *testing.T) {
	f, uc, _ := newRecon(t)

	_, err := uc.Start(context.Background(), "supervisor-1", dto.CreateInventoryRequest{Name: "Conteo vacío"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// La transacción revierte: no queda sesión a medias
	list, err := f.Inventories.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestStart_CategoriaInexistente(t *testing.T) {
	f, uc, ledgerUC := newRecon(t)
	seedStockedItem(t, f, ledgerUC, "Telón de fondo", 2)

	// Un selector con una categoría desconocida no es una selección vacía:
	// es un recurso que no existe
	_, err := uc.Start(context.Background(), "supervisor-1", dto.CreateInventoryRequest{
		Name: "Conteo fantasma", CategoryIDs: []string{"no-existe"},
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.Inventories.List(10, 0)
	require.NoError(t, err)
	assert.Empty(t, list, "la transacción revierte y no queda sesión")
}

func TestStart_PorCategoria(t *testing.T) {
	ctx := context.Background()
	f, uc, ledgerUC := newRecon(t)

	inScope := seedStockedItem(t, f, ledgerUC, "Peluca barroca", 3)
	outOfScope := seedStockedItem(t, f, ledgerUC, "Órgano de tubos", 1)

	cat := &entity.Category{ID: uuid.New().String(), Name: "Pelucas", CreatedAt: time.Now()}
	require.NoError(t, f.Categories.Create(cat))
	require.NoError(t, f.Items.SetCategories(inScope.ID, []string{cat.ID}))

	inv, err := uc.Start(ctx, "supervisor-1", dto.CreateInventoryRequest{
		Name: "Conteo pelucas", CategoryIDs: []string{cat.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inv.RecordCount)

	rec, err := f.Inventories.GetRecord(inv.ID, outOfScope.ID)
	require.NoError(t, err)
	assert.Nil(t, rec, "los artículos fuera del alcance no entran a la sesión")
}

func TestStart_FotoCongelada(t *testing.T) {
	ctx := context.Background()
	f, uc, ledgerUC := newRecon(t)

	item := seedStockedItem(t, f, ledgerUC, "Escudo heráldico", 10)
	inv, err := uc.Start(ctx, "supervisor-1", dto.CreateInventoryRequest{Name: "Conteo"})
	require.NoError(t, err)

	// El libro sigue moviéndose después de iniciar la sesión
	_, err = ledgerUC.Apply(ctx, ledger.ApplyInput{
		ItemID: item.ID, Type: entity.OperationTypeAdd,
		QuantityChange: 5, Reason: "purchase",
	})
	require.NoError(t, err)

	rec, err := f.Inventories.GetRecord(inv.ID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(10), rec.SystemQuantity, "la foto no se actualiza con movimientos posteriores")
}

func TestRecordCount_Recontar(t *testing.T) {
	ctx := context.Background()
	f, uc, ledgerUC := newRecon(t)

	item := seedStockedItem(t, f, ledgerUC, "Abanico de plumas", 6)
	inv, err := uc.Start(ctx, "supervisor-1", dto.CreateInventoryRequest{Name: "Conteo"})
	require.NoError(t, err)

	_, err = uc.RecordCount(ctx, inv.ID, item.ID, "contador-1", dto.RecordCountRequest{ActualQuantity: 4})
	require.NoError(t, err)

	// Un registro checked admite reconteo
	rec, err := uc.RecordCount(ctx, inv.ID, item.ID, "contador-2", dto.RecordCountRequest{ActualQuantity: 6})
	require.NoError(t, err)
	require.NotNil(t, rec.Difference)
	assert.Equal(t, int64(0), *rec.Difference)
	assert.Equal(t, "contador-2", rec.CheckedBy)

	// Ajustado ya es final
	_, err = uc.ApplyAdjustment(ctx, inv.ID, item.ID, "contador-2")
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, inv.ID, item.ID, "contador-1", dto.RecordCountRequest{ActualQuantity: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRecordCount_SesionCerradaNoTocaElRegistro(t *testing.T) {
	ctx := context.Background()
	f, uc, ledgerUC := newRecon(t)

	item := seedStockedItem(t, f, ledgerUC, "Trompeta de heraldo", 5)
	inv, err := uc.Start(ctx, "supervisor-1", dto.CreateInventoryRequest{Name: "Conteo"})
	require.NoError(t, err)

	_, err = uc.RecordCount(ctx, inv.ID, item.ID, "contador-1", dto.RecordCountRequest{ActualQuantity: 5})
	require.NoError(t, err)
	_, err = uc.Complete(ctx, inv.ID, "supervisor-1")
	require.NoError(t, err)

	// El cierre es terminal: el reconteo se rechaza en la misma transacción
	// que verifica el estado y el registro queda intacto
	_, err = uc.RecordCount(ctx, inv.ID, item.ID, "contador-2", dto.RecordCountRequest{ActualQuantity: 9})
	require.ErrorIs(t, err, domain.ErrInvalidState)

	rec, err := f.Inventories.GetRecord(inv.ID, item.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, rec.ActualQuantity)
	assert.Equal(t, int64(5), *rec.ActualQuantity)
	assert.Equal(t, "contador-1", rec.CheckedBy)
	assert.Equal(t, entity.RecordStatusChecked, rec.Status)

	// Cancelar una sesión cerrada tampoco procede
	_, err = uc.Cancel(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestComplete_ConPendientes(t *testing.T) {
	ctx := context.Background()
	f, uc, ledgerUC := newRecon(t)

	seedStockedItem(t, f, ledgerUC, "Espejo veneciano", 2)
	inv, err := uc.Start(ctx, "supervisor-1", dto.CreateInventoryRequest{Name: "Conteo"})
	require.NoError(t, err)

	_, err = uc.Complete(ctx, inv.ID, "supervisor-1")
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se cierra con registros sin contar")
}

func TestCancel_PreservaAjustes(t *testing.T) {
	ctx := context.Background()
	f, uc, ledgerUC := newRecon(t)

	item := seedStockedItem(t, f, ledgerUC, "Carroza de utilería", 4)
	inv, err := uc.Start(ctx, "supervisor-1", dto.CreateInventoryRequest{Name: "Conteo"})
	require.NoError(t, err)

	_, err = uc.RecordCount(ctx, inv.ID, item.ID, "contador-1", dto.RecordCountRequest{ActualQuantity: 3})
	require.NoError(t, err)
	op, err := uc.ApplyAdjustment(ctx, inv.ID, item.ID, "contador-1")
	require.NoError(t, err)
	require.NotNil(t, op)

	cancelled, err := uc.Cancel(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InventoryStatusCancelled, cancelled.Status)

	// El ajuste ya asentado es un asiento válido y no se revierte
	got, err := f.Items.GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.CurrentQuantity)
	sum, err := f.Operations.SumChangesByItem(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum)

	// Cancelada es terminal
	_, err = uc.Cancel(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestAjusteInvalido_RevierteTodo(t *testing.T) {
	ctx := context.Background()
	f, uc, ledgerUC := newRecon(t)

	item := seedStockedItem(t, f, ledgerUC, "Cofre del tesoro", 5)

	// Reserva activa: el conteo dice 2 pero hay 3 reservados, el ajuste
	// dejaría el stock por debajo de la reserva y debe rechazarse completo
	_, err := ledgerUC.Apply(ctx, ledger.ApplyInput{
		ItemID: item.ID, Type: entity.OperationTypeReserve,
		QuantityChange: 3, Reason: "rental_hold",
	})
	require.NoError(t, err)

	inv, err := uc.Start(ctx, "supervisor-1", dto.CreateInventoryRequest{Name: "Conteo"})
	require.NoError(t, err)
	_, err = uc.RecordCount(ctx, inv.ID, item.ID, "contador-1", dto.RecordCountRequest{ActualQuantity: 2})
	require.NoError(t, err)

	_, err = uc.ApplyAdjustment(ctx, inv.ID, item.ID, "contador-1")
	require.ErrorIs(t, err, domain.ErrInvariant)

	// El registro sigue checked: ni el asiento ni el cambio de estado quedaron
	rec, err := f.Inventories.GetRecord(inv.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RecordStatusChecked, rec.Status)
	got, err := f.Items.GetByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.CurrentQuantity)
}
