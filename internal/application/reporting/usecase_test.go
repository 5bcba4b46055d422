package reporting_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atrezzo-rental/almacen-api/internal/application/ledger"
	"github.com/atrezzo-rental/almacen-api/internal/application/reporting"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/testutil"
	"github.com/atrezzo-rental/almacen-api/pkg/logger"
)

func seedReportItem(t *testing.T, f *testutil.Fixture, name string, qty, min int64, cost int64) *entity.Item {
	t.Helper()
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Name:        name,
		Unit:        "unidad",
		MinQuantity: min,
		Cost:        decimal.NewFromInt(cost),
		Status:      entity.ItemStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.Items.Create(item))
	if qty > 0 {
		require.NoError(t, f.Items.UpdateQuantities(item.ID, qty, 0, now))
	}
	return item
}

func TestStats(t *testing.T) {
	f := testutil.NewFixture()
	uc := reporting.NewUseCase(f.Reports)

	seedReportItem(t, f, "Columna", 10, 2, 150) // valor 1500
	seedReportItem(t, f, "Jarrón", 1, 3, 80)    // stock bajo, valor 80
	seedReportItem(t, f, "Busto", 0, 0, 200)    // agotado y en umbral

	require.NoError(t, f.Categories.Create(&entity.Category{
		ID: uuid.New().String(), Name: "Escenografía", CreatedAt: time.Now(),
	}))

	log := logger.New(logger.Config{Env: "test", Level: "error"})
	ledgerUC := ledger.NewUseCase(f.TxRunner, f.Items, f.Operations, log)
	item := seedReportItem(t, f, "Pedestal", 0, 0, 10)
	_, err := ledgerUC.Apply(context.Background(), ledger.ApplyInput{
		ItemID: item.ID, Type: entity.OperationTypeAdd,
		QuantityChange: 2, Reason: "purchase",
	})
	require.NoError(t, err)

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalItems)
	assert.Equal(t, 1, stats.TotalCategories)
	assert.Equal(t, 2, stats.LowStockCount, "Jarrón y Busto están en o bajo el umbral")
	assert.Equal(t, 1, stats.OutOfStockCount)
	assert.Equal(t, 1, stats.RecentOperationCount)
	// 10*150 + 1*80 + 0*200 + 2*10
	assert.True(t, stats.TotalValue.Equal(decimal.NewFromInt(1600)), "valor total %s", stats.TotalValue)
}

func TestValuation_SoloActivos(t *testing.T) {
	f := testutil.NewFixture()
	uc := reporting.NewUseCase(f.Reports)

	seedReportItem(t, f, "Sofá imperio", 2, 0, 500)
	retired := seedReportItem(t, f, "Piano desafinado", 1, 0, 900)
	retired.Status = entity.ItemStatusDiscontinued
	require.NoError(t, f.Items.Update(retired))

	total, err := uc.Valuation(context.Background())
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1000)), "los retirados no se valorizan: %s", total)
}

func TestStockRows(t *testing.T) {
	f := testutil.NewFixture()
	uc := reporting.NewUseCase(f.Reports)

	seedReportItem(t, f, "Arpa", 3, 0, 700)
	seedReportItem(t, f, "Violín", 5, 0, 300)

	rows, err := uc.StockRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Arpa", rows[0].Name)
	assert.True(t, rows[0].Value.Equal(decimal.NewFromInt(2100)))
}
