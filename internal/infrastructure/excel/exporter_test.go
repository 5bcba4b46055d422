package excel_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
	"github.com/atrezzo-rental/almacen-api/internal/infrastructure/excel"
)

func TestCountSheet(t *testing.T) {
	inv := &entity.Inventory{
		ID:        "inv-1",
		Name:      "Conteo agosto",
		Status:    entity.InventoryStatusInProgress,
		StartedAt: time.Now(),
	}
	counted := int64(7)
	rows := []*repository.CountSheetRow{
		{ItemID: "item-1", SKU: "COL-001", Name: "Columna griega", Unit: "unidad",
			SystemQuantity: 10, Status: entity.RecordStatusPending},
		{ItemID: "item-2", SKU: "JAR-001", Name: "Jarrón etrusco", Unit: "unidad",
			SystemQuantity: 7, ActualQuantity: &counted, Status: entity.RecordStatusChecked},
	}

	buf, err := excel.CountSheet(inv, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err, "el archivo generado debe ser un xlsx válido")
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	head, err := f.GetCellValue(sheet, "F1")
	require.NoError(t, err)
	assert.Equal(t, "Conteo", head)

	name, err := f.GetCellValue(sheet, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Columna griega", name)

	// Sin conteo la columna queda vacía; con conteo lleva el valor
	blank, err := f.GetCellValue(sheet, "F2")
	require.NoError(t, err)
	assert.Empty(t, blank)
	filled, err := f.GetCellValue(sheet, "F3")
	require.NoError(t, err)
	assert.Equal(t, "7", filled)
}

func TestStockSheet(t *testing.T) {
	rows := []*repository.StockRow{
		{ItemID: "item-1", SKU: "ARP-001", Name: "Arpa", Unit: "unidad",
			CurrentQuantity: 3, Cost: decimal.NewFromInt(700), Value: decimal.NewFromInt(2100)},
	}

	buf, err := excel.StockSheet(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	value, err := f.GetCellValue(sheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "2100", value)
}
