package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

// CountSheet genera el xlsx de conteo para una sesión: un renglón por
// artículo con la cantidad del sistema y la columna "Conteo" en blanco
// para llenar en bodega.
func CountSheet(inv *entity.Inventory, rows []*repository.CountSheetRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"item_id", "sku", "nombre", "unidad", "cantidad_sistema",
		"Conteo", // columna a llenar durante el conteo físico
		"estado", "comentario",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("hoja de conteo (encabezado): %w", err)
	}

	for i, r := range rows {
		var actual interface{} = ""
		if r.ActualQuantity != nil {
			actual = *r.ActualQuantity
		}
		excelRow := []interface{}{
			r.ItemID, r.SKU, r.Name, r.Unit, r.SystemQuantity,
			actual, r.Status, r.Comment,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("hoja de conteo (celdas): %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("hoja de conteo (renglones): %w", err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("hoja de conteo (escritura): %w", err)
	}
	return buf, nil
}

// StockSheet genera el xlsx de existencias valorizadas.
func StockSheet(rows []*repository.StockRow) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"item_id", "sku", "nombre", "unidad",
		"cantidad", "reservada", "costo_unitario", "valor",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("hoja de existencias (encabezado): %w", err)
	}

	for i, r := range rows {
		excelRow := []interface{}{
			r.ItemID, r.SKU, r.Name, r.Unit,
			r.CurrentQuantity, r.ReservedQuantity,
			r.Cost.String(), r.Value.String(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("hoja de existencias (celdas): %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("hoja de existencias (renglones): %w", err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("hoja de existencias (escritura): %w", err)
	}
	return buf, nil
}
