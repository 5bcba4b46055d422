package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStats agregados del estado actual del inventario.
// Se calculan bajo demanda; nada se cachea ni se persiste.
type StockStats struct {
	TotalItems           int
	TotalCategories      int
	LowStockCount        int
	OutOfStockCount      int
	RecentOperationCount int
	TotalValue           decimal.Decimal
}

// StockRow renglón del reporte de existencias valorizadas.
type StockRow struct {
	ItemID           string
	SKU              string
	Name             string
	Unit             string
	CurrentQuantity  int64
	ReservedQuantity int64
	Cost             decimal.Decimal
	Value            decimal.Decimal // CurrentQuantity * Cost
}

// ReportRepository puerto de consultas agregadas (solo lectura).
type ReportRepository interface {
	Stats(recentSince time.Time) (*StockStats, error)
	// Valuation suma current_quantity * cost de los artículos activos.
	Valuation() (decimal.Decimal, error)
	StockRows() ([]*StockRow, error)
}
