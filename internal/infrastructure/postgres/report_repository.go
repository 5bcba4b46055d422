package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes. Pasar pool (lecturas sin lock).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// Stats agregados del inventario en una sola pasada.
func (r *ReportRepo) Stats(recentSince time.Time) (*repository.StockStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM items),
			(SELECT COUNT(*) FROM categories),
			(SELECT COUNT(*) FROM items WHERE status = $1 AND current_quantity <= min_quantity),
			(SELECT COUNT(*) FROM items WHERE status = $1 AND current_quantity = 0),
			(SELECT COUNT(*) FROM operations WHERE created_at >= $2),
			(SELECT COALESCE(SUM(current_quantity * cost), 0) FROM items WHERE status = $1)`
	var s repository.StockStats
	err := r.q.QueryRow(context.Background(), query, entity.ItemStatusActive, recentSince).Scan(
		&s.TotalItems, &s.TotalCategories, &s.LowStockCount, &s.OutOfStockCount,
		&s.RecentOperationCount, &s.TotalValue,
	)
	if err != nil {
		return nil, fmt.Errorf("stock stats: %w", err)
	}
	return &s, nil
}

// Valuation suma current_quantity * cost de los artículos activos.
func (r *ReportRepo) Valuation() (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(current_quantity * cost), 0) FROM items WHERE status = $1`,
		entity.ItemStatusActive).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("valuation: %w", err)
	}
	return total, nil
}

// StockRows renglones de existencias valorizadas (export a Excel).
func (r *ReportRepo) StockRows() ([]*repository.StockRow, error) {
	query := `
		SELECT id, COALESCE(sku, ''), name, unit, current_quantity, reserved_quantity,
			cost, current_quantity * cost
		FROM items WHERE status = $1 ORDER BY name`
	rows, err := r.q.Query(context.Background(), query, entity.ItemStatusActive)
	if err != nil {
		return nil, fmt.Errorf("stock rows: %w", err)
	}
	defer rows.Close()
	var list []*repository.StockRow
	for rows.Next() {
		var row repository.StockRow
		if err := rows.Scan(&row.ItemID, &row.SKU, &row.Name, &row.Unit,
			&row.CurrentQuantity, &row.ReservedQuantity, &row.Cost, &row.Value); err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, &row)
	}
	return list, rows.Err()
}
