package testutil

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*MemReportRepo)(nil)

// MemReportRepo agregados calculados sobre el estado del fixture, con la
// misma semántica que las consultas SQL del adaptador real.
type MemReportRepo struct {
	f *Fixture
}

func (r *MemReportRepo) Stats(recentSince time.Time) (*repository.StockStats, error) {
	s := &repository.StockStats{
		TotalItems:      len(r.f.items),
		TotalCategories: len(r.f.cats),
		TotalValue:      decimal.Zero,
	}
	for _, item := range r.f.items {
		if item.Status != entity.ItemStatusActive {
			continue
		}
		if item.IsLowStock() {
			s.LowStockCount++
		}
		if item.CurrentQuantity == 0 {
			s.OutOfStockCount++
		}
		s.TotalValue = s.TotalValue.Add(item.Cost.Mul(decimal.NewFromInt(item.CurrentQuantity)))
	}
	for _, op := range r.f.ops {
		if !op.CreatedAt.Before(recentSince) {
			s.RecentOperationCount++
		}
	}
	return s, nil
}

func (r *MemReportRepo) Valuation() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range r.f.items {
		if item.Status == entity.ItemStatusActive {
			total = total.Add(item.Cost.Mul(decimal.NewFromInt(item.CurrentQuantity)))
		}
	}
	return total, nil
}

func (r *MemReportRepo) StockRows() ([]*repository.StockRow, error) {
	var rows []*repository.StockRow
	for _, item := range r.f.items {
		if item.Status != entity.ItemStatusActive {
			continue
		}
		rows = append(rows, &repository.StockRow{
			ItemID:           item.ID,
			SKU:              item.SKU,
			Name:             item.Name,
			Unit:             item.Unit,
			CurrentQuantity:  item.CurrentQuantity,
			ReservedQuantity: item.ReservedQuantity,
			Cost:             item.Cost,
			Value:            item.Cost.Mul(decimal.NewFromInt(item.CurrentQuantity)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}
