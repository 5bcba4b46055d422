package dto

import "github.com/shopspring/decimal"

// StatsResponse agregados del inventario, calculados bajo demanda.
type StatsResponse struct {
	TotalItems           int             `json:"total_items"`
	TotalCategories      int             `json:"total_categories"`
	LowStockCount        int             `json:"low_stock_count"`
	OutOfStockCount      int             `json:"out_of_stock_count"`
	TotalValue           decimal.Decimal `json:"total_value"`
	RecentOperationCount int             `json:"recent_operation_count"`
}
