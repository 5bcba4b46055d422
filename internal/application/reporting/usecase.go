package reporting

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/domain/repository"
)

// Ventana de "operaciones recientes" para el tablero.
const recentWindow = 24 * time.Hour

// UseCase vistas derivadas de solo lectura: agregados y valorización.
// Todo se calcula bajo demanda contra el estado actual del libro.
type UseCase struct {
	repo repository.ReportRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.ReportRepository) *UseCase {
	return &UseCase{repo: repo}
}

// Stats agregados del inventario (sin efectos secundarios, sin caché).
func (uc *UseCase) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	s, err := uc.repo.Stats(time.Now().Add(-recentWindow))
	if err != nil {
		return nil, err
	}
	return &dto.StatsResponse{
		TotalItems:           s.TotalItems,
		TotalCategories:      s.TotalCategories,
		LowStockCount:        s.LowStockCount,
		OutOfStockCount:      s.OutOfStockCount,
		TotalValue:           s.TotalValue,
		RecentOperationCount: s.RecentOperationCount,
	}, nil
}

// Valuation valor total del inventario activo (cantidad x costo).
func (uc *UseCase) Valuation(ctx context.Context) (decimal.Decimal, error) {
	return uc.repo.Valuation()
}

// StockRows renglones de existencias valorizadas para el export a Excel.
func (uc *UseCase) StockRows(ctx context.Context) ([]*repository.StockRow, error) {
	return uc.repo.StockRows()
}
