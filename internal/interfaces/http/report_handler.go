package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/atrezzo-rental/almacen-api/internal/application/reporting"
	"github.com/atrezzo-rental/almacen-api/internal/infrastructure/excel"
)

// ReportHandler maneja las vistas derivadas de solo lectura.
type ReportHandler struct {
	uc *reporting.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reporting.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Stats godoc
// @Summary      Agregados del inventario
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Router       /api/reports/stats [get]
func (h *ReportHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Valuation godoc
// @Summary      Valor total del inventario activo
// @Tags         reports
// @Produce      json
// @Success      200
// @Router       /api/reports/valuation [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	total, err := h.uc.Valuation(c.Context())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total_value": total})
}

// StockSheet godoc
// @Summary      Existencias valorizadas en Excel
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/reports/stock.xlsx [get]
func (h *ReportHandler) StockSheet(c *fiber.Ctx) error {
	rows, err := h.uc.StockRows(c.Context())
	if err != nil {
		return fail(c, err)
	}
	buf, err := excel.StockSheet(rows)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="existencias_`+time.Now().Format("2006-01-02")+`.xlsx"`)
	return c.Send(buf.Bytes())
}
