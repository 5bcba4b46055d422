package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/application/recon"
	"github.com/atrezzo-rental/almacen-api/internal/infrastructure/excel"
	"github.com/atrezzo-rental/almacen-api/internal/infrastructure/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler maneja las sesiones de conteo físico vía HTTP.
type InventoryHandler struct {
	uc *recon.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *recon.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// Start godoc
// @Summary      Iniciar sesión de conteo
// @Description  Congela la foto de cantidades de los artículos seleccionados
// @Description  (todos los activos, o los de las categorías dadas) y deja la
// @Description  sesión en in_progress.
// @Tags         inventories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryRequest  true  "Nombre y alcance"
// @Success      201   {object}  dto.InventoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventories [post]
func (h *InventoryHandler) Start(c *fiber.Ctx) error {
	creatorID := GetOperatorID(c)
	if creatorID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Start(c.Context(), creatorID, in)
	if err != nil {
		return fail(c, err)
	}
	metrics.InventoryOpened()
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Sesión de conteo con sus renglones
// @Tags         inventories
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	inv, recs, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"inventory": inv, "records": recs})
}

// List godoc
// @Summary      Listar sesiones de conteo
// @Tags         inventories
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.InventoryListResponse
// @Router       /api/inventories [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.Context(), page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// RecordCount godoc
// @Summary      Asentar conteo físico de un artículo
// @Tags         inventories
// @Accept       json
// @Produce      json
// @Param        id      path  string                  true  "ID de la sesión"
// @Param        itemId  path  string                  true  "ID del artículo"
// @Param        body    body  dto.RecordCountRequest  true  "Cantidad contada"
// @Success      200     {object}  dto.InventoryRecordResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/records/{itemId} [put]
func (h *InventoryHandler) RecordCount(c *fiber.Ctx) error {
	checkerID := GetOperatorID(c)
	if checkerID == "" {
		return unauthorized(c)
	}
	var in dto.RecordCountRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordCount(c.Context(), c.Params("id"), c.Params("itemId"), checkerID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ApplyAdjustment godoc
// @Summary      Aplicar ajuste de un registro contado
// @Description  Con diferencia distinta de cero emite un "adjust" por el
// @Description  libro de operaciones; con diferencia cero solo finaliza el
// @Description  registro. Devuelve la operación emitida, o nada.
// @Tags         inventories
// @Produce      json
// @Param        id      path  string  true  "ID de la sesión"
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200     {object}  dto.OperationResponse
// @Success      204
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/records/{itemId}/adjust [post]
func (h *InventoryHandler) ApplyAdjustment(c *fiber.Ctx) error {
	checkerID := GetOperatorID(c)
	if checkerID == "" {
		return unauthorized(c)
	}
	op, err := h.uc.ApplyAdjustment(c.Context(), c.Params("id"), c.Params("itemId"), checkerID)
	if err != nil {
		return fail(c, err)
	}
	if op == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	metrics.OperationApplied(op.Type)
	return c.JSON(toOperationResponse(op))
}

// Complete godoc
// @Summary      Cerrar sesión de conteo
// @Description  Solo procede sin registros pending; el cierre es terminal.
// @Tags         inventories
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/complete [post]
func (h *InventoryHandler) Complete(c *fiber.Ctx) error {
	completerID := GetOperatorID(c)
	if completerID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Complete(c.Context(), c.Params("id"), completerID)
	if err != nil {
		return fail(c, err)
	}
	metrics.InventoryClosed()
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar sesión de conteo
// @Description  Los ajustes ya aplicados son asientos válidos y no se revierten.
// @Tags         inventories
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/cancel [post]
func (h *InventoryHandler) Cancel(c *fiber.Ctx) error {
	if GetOperatorID(c) == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Cancel(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	metrics.InventoryClosed()
	return c.JSON(out)
}

// CountSheet godoc
// @Summary      Hoja de conteo en Excel
// @Description  Un renglón por artículo con la cantidad del sistema y la
// @Description  columna de conteo en blanco para llenar en bodega.
// @Tags         inventories
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventories/{id}/sheet [get]
func (h *InventoryHandler) CountSheet(c *fiber.Ctx) error {
	inv, rows, err := h.uc.CountSheetRows(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	buf, err := excel.CountSheet(inv, rows)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="conteo_%s.xlsx"`, inv.ID))
	return c.Send(buf.Bytes())
}
