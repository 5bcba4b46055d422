package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/atrezzo-rental/almacen-api/internal/application/catalog"
	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
)

// ItemHandler maneja las peticiones HTTP del catálogo de artículos.
type ItemHandler struct {
	uc *catalog.ItemUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *catalog.ItemUseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear artículo
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "Datos del artículo; opening_quantity genera la operación inicial"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	operatorID := GetOperatorID(c)
	if operatorID == "" {
		return unauthorized(c)
	}
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), operatorID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener artículo por ID
// @Tags         items
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar artículo (sin campos de cantidad)
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del artículo"
// @Param        body  body  dto.UpdateItemRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	if GetOperatorID(c) == "" {
		return unauthorized(c)
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// SetCategories godoc
// @Summary      Reemplazar categorías del artículo
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del artículo"
// @Param        body  body  dto.SetCategoriesRequest  true  "Conjunto completo de categorías"
// @Success      200   {object}  dto.ItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/categories [put]
func (h *ItemHandler) SetCategories(c *fiber.Ctx) error {
	if GetOperatorID(c) == "" {
		return unauthorized(c)
	}
	var in dto.SetCategoriesRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id := c.Params("id")
	if err := h.uc.SetCategories(c.Context(), id, in.CategoryIDs); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar artículos
// @Tags         items
// @Produce      json
// @Param        q             query  string  false  "Texto: nombre, barcode, SKU o descripción"
// @Param        category_ids  query  string  false  "IDs de categoría separados por coma (OR)"
// @Param        status        query  string  false  "active, inactive o discontinued"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) Search(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	var categoryIDs []string
	if raw := c.Query("category_ids"); raw != "" {
		categoryIDs = strings.Split(raw, ",")
	}
	out, err := h.uc.Search(page, c.Query("q"), categoryIDs, c.Query("status"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Artículos en o por debajo del umbral mínimo
// @Tags         items
// @Produce      json
// @Success      200  {array}  dto.ItemResponse
// @Router       /api/items/low-stock [get]
func (h *ItemHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}
