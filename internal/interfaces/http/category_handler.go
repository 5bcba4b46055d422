package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/atrezzo-rental/almacen-api/internal/application/catalog"
	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
)

// CategoryHandler maneja las peticiones HTTP del grafo de categorías.
type CategoryHandler struct {
	uc *catalog.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *catalog.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// CreateOrGet godoc
// @Summary      Crear categoría (idempotente por nombre y padre)
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Nombre y padre opcional"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) CreateOrGet(c *fiber.Ctx) error {
	if GetOperatorID(c) == "" {
		return unauthorized(c)
	}
	var in dto.CreateCategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateOrGet(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar todas las categorías
// @Tags         categories
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "categories": out})
}

// Reparent godoc
// @Summary      Mover categoría bajo otro padre
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  object  true  "parent_id nuevo; vacío la vuelve raíz"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/parent [put]
func (h *CategoryHandler) Reparent(c *fiber.Ctx) error {
	if GetOperatorID(c) == "" {
		return unauthorized(c)
	}
	var in struct {
		ParentID string `json:"parent_id"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Reparent(c.Params("id"), in.ParentID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// FullPath godoc
// @Summary      Ruta completa desde la raíz
// @Tags         categories
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryPathResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/path [get]
func (h *CategoryHandler) FullPath(c *fiber.Ctx) error {
	id := c.Params("id")
	path, err := h.uc.FullPath(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.CategoryPathResponse{ID: id, Path: path})
}

// ItemCount godoc
// @Summary      Conteo de artículos activos de la categoría
// @Tags         categories
// @Produce      json
// @Param        id                   path   string  true   "ID de la categoría"
// @Param        include_descendants  query  bool    false  "Incluir el subárbol completo"
// @Success      200  {object}  dto.CategoryCountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/items/count [get]
func (h *CategoryHandler) ItemCount(c *fiber.Ctx) error {
	id := c.Params("id")
	includeDescendants := c.QueryBool("include_descendants", false)
	n, err := h.uc.ItemCount(id, includeDescendants)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.CategoryCountResponse{ID: id, ItemCount: n, IncludeDescendants: includeDescendants})
}

// Delete godoc
// @Summary      Borrar categoría vacía (sin miembros ni hijos)
// @Tags         categories
// @Param        id  path  string  true  "ID de la categoría"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if GetOperatorID(c) == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
