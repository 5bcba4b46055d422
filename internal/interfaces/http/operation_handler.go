package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/atrezzo-rental/almacen-api/internal/application/dto"
	"github.com/atrezzo-rental/almacen-api/internal/application/ledger"
	"github.com/atrezzo-rental/almacen-api/internal/domain"
	"github.com/atrezzo-rental/almacen-api/internal/domain/entity"
	"github.com/atrezzo-rental/almacen-api/internal/infrastructure/metrics"
)

// OperationHandler maneja el libro de operaciones vía HTTP.
type OperationHandler struct {
	uc *ledger.UseCase
}

// NewOperationHandler construye el handler.
func NewOperationHandler(uc *ledger.UseCase) *OperationHandler {
	return &OperationHandler{uc: uc}
}

// Apply godoc
// @Summary      Asentar una operación en el libro
// @Description  Único punto de entrada de mutación de cantidades. El signo
// @Description  de quantity_change va según el tipo; transfer exige document_ref.
// @Tags         operations
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyOperationRequest  true  "Operación a asentar"
// @Success      201   {object}  dto.OperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/operations [post]
func (h *OperationHandler) Apply(c *fiber.Ctx) error {
	operatorID := GetOperatorID(c)
	if operatorID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	op, err := h.uc.Apply(c.Context(), ledger.ApplyInput{
		ItemID:         in.ItemID,
		Type:           in.Type,
		QuantityChange: in.QuantityChange,
		Reason:         in.Reason,
		Comment:        in.Comment,
		OperatorID:     operatorID,
		DocumentRef:    in.DocumentRef,
		OriginIP:       c.IP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			metrics.OperationRejected("validation")
		case errors.Is(err, domain.ErrInvariant):
			metrics.OperationRejected("invariant")
		case errors.Is(err, domain.ErrInvalidState):
			metrics.OperationRejected("state")
		}
		return fail(c, err)
	}
	metrics.OperationApplied(op.Type)
	return c.Status(fiber.StatusCreated).JSON(toOperationResponse(op))
}

// History godoc
// @Summary      Historial de operaciones de un artículo
// @Tags         operations
// @Produce      json
// @Param        id      path   string  true   "ID del artículo"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.OperationListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/operations [get]
func (h *OperationHandler) History(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	ops, err := h.uc.History(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return fail(c, err)
	}
	out := make([]dto.OperationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, *toOperationResponse(op))
	}
	return c.JSON(dto.OperationListResponse{
		Operations: out,
		Page:       dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Audit godoc
// @Summary      Auditar derivabilidad de la cantidad cacheada
// @Description  Compara la cantidad del artículo con la suma del libro.
// @Description  Una discrepancia se reporta, nunca se corrige en automático.
// @Tags         operations
// @Produce      json
// @Param        id   path  string  true  "ID del artículo"
// @Success      200  {object}  dto.AuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/audit [get]
func (h *OperationHandler) Audit(c *fiber.Ctx) error {
	out, err := h.uc.RecomputeFromLedger(c.Context(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func toOperationResponse(op *entity.Operation) *dto.OperationResponse {
	return &dto.OperationResponse{
		ID:             op.ID,
		ItemID:         op.ItemID,
		OperatorID:     op.OperatorID,
		Type:           op.Type,
		QuantityBefore: op.QuantityBefore,
		QuantityAfter:  op.QuantityAfter,
		QuantityChange: op.QuantityChange,
		ReservedBefore: op.ReservedBefore,
		ReservedAfter:  op.ReservedAfter,
		Reason:         op.Reason,
		Comment:        op.Comment,
		DocumentRef:    op.DocumentRef,
		OriginIP:       op.OriginIP,
		CreatedAt:      op.CreatedAt,
	}
}
