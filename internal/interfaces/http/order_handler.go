package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/pedidos-pro/internal/application/dto"
	"github.com/tu-usuario/pedidos-pro/internal/application/orders"
	"github.com/tu-usuario/pedidos-pro/internal/domain"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

// OrderHandler expone la creación de pedidos, el ciclo de fulfillment y la
// lista de alistamiento.
type OrderHandler struct {
	createUC      *orders.CreateOrderUseCase
	fulfillmentUC *orders.FulfillmentUseCase
	pickingUC     *orders.PickingListUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(
	createUC *orders.CreateOrderUseCase,
	fulfillmentUC *orders.FulfillmentUseCase,
	pickingUC *orders.PickingListUseCase,
) *OrderHandler {
	return &OrderHandler{createUC: createUC, fulfillmentUC: fulfillmentUC, pickingUC: pickingUC}
}

// respondOrderError traduce los errores del dominio de pedidos a HTTP.
// Violaciones de estructura van como 400, reglas de negocio como 422 y los
// conflictos (estado, snapshot viejo, número duplicado) como 409.
func respondOrderError(c *fiber.Ctx, err error) error {
	var ve *order.ValidationError
	var re *order.RuleError
	var sc *order.StatusConflictError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: ve.Message, Fields: ve.Fields,
		})
	case errors.As(err, &re):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: re.Code, Message: re.Message, Fields: re.Fields, Meta: re.Meta,
		})
	case errors.As(err, &sc):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "STATUS_CONFLICT",
			Message: sc.Error(),
			Meta: map[string]string{
				"current_status":    string(sc.CurrentStatus),
				"commercial_status": string(sc.CommercialStatus),
				"operation":         sc.Operation,
			},
		})
	case errors.Is(err, domain.ErrStaleSnapshot):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STALE_SNAPSHOT", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pedido no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el recurso no pertenece a tu empresa"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// Create crea un pedido mayorista.
// POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.createUC.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetByID obtiene el pedido completo con su bitácora de fulfillment.
// GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.fulfillmentUC.Get(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// GetByNumber obtiene el pedido por su número de negocio.
// GET /api/orders/number/:number
func (h *OrderHandler) GetByNumber(c *fiber.Ctx) error {
	resp, err := h.fulfillmentUC.GetByNumber(c.Context(), GetCompanyID(c), c.Params("number"))
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// List lista pedidos de la empresa, con filtro opcional por estado de
// fulfillment y paginación.
// GET /api/orders?fulfillment_status=PICKING&limit=20&offset=0
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	resp, err := h.fulfillmentUC.List(c.Context(), GetCompanyID(c), c.Query("fulfillment_status"), page)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// StartPicking inicia el alistamiento.
// POST /api/orders/:id/fulfillment/start-picking
func (h *OrderHandler) StartPicking(c *fiber.Ctx) error {
	var in dto.StartPickingRequest
	if err := c.BodyParser(&in); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.fulfillmentUC.StartPicking(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// CompletePicking cierra el alistamiento (pedido empacado).
// POST /api/orders/:id/fulfillment/complete-picking
func (h *OrderHandler) CompletePicking(c *fiber.Ctx) error {
	var in dto.CompletePickingRequest
	if err := c.BodyParser(&in); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.fulfillmentUC.CompletePicking(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// Ship despacha el pedido.
// POST /api/orders/:id/fulfillment/ship
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipOrderRequest
	if err := c.BodyParser(&in); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.fulfillmentUC.Ship(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// Deliver marca el pedido como entregado.
// POST /api/orders/:id/fulfillment/deliver
func (h *OrderHandler) Deliver(c *fiber.Ctx) error {
	var in dto.DeliverOrderRequest
	if err := c.BodyParser(&in); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.fulfillmentUC.Deliver(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// MarkPartial registra un cumplimiento parcial.
// POST /api/orders/:id/fulfillment/partial
func (h *OrderHandler) MarkPartial(c *fiber.Ctx) error {
	var in dto.PartialFulfillmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.fulfillmentUC.MarkPartial(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// Rollback retrocede el fulfillment a un estado anterior.
// POST /api/orders/:id/fulfillment/rollback
func (h *OrderHandler) Rollback(c *fiber.Ctx) error {
	var in dto.RollbackFulfillmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.fulfillmentUC.Rollback(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in)
	if err != nil {
		return respondOrderError(c, err)
	}
	return c.JSON(resp)
}

// BulkShip despacha un lote de pedidos con éxito parcial: siempre responde
// 200 y cada pedido del lote reporta su propio resultado.
// POST /api/orders/bulk/ship
func (h *OrderHandler) BulkShip(c *fiber.Ctx) error {
	var in dto.BulkShipRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if len(in.Orders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el lote no tiene pedidos"})
	}
	results := h.fulfillmentUC.BulkShip(c.Context(), GetCompanyID(c), GetUserID(c), in)
	return c.JSON(fiber.Map{"results": results})
}

// DownloadPickingList genera y descarga la lista de alistamiento en PDF.
// GET /api/orders/:id/picking-list
func (h *OrderHandler) DownloadPickingList(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.pickingUC.DownloadPickingList(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondOrderError(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
