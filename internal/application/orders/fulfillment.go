package orders

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tu-usuario/pedidos-pro/internal/application/dto"
	"github.com/tu-usuario/pedidos-pro/internal/domain"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
	"github.com/tu-usuario/pedidos-pro/internal/domain/repository"
)

// FulfillmentUseCase opera la máquina de estados de fulfillment sobre pedidos
// persistidos: carga el agregado, ejecuta la transición y guarda el snapshot
// nuevo con concurrencia optimista. Una transición perdida contra otra
// concurrente aflora como domain.ErrStaleSnapshot.
type FulfillmentUseCase struct {
	orderRepo repository.OrderRepository
	log       zerolog.Logger
}

// NewFulfillmentUseCase construye el caso de uso.
func NewFulfillmentUseCase(orderRepo repository.OrderRepository, log zerolog.Logger) *FulfillmentUseCase {
	return &FulfillmentUseCase{orderRepo: orderRepo, log: log}
}

// load trae el agregado y verifica pertenencia a la empresa.
func (uc *FulfillmentUseCase) load(companyID, orderID string) (*order.Order, error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if o.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

// persist guarda el snapshot transicionado y emite el log de la transición.
func (uc *FulfillmentUseCase) persist(next *order.Order) (*dto.OrderResponse, error) {
	if err := uc.orderRepo.Update(next); err != nil {
		return nil, err
	}
	last := next.AuditTrail[len(next.AuditTrail)-1]
	uc.log.Info().
		Str("order_id", next.ID).
		Str("action", string(last.Action)).
		Str("from", string(last.PreviousStatus)).
		Str("to", string(last.NewStatus)).
		Int("version", next.Version).
		Msg("transición de fulfillment")
	return toOrderResponse(next), nil
}

// Get obtiene el pedido completo con su bitácora.
func (uc *FulfillmentUseCase) Get(ctx context.Context, companyID, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.load(companyID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// GetByNumber obtiene el pedido por su número de negocio (único por empresa).
func (uc *FulfillmentUseCase) GetByNumber(ctx context.Context, companyID, orderNumber string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByCompanyAndNumber(companyID, orderNumber)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(o), nil
}

// List lista pedidos de la empresa, opcionalmente filtrados por estado de
// fulfillment.
func (uc *FulfillmentUseCase) List(ctx context.Context, companyID, fulfillmentStatus string, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	if fulfillmentStatus != "" && !order.FulfillmentStatus(fulfillmentStatus).IsValid() {
		ve := order.NewValidationError("filtro inválido")
		ve.Addf("fulfillment_status", "estado de fulfillment desconocido: %s", fulfillmentStatus)
		return nil, ve
	}
	list, err := uc.orderRepo.ListByCompany(companyID, fulfillmentStatus, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.orderRepo.CountByCompany(companyID, fulfillmentStatus)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Orders: out,
		Page:   dto.PageResponse{Total: total, Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// StartPicking inicia el alistamiento del pedido.
func (uc *FulfillmentUseCase) StartPicking(ctx context.Context, companyID, userID, orderID string, in dto.StartPickingRequest) (*dto.OrderResponse, error) {
	o, err := uc.load(companyID, orderID)
	if err != nil {
		return nil, err
	}
	var worker *order.WorkerSnapshot
	if in.WorkerID != "" {
		worker = &order.WorkerSnapshot{ID: in.WorkerID, Name: in.WorkerName}
	}
	next, err := o.StartPicking(userID, worker, in.Notes)
	if err != nil {
		return nil, err
	}
	return uc.persist(next)
}

// CompletePicking cierra el alistamiento y deja el pedido empacado.
func (uc *FulfillmentUseCase) CompletePicking(ctx context.Context, companyID, userID, orderID string, in dto.CompletePickingRequest) (*dto.OrderResponse, error) {
	o, err := uc.load(companyID, orderID)
	if err != nil {
		return nil, err
	}
	next, err := o.CompletePicking(userID, in.Notes)
	if err != nil {
		return nil, err
	}
	return uc.persist(next)
}

// Ship despacha el pedido.
func (uc *FulfillmentUseCase) Ship(ctx context.Context, companyID, userID, orderID string, in dto.ShipOrderRequest) (*dto.OrderResponse, error) {
	o, err := uc.load(companyID, orderID)
	if err != nil {
		return nil, err
	}
	next, err := o.Ship(userID, in.TrackingNumber, in.Carrier, in.Notes)
	if err != nil {
		return nil, err
	}
	return uc.persist(next)
}

// Deliver marca el pedido como entregado.
func (uc *FulfillmentUseCase) Deliver(ctx context.Context, companyID, userID, orderID string, in dto.DeliverOrderRequest) (*dto.OrderResponse, error) {
	o, err := uc.load(companyID, orderID)
	if err != nil {
		return nil, err
	}
	next, err := o.Deliver(userID, in.DeliveredAt, in.RecipientName, in.Notes)
	if err != nil {
		return nil, err
	}
	return uc.persist(next)
}

// MarkPartial registra un cumplimiento parcial con su razón.
func (uc *FulfillmentUseCase) MarkPartial(ctx context.Context, companyID, userID, orderID string, in dto.PartialFulfillmentRequest) (*dto.OrderResponse, error) {
	o, err := uc.load(companyID, orderID)
	if err != nil {
		return nil, err
	}
	next, err := o.MarkPartialFulfillment(userID, in.Reason, in.AffectedItems, in.Notes)
	if err != nil {
		return nil, err
	}
	return uc.persist(next)
}

// Rollback retrocede el fulfillment a un estado anterior de la cadena.
func (uc *FulfillmentUseCase) Rollback(ctx context.Context, companyID, userID, orderID string, in dto.RollbackFulfillmentRequest) (*dto.OrderResponse, error) {
	target := order.FulfillmentStatus(in.TargetStatus)
	if !target.IsValid() {
		ve := order.NewValidationError("destino de rollback inválido")
		ve.Addf("target_status", "estado de fulfillment desconocido: %s", in.TargetStatus)
		return nil, ve
	}
	o, err := uc.load(companyID, orderID)
	if err != nil {
		return nil, err
	}
	next, err := o.RollbackFulfillment(userID, target, in.Reason, in.Notes)
	if err != nil {
		return nil, err
	}
	return uc.persist(next)
}

// BulkShip despacha un lote de pedidos con éxito parcial explícito: cada
// pedido del lote se procesa de forma independiente y reporta su propio
// resultado; el conflicto de uno no aborta los demás.
func (uc *FulfillmentUseCase) BulkShip(ctx context.Context, companyID, userID string, in dto.BulkShipRequest) []dto.BulkShipResult {
	results := make([]dto.BulkShipResult, 0, len(in.Orders))
	for _, req := range in.Orders {
		resp, err := uc.Ship(ctx, companyID, userID, req.OrderID, dto.ShipOrderRequest{
			TrackingNumber: req.TrackingNumber,
			Carrier:        req.Carrier,
			Notes:          req.Notes,
		})
		if err != nil {
			results = append(results, dto.BulkShipResult{
				OrderID: req.OrderID,
				Success: false,
				Error:   toErrorResponse(err),
			})
			continue
		}
		results = append(results, dto.BulkShipResult{
			OrderID:           req.OrderID,
			Success:           true,
			FulfillmentStatus: resp.FulfillmentStatus,
		})
	}
	return results
}
