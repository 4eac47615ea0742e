package orders

import (
	"errors"

	"github.com/tu-usuario/pedidos-pro/internal/application/dto"
	"github.com/tu-usuario/pedidos-pro/internal/domain"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

// toOrderResponse proyecta el agregado a su DTO de respuesta. Las
// valorizaciones por ítem no se persisten: se recalculan aquí.
func toOrderResponse(o *order.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		v := it.Valuate()
		items = append(items, dto.OrderItemResponse{
			ProductID:          it.ProductID,
			Code:               it.Code,
			Name:               it.Name,
			UnitPrice:          it.UnitPrice.Amount(),
			BoxSize:            it.BoxSize,
			QuantityBoxes:      it.QuantityBoxes,
			QuantityLoose:      it.QuantityLoose,
			TotalUnits:         v.TotalUnits,
			DiscountPercentage: it.DiscountPercentage,
			TaxRate:            it.TaxRate,
			Notes:              it.Notes,
			UnitTotal:          v.UnitTotal.Amount(),
			DiscountAmount:     v.DiscountAmount.Amount(),
			TaxAmount:          v.TaxAmount.Amount(),
			ItemTotal:          v.ItemTotal.Amount(),
		})
	}

	trail := make([]dto.AuditEntryResponse, 0, len(o.AuditTrail))
	for _, e := range o.AuditTrail {
		trail = append(trail, dto.AuditEntryResponse{
			PreviousStatus: string(e.PreviousStatus),
			NewStatus:      string(e.NewStatus),
			Action:         string(e.Action),
			PerformedBy:    e.PerformedBy,
			Timestamp:      e.Timestamp,
			Notes:          e.Notes,
			Metadata:       e.Metadata,
		})
	}

	return &dto.OrderResponse{
		ID:                 o.ID,
		CompanyID:          o.CompanyID,
		OrderNumber:        o.OrderNumber,
		OrderDate:          o.OrderDate,
		DeliveryDate:       o.DeliveryDate,
		DueDate:            o.DueDate,
		Customer: dto.OrderCustomer{
			ID:          o.Customer.ID,
			Code:        o.Customer.Code,
			Name:        o.Customer.Name,
			CreditLimit: o.Customer.CreditLimit.Amount(),
			Balance:     o.Customer.Balance.Amount(),
		},
		AreaID:             o.Area.ID,
		AreaName:           o.Area.Name,
		WorkerID:           o.Worker.ID,
		WorkerName:         o.Worker.Name,
		Items:              items,
		DiscountPercentage: o.DiscountPercentage,
		PaymentMethod:      o.PaymentMethod,
		CreditDays:         o.CreditDays,
		Status:             string(o.Status),
		FulfillmentStatus:  string(o.FulfillmentStatus),
		Totals: dto.OrderTotalsResponse{
			TotalItems:     o.Totals.TotalItems,
			TotalUnits:     o.Totals.TotalUnits,
			Currency:       o.Totals.SubtotalAmount.Currency(),
			SubtotalAmount: o.Totals.SubtotalAmount.Amount(),
			DiscountAmount: o.Totals.DiscountAmount.Amount(),
			TaxAmount:      o.Totals.TaxAmount.Amount(),
			TotalAmount:    o.Totals.TotalAmount.Amount(),
		},
		Version:    o.Version,
		CreatedBy:  o.CreatedBy,
		CreatedAt:  o.CreatedAt,
		UpdatedBy:  o.UpdatedBy,
		UpdatedAt:  o.UpdatedAt,
		AuditTrail: trail,
	}
}

// toErrorResponse traduce errores de dominio a su payload HTTP. Se usa en el
// despacho por lote, donde cada pedido del lote reporta su propio error sin
// abortar el resto.
func toErrorResponse(err error) *dto.ErrorResponse {
	var ve *order.ValidationError
	var re *order.RuleError
	var sc *order.StatusConflictError
	switch {
	case errors.As(err, &ve):
		return &dto.ErrorResponse{Code: "VALIDATION", Message: ve.Message, Fields: ve.Fields}
	case errors.As(err, &re):
		return &dto.ErrorResponse{Code: re.Code, Message: re.Message, Fields: re.Fields, Meta: re.Meta}
	case errors.As(err, &sc):
		return &dto.ErrorResponse{
			Code:    "STATUS_CONFLICT",
			Message: sc.Error(),
			Meta: map[string]string{
				"current_status":    string(sc.CurrentStatus),
				"commercial_status": string(sc.CommercialStatus),
				"operation":         sc.Operation,
			},
		}
	case errors.Is(err, domain.ErrStaleSnapshot):
		return &dto.ErrorResponse{Code: "STALE_SNAPSHOT", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return &dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return &dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()}
	default:
		return &dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()}
	}
}
