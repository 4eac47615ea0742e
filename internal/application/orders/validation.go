package orders

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pedidos-pro/internal/application/dto"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

// Límites de la validación estructural de creación de pedidos.
const (
	MaxCreditDays = 365
)

// orderNumberRe: alfanumérico, guiones y guiones bajos; inicia alfanumérico;
// 2 a 50 caracteres en total.
var orderNumberRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{1,49}$`)

var hundred = decimal.NewFromInt(100)

func pctOutOfRange(p decimal.Decimal) bool {
	return p.IsNegative() || p.GreaterThan(hundred)
}

// ValidateCreateOrder corre la validación estructural de la petición de
// creación. Recorre todo el payload y acumula cada violación bajo la ruta de
// su campo; retorna nil si el payload es estructuralmente válido. Las reglas
// de negocio (crédito, techos, duplicados) corren después, sobre datos ya
// valorizados.
func ValidateCreateOrder(in dto.CreateOrderRequest) error {
	ve := order.NewValidationError("pedido inválido")

	if !orderNumberRe.MatchString(in.OrderNumber) {
		ve.Addf("order_number", "debe ser alfanumérico (se permiten - y _), de 2 a 50 caracteres, iniciando con letra o dígito")
	}
	if in.CustomerID == "" {
		ve.Addf("customer_id", "el cliente es requerido")
	}
	if in.OrderDate.IsZero() {
		ve.Addf("order_date", "la fecha del pedido es requerida")
	} else {
		if in.DeliveryDate != nil && in.DeliveryDate.Before(in.OrderDate) {
			ve.Addf("delivery_date", "no puede ser anterior a la fecha del pedido")
		}
		if in.DueDate != nil && in.DueDate.Before(in.OrderDate) {
			ve.Addf("due_date", "no puede ser anterior a la fecha del pedido")
		}
	}
	if in.PaymentMethod == "" {
		ve.Addf("payment_method", "el método de pago es requerido")
	}
	if in.CreditDays < 0 || in.CreditDays > MaxCreditDays {
		ve.Addf("credit_days", "debe estar entre 0 y %d días", MaxCreditDays)
	}
	if pctOutOfRange(in.DiscountPercentage) {
		ve.Addf("discount_percentage", "debe estar entre 0 y 100")
	}
	if in.Status != "" && !order.Status(in.Status).IsValid() {
		ve.Addf("status", "estado comercial desconocido: %s", in.Status)
	}

	switch {
	case len(in.Items) < order.MinItemsPerOrder:
		ve.Addf("items", "el pedido requiere al menos %d ítem", order.MinItemsPerOrder)
	case len(in.Items) > order.MaxItemsPerOrder:
		ve.Addf("items", "el pedido admite máximo %d ítems", order.MaxItemsPerOrder)
	}

	for i, item := range in.Items {
		validateItem(ve, i, item)
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateItem(ve *order.ValidationError, i int, item dto.OrderItemRequest) {
	field := func(name string) string {
		return fmt.Sprintf("items[%d].%s", i, name)
	}
	if item.ProductID == "" {
		ve.Addf(field("product_id"), "el producto es requerido")
	}
	if item.QuantityBoxes < 0 {
		ve.Addf(field("quantity_boxes"), "no puede ser negativa")
	}
	if item.QuantityLoose < 0 {
		ve.Addf(field("quantity_loose"), "no puede ser negativa")
	}
	if item.QuantityBoxes == 0 && item.QuantityLoose == 0 {
		ve.Addf(field("quantity"), "el ítem debe pedir al menos una unidad (cajas o sueltas)")
	}
	if item.UnitPrice != nil && item.UnitPrice.IsNegative() {
		ve.Addf(field("unit_price"), "no puede ser negativo")
	}
	if pctOutOfRange(item.DiscountPercentage) {
		ve.Addf(field("discount_percentage"), "debe estar entre 0 y 100")
	}
	if item.TaxRate != nil && pctOutOfRange(*item.TaxRate) {
		ve.Addf(field("tax_rate"), "debe estar entre 0 y 100")
	}
	if len(item.Notes) > order.MaxItemNotesLength {
		ve.Addf(field("notes"), "máximo %d caracteres", order.MaxItemNotesLength)
	}
}
