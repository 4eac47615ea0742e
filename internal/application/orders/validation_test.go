package orders

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pedidos-pro/internal/application/dto"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

// dec es un atajo para los campos decimales opcionales de las líneas.
func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func peticionValida() dto.CreateOrderRequest {
	orderDate := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return dto.CreateOrderRequest{
		OrderNumber:   "PED-2026-001",
		CustomerID:    "c1",
		OrderDate:     orderDate,
		PaymentMethod: "CREDITO",
		CreditDays:    30,
		Items: []dto.OrderItemRequest{
			{ProductID: "p1", QuantityBoxes: 2, QuantityLoose: 5},
		},
	}
}

func TestValidateCreateOrder_PeticionValidaPasa(t *testing.T) {
	assert.NoError(t, ValidateCreateOrder(peticionValida()))
}

// Todas las violaciones estructurales se reportan en una sola pasada, cada
// una bajo la ruta de su campo.
func TestValidateCreateOrder_ReportaTodasLasViolaciones(t *testing.T) {
	in := dto.CreateOrderRequest{
		OrderNumber:        "-arranca-con-guion",
		CustomerID:         "",
		PaymentMethod:      "",
		CreditDays:         400,
		DiscountPercentage: decimal.NewFromInt(150),
		Status:             "ARCHIVADO",
		Items:              nil,
	}

	err := ValidateCreateOrder(in)
	require.Error(t, err)

	var ve *order.ValidationError
	require.True(t, errors.As(err, &ve))
	for _, field := range []string{
		"order_number", "customer_id", "order_date", "payment_method",
		"credit_days", "discount_percentage", "status", "items",
	} {
		assert.Contains(t, ve.Fields, field, "debe reportar la violación de %s", field)
	}
}

func TestValidateCreateOrder_NumeroDePedido(t *testing.T) {
	cases := []struct {
		number string
		valido bool
	}{
		{"PED-2026-001", true},
		{"A1", true},
		{"pedido_55", true},
		{"P", false},                  // muy corto
		{"_arranca-mal", false},       // debe iniciar alfanumérico
		{"tiene espacios no", false},  // caracteres fuera del set
		{"PED#99", false},             // símbolo no permitido
	}
	for _, tc := range cases {
		in := peticionValida()
		in.OrderNumber = tc.number
		err := ValidateCreateOrder(in)
		if tc.valido {
			assert.NoError(t, err, "el número %q debe pasar", tc.number)
		} else {
			assert.Error(t, err, "el número %q debe fallar", tc.number)
		}
	}
}

func TestValidateCreateOrder_FechasAnterioresAlPedidoFallan(t *testing.T) {
	in := peticionValida()
	anterior := in.OrderDate.AddDate(0, 0, -1)
	in.DeliveryDate = &anterior
	in.DueDate = &anterior

	err := ValidateCreateOrder(in)
	require.Error(t, err)

	var ve *order.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "delivery_date")
	assert.Contains(t, ve.Fields, "due_date")
}

func TestValidateCreateOrder_ViolacionesPorItem(t *testing.T) {
	in := peticionValida()
	in.Items = []dto.OrderItemRequest{
		{ProductID: "", QuantityBoxes: -1, QuantityLoose: 0, UnitPrice: dec("-5")},
		{ProductID: "p2", QuantityBoxes: 1, DiscountPercentage: decimal.NewFromInt(101), TaxRate: dec("120")},
	}

	err := ValidateCreateOrder(in)
	require.Error(t, err)

	var ve *order.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "items[0].product_id")
	assert.Contains(t, ve.Fields, "items[0].quantity_boxes")
	assert.Contains(t, ve.Fields, "items[0].unit_price")
	assert.Contains(t, ve.Fields, "items[1].discount_percentage")
	assert.Contains(t, ve.Fields, "items[1].tax_rate")
}

func TestValidateCreateOrder_ItemSinUnidadesFalla(t *testing.T) {
	in := peticionValida()
	in.Items = []dto.OrderItemRequest{{ProductID: "p1"}}

	err := ValidateCreateOrder(in)
	require.Error(t, err)

	var ve *order.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "items[0].quantity")
}

func TestValidateCreateOrder_MasDeCienItemsFalla(t *testing.T) {
	in := peticionValida()
	in.Items = make([]dto.OrderItemRequest, order.MaxItemsPerOrder+1)
	for i := range in.Items {
		in.Items[i] = dto.OrderItemRequest{ProductID: "p1", QuantityLoose: 1}
	}

	err := ValidateCreateOrder(in)
	require.Error(t, err)

	var ve *order.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "items")
}
