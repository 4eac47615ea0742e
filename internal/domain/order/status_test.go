package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

func TestStatus_IsValid(t *testing.T) {
	for _, s := range []order.Status{
		order.StatusPending, order.StatusConfirmed, order.StatusProcessing,
		order.StatusDelivered, order.StatusCancelled,
	} {
		assert.True(t, s.IsValid(), "%s debe ser válido", s)
	}
	assert.False(t, order.Status("DRAFT").IsValid())
	assert.False(t, order.Status("").IsValid())
}

func TestStatus_AllowsPickingStart(t *testing.T) {
	assert.True(t, order.StatusConfirmed.AllowsPickingStart())
	assert.True(t, order.StatusProcessing.AllowsPickingStart())
	assert.False(t, order.StatusPending.AllowsPickingStart())
	assert.False(t, order.StatusDelivered.AllowsPickingStart())
	assert.False(t, order.StatusCancelled.AllowsPickingStart())
}

func TestFulfillmentStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.FulfillmentDelivered.IsTerminal())
	for _, s := range []order.FulfillmentStatus{
		order.FulfillmentPending, order.FulfillmentPicking, order.FulfillmentPacked,
		order.FulfillmentShipped, order.FulfillmentPartial,
	} {
		assert.False(t, s.IsTerminal(), "%s no es terminal", s)
	}
}

func TestFulfillmentStatus_CanRollbackTo(t *testing.T) {
	cases := []struct {
		from, to order.FulfillmentStatus
		want     bool
	}{
		{order.FulfillmentPicking, order.FulfillmentPending, true},
		{order.FulfillmentPacked, order.FulfillmentPicking, true},
		{order.FulfillmentPacked, order.FulfillmentPacked, true}, // mismo estado permitido
		{order.FulfillmentShipped, order.FulfillmentPending, true},
		{order.FulfillmentPartial, order.FulfillmentShipped, true}, // PARTIAL comparte rango con SHIPPED
		{order.FulfillmentPartial, order.FulfillmentPending, true},
		{order.FulfillmentPicking, order.FulfillmentShipped, false}, // hacia adelante
		{order.FulfillmentDelivered, order.FulfillmentShipped, false}, // terminal
		{order.FulfillmentPacked, order.FulfillmentPartial, false}, // PARTIAL no es destino
		{order.FulfillmentPacked, order.FulfillmentDelivered, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.from.CanRollbackTo(c.to), "%s -> %s", c.from, c.to)
	}
}
