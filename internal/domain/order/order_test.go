package order_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

const actor = "user-777"

// pedidoNuevo construye un pedido recién creado (fulfillment PENDING) con el
// estado comercial dado.
func pedidoNuevo(t *testing.T, commercial order.Status) *order.Order {
	t.Helper()
	items := []order.Item{itemReferencia(t), itemSecundario(t)}
	totals, err := order.CalculateTotals(items, decimal.Zero)
	require.NoError(t, err)

	return order.New(order.NewOrderParams{
		ID:            "ord-001",
		CompanyID:     "comp-001",
		OrderNumber:   "PED-2026-0001",
		OrderDate:     time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Customer:      clienteConCredito(t, "99999999.00", "0.00"),
		Area:          order.AreaSnapshot{ID: "area-01", Name: "Zona Norte"},
		Worker:        order.WorkerSnapshot{ID: "work-01", Name: "Vendedor Uno"},
		Items:         items,
		PaymentMethod: "CREDIT",
		CreditDays:    30,
		Status:        commercial,
		Totals:        totals,
		CreatedBy:     "user-creador",
	})
}

// ── Construcción ──────────────────────────────────────────────────────────────

func TestNew_EstadoInicial(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)

	assert.Equal(t, order.FulfillmentPending, o.FulfillmentStatus)
	assert.Equal(t, 1, o.Version)
	assert.Empty(t, o.AuditTrail)
	assert.Equal(t, "user-creador", o.CreatedBy)
}

// ── startPicking ──────────────────────────────────────────────────────────────

func TestStartPicking_DesdeConfirmed(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)

	picked, err := o.StartPicking(actor, nil, "inicio turno mañana")
	require.NoError(t, err)

	assert.Equal(t, order.FulfillmentPicking, picked.FulfillmentStatus)
	require.Len(t, picked.AuditTrail, 1, "exactamente una entrada de auditoría")
	entry := picked.AuditTrail[0]
	assert.Equal(t, order.FulfillmentPending, entry.PreviousStatus)
	assert.Equal(t, order.FulfillmentPicking, entry.NewStatus)
	assert.Equal(t, order.ActionStartPicking, entry.Action)
	assert.Equal(t, actor, entry.PerformedBy)
	assert.Equal(t, "inicio turno mañana", entry.Notes)
	assert.Equal(t, 2, picked.Version)
	assert.Equal(t, actor, picked.UpdatedBy)
}

func TestStartPicking_DesdeProcessing(t *testing.T) {
	o := pedidoNuevo(t, order.StatusProcessing)
	_, err := o.StartPicking(actor, nil, "")
	assert.NoError(t, err)
}

func TestStartPicking_ComercialDeliveredFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusDelivered)

	_, err := o.StartPicking(actor, nil, "")
	require.Error(t, err)

	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, order.FulfillmentPending, conflict.CurrentStatus)
	assert.Equal(t, "startPicking", conflict.Operation)
}

func TestStartPicking_ComercialPendingFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusPending)
	_, err := o.StartPicking(actor, nil, "")

	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestStartPicking_PedidoCanceladoFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusCancelled)
	_, err := o.StartPicking(actor, nil, "")

	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestStartPicking_AsignaTrabajador(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	picker := &order.WorkerSnapshot{ID: "work-99", Name: "Picker Nueve"}

	picked, err := o.StartPicking(actor, picker, "")
	require.NoError(t, err)

	assert.Equal(t, "work-99", picked.Worker.ID)
	assert.Equal(t, "work-99", picked.AuditTrail[0].Metadata["worker_id"])
	assert.Equal(t, "work-01", o.Worker.ID, "el snapshot original no cambia")
}

func TestStartPicking_SinUsuarioFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	_, err := o.StartPicking("  ", nil, "")

	var ve *order.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "user_id")
}

// ── Camino feliz completo ─────────────────────────────────────────────────────

// TestCicloCompleto: PENDING → PICKING → PACKED → SHIPPED → DELIVERED con
// exactamente 4 entradas de auditoría, y cada snapshot intermedio queda
// intacto después de aplicarse transiciones posteriores.
func TestCicloCompleto(t *testing.T) {
	o0 := pedidoNuevo(t, order.StatusConfirmed)

	o1, err := o0.StartPicking(actor, nil, "")
	require.NoError(t, err)
	o2, err := o1.CompletePicking(actor, "")
	require.NoError(t, err)
	o3, err := o2.Ship(actor, "GUIA-123", "Servientrega", "")
	require.NoError(t, err)
	o4, err := o3.Deliver(actor, nil, "María Recibe", "")
	require.NoError(t, err)

	assert.Equal(t, order.FulfillmentDelivered, o4.FulfillmentStatus)
	require.Len(t, o4.AuditTrail, 4)
	assert.Equal(t, order.ActionStartPicking, o4.AuditTrail[0].Action)
	assert.Equal(t, order.ActionCompletePicking, o4.AuditTrail[1].Action)
	assert.Equal(t, order.ActionShipOrder, o4.AuditTrail[2].Action)
	assert.Equal(t, order.ActionDeliverOrder, o4.AuditTrail[3].Action)

	// los snapshots previos conservan estado y largo de bitácora
	assert.Equal(t, order.FulfillmentPending, o0.FulfillmentStatus)
	assert.Len(t, o0.AuditTrail, 0)
	assert.Equal(t, order.FulfillmentPicking, o1.FulfillmentStatus)
	assert.Len(t, o1.AuditTrail, 1)
	assert.Equal(t, order.FulfillmentPacked, o2.FulfillmentStatus)
	assert.Len(t, o2.AuditTrail, 2)
	assert.Equal(t, order.FulfillmentShipped, o3.FulfillmentStatus)
	assert.Len(t, o3.AuditTrail, 3)

	// identidades distintas, versión creciente
	assert.NotSame(t, o0, o1)
	assert.Equal(t, []int{1, 2, 3, 4, 5},
		[]int{o0.Version, o1.Version, o2.Version, o3.Version, o4.Version})
}

// ── completePicking / ship / deliver ──────────────────────────────────────────

func TestCompletePicking_DesdePendingFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	_, err := o.CompletePicking(actor, "")

	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "completePicking", conflict.Operation)
}

func TestShip_GuardaGuiaYTransportadora(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")
	o2, _ := o1.CompletePicking(actor, "")

	shipped, err := o2.Ship(actor, "GUIA-456", "Coordinadora", "sale hoy")
	require.NoError(t, err)

	entry := shipped.AuditTrail[len(shipped.AuditTrail)-1]
	assert.Equal(t, "GUIA-456", entry.Metadata["tracking_number"])
	assert.Equal(t, "Coordinadora", entry.Metadata["carrier"])
}

func TestShip_DesdePickingFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")

	_, err := o1.Ship(actor, "", "", "")
	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, order.FulfillmentPicking, conflict.CurrentStatus)
}

func TestDeliver_FechaExplicita(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")
	o2, _ := o1.CompletePicking(actor, "")
	o3, _ := o2.Ship(actor, "", "", "")

	at := time.Date(2026, 8, 24, 15, 30, 0, 0, time.UTC)
	delivered, err := o3.Deliver(actor, &at, "", "")
	require.NoError(t, err)

	entry := delivered.AuditTrail[len(delivered.AuditTrail)-1]
	assert.Equal(t, at.Format(time.RFC3339), entry.Metadata["delivered_at"])
}

func TestDeliver_EsTerminal(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")
	o2, _ := o1.CompletePicking(actor, "")
	o3, _ := o2.Ship(actor, "", "", "")
	o4, err := o3.Deliver(actor, nil, "", "")
	require.NoError(t, err)

	_, err = o4.MarkPartialFulfillment(actor, "faltó una caja", nil, "")
	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = o4.RollbackFulfillment(actor, order.FulfillmentPacked, "reproceso", "")
	require.ErrorAs(t, err, &conflict)
}

// ── markPartialFulfillment ────────────────────────────────────────────────────

func TestMarkPartial_DesdePickingConRazon(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")

	partial, err := o1.MarkPartialFulfillment(actor, "sin stock de prod-002", []string{"prod-002"}, "")
	require.NoError(t, err)

	assert.Equal(t, order.FulfillmentPartial, partial.FulfillmentStatus)
	entry := partial.AuditTrail[len(partial.AuditTrail)-1]
	assert.Equal(t, order.ActionPartialFulfillment, entry.Action)
	assert.Equal(t, "sin stock de prod-002", entry.Metadata["reason"], "la razón se persiste textual")
	assert.Equal(t, "prod-002", entry.Metadata["affected_items"])
}

func TestMarkPartial_DesdePendingFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	_, err := o.MarkPartialFulfillment(actor, "razón válida", nil, "")

	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestMarkPartial_SinRazonFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")

	_, err := o1.MarkPartialFulfillment(actor, "   ", nil, "")
	var ve *order.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "reason")
}

func TestMarkPartial_RazonMuyLargaFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")

	_, err := o1.MarkPartialFulfillment(actor, strings.Repeat("x", 501), nil, "")
	var ve *order.ValidationError
	require.ErrorAs(t, err, &ve)
}

// ── rollbackFulfillment ───────────────────────────────────────────────────────

func TestRollback_PackedAPicking(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")
	o2, _ := o1.CompletePicking(actor, "")

	back, err := o2.RollbackFulfillment(actor, order.FulfillmentPicking, "se empacó mal", "")
	require.NoError(t, err)

	assert.Equal(t, order.FulfillmentPicking, back.FulfillmentStatus)
	entry := back.AuditTrail[len(back.AuditTrail)-1]
	assert.Equal(t, order.ActionRollback, entry.Action)
	assert.Equal(t, string(order.FulfillmentPicking), entry.Metadata["target_status"])
	assert.Equal(t, "se empacó mal", entry.Metadata["reason"])
}

func TestRollback_HaciaAdelanteFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")

	_, err := o1.RollbackFulfillment(actor, order.FulfillmentShipped, "no aplica", "")
	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestRollback_DesdePartial(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")
	partial, _ := o1.MarkPartialFulfillment(actor, "faltante parcial", nil, "")

	back, err := partial.RollbackFulfillment(actor, order.FulfillmentPending, "reinicio total", "")
	require.NoError(t, err)
	assert.Equal(t, order.FulfillmentPending, back.FulfillmentStatus)
}

func TestRollback_APartialFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")

	_, err := o1.RollbackFulfillment(actor, order.FulfillmentPartial, "no es destino válido", "")
	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
}

// Cancelar comercialmente bloquea el avance pero no el retroceso: la
// mercancía de un pedido cancelado a mitad de picking debe poder volver a
// bodega.
func TestRollback_PedidoCanceladoSigueSiendoLegal(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, err := o.StartPicking(actor, nil, "")
	require.NoError(t, err)
	o1.Status = order.StatusCancelled

	back, err := o1.RollbackFulfillment(actor, order.FulfillmentPending, "pedido cancelado, devolver a estantería", "")
	require.NoError(t, err)
	assert.Equal(t, order.FulfillmentPending, back.FulfillmentStatus)
	assert.Equal(t, order.StatusCancelled, back.Status, "el estado comercial no cambia")

	// el avance sí queda bloqueado
	_, err = o1.CompletePicking(actor, "")
	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
}

// DELIVERED sigue siendo techo del rollback aun con el pedido cancelado.
func TestRollback_DeliveredFallaAunCancelado(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")
	o2, _ := o1.CompletePicking(actor, "")
	o3, _ := o2.Ship(actor, "", "", "")
	o4, err := o3.Deliver(actor, nil, "", "")
	require.NoError(t, err)
	o4.Status = order.StatusCancelled

	_, err = o4.RollbackFulfillment(actor, order.FulfillmentPending, "no aplica", "")
	var conflict *order.StatusConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestRollback_SinRazonFalla(t *testing.T) {
	o := pedidoNuevo(t, order.StatusConfirmed)
	o1, _ := o.StartPicking(actor, nil, "")

	_, err := o1.RollbackFulfillment(actor, order.FulfillmentPending, "", "")
	var ve *order.ValidationError
	require.ErrorAs(t, err, &ve)
}
