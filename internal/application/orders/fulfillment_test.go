package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pedidos-pro/internal/application/dto"
	"github.com/tu-usuario/pedidos-pro/internal/domain"
	"github.com/tu-usuario/pedidos-pro/internal/domain/money"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

// fakeOrderRepo implementa repository.OrderRepository en memoria con la misma
// semántica de concurrencia optimista que el adaptador Postgres.
type fakeOrderRepo struct {
	orders map[string]*order.Order
}

func newFakeOrderRepo(seed ...*order.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: make(map[string]*order.Order)}
	for _, o := range seed {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) Create(o *order.Order) error {
	for _, existing := range r.orders {
		if existing.CompanyID == o.CompanyID && existing.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	r.orders[o.ID] = o
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*order.Order, error) {
	return r.orders[id], nil
}

func (r *fakeOrderRepo) GetByCompanyAndNumber(companyID, orderNumber string) (*order.Order, error) {
	for _, o := range r.orders {
		if o.CompanyID == companyID && o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) ListByCompany(companyID string, fulfillmentStatus string, limit, offset int) ([]*order.Order, error) {
	var list []*order.Order
	for _, o := range r.orders {
		if o.CompanyID != companyID {
			continue
		}
		if fulfillmentStatus != "" && string(o.FulfillmentStatus) != fulfillmentStatus {
			continue
		}
		list = append(list, o)
	}
	return list, nil
}

func (r *fakeOrderRepo) CountByCompany(companyID string, fulfillmentStatus string) (int, error) {
	list, _ := r.ListByCompany(companyID, fulfillmentStatus, 0, 0)
	return len(list), nil
}

func (r *fakeOrderRepo) Update(o *order.Order) error {
	stored, ok := r.orders[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != o.Version-1 {
		return domain.ErrStaleSnapshot
	}
	r.orders[o.ID] = o
	return nil
}

// pedidoGuardado construye un pedido persistible con un ítem valorizado.
func pedidoGuardado(t *testing.T, id string, status order.Status) *order.Order {
	t.Helper()
	items := []order.Item{{
		ProductID:          "p1",
		Code:               "SKU-1",
		Name:               "Aceite vegetal 900ml",
		UnitPrice:          money.New(decimal.RequireFromString("25.50"), "COP"),
		BoxSize:            12,
		QuantityBoxes:      2,
		QuantityLoose:      5,
		DiscountPercentage: decimal.Zero,
		TaxRate:            decimal.NewFromInt(19),
	}}
	totals, err := order.CalculateTotals(items, decimal.Zero)
	require.NoError(t, err)
	return order.New(order.NewOrderParams{
		ID:          id,
		CompanyID:   "co1",
		OrderNumber: "PED-" + id,
		OrderDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Customer: order.CustomerSnapshot{
			ID:          "c1",
			Code:        "CLI-001",
			Name:        "Distribuidora La Economía",
			CreditLimit: money.New(decimal.NewFromInt(100000), "COP"),
			Balance:     money.Zero("COP"),
		},
		Items:              items,
		DiscountPercentage: decimal.Zero,
		PaymentMethod:      "CREDITO",
		CreditDays:         30,
		Status:             status,
		Totals:             totals,
		CreatedBy:          "u1",
	})
}

func nopLogger() zerolog.Logger { return zerolog.Nop() }

func TestFulfillment_StartPickingPersisteTransicion(t *testing.T) {
	repo := newFakeOrderRepo(pedidoGuardado(t, "o1", order.StatusConfirmed))
	uc := NewFulfillmentUseCase(repo, nopLogger())

	resp, err := uc.StartPicking(context.Background(), "co1", "u9", "o1", dto.StartPickingRequest{
		WorkerID:   "w1",
		WorkerName: "Pedro Quintero",
	})
	require.NoError(t, err)

	assert.Equal(t, "PICKING", resp.FulfillmentStatus)
	assert.Equal(t, 2, resp.Version)
	assert.Equal(t, "w1", resp.WorkerID)
	require.Len(t, resp.AuditTrail, 1)
	assert.Equal(t, "START_PICKING", resp.AuditTrail[0].Action)

	// el snapshot nuevo quedó persistido
	stored, _ := repo.GetByID("o1")
	assert.Equal(t, order.FulfillmentPicking, stored.FulfillmentStatus)
	assert.Equal(t, 2, stored.Version)
}

func TestFulfillment_PedidoInexistenteRetornaNotFound(t *testing.T) {
	uc := NewFulfillmentUseCase(newFakeOrderRepo(), nopLogger())

	_, err := uc.StartPicking(context.Background(), "co1", "u9", "no-existe", dto.StartPickingRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFulfillment_PedidoDeOtraEmpresaRetornaForbidden(t *testing.T) {
	repo := newFakeOrderRepo(pedidoGuardado(t, "o1", order.StatusConfirmed))
	uc := NewFulfillmentUseCase(repo, nopLogger())

	_, err := uc.Get(context.Background(), "otra-empresa", "o1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestFulfillment_ShipDesdePendingEsConflicto(t *testing.T) {
	repo := newFakeOrderRepo(pedidoGuardado(t, "o1", order.StatusConfirmed))
	uc := NewFulfillmentUseCase(repo, nopLogger())

	_, err := uc.Ship(context.Background(), "co1", "u9", "o1", dto.ShipOrderRequest{})
	require.Error(t, err)

	var sc *order.StatusConflictError
	require.True(t, errors.As(err, &sc))
	assert.Equal(t, order.FulfillmentPending, sc.CurrentStatus)

	// el pedido no cambió
	stored, _ := repo.GetByID("o1")
	assert.Equal(t, 1, stored.Version)
}

func TestFulfillment_TransicionConcurrentePierdeConStaleSnapshot(t *testing.T) {
	o := pedidoGuardado(t, "o1", order.StatusConfirmed)
	repo := newFakeOrderRepo(o)
	uc := NewFulfillmentUseCase(repo, nopLogger())

	// Dos operadores parten del mismo snapshot versión 1.
	primero, err := o.StartPicking("u1", nil, "")
	require.NoError(t, err)
	require.NoError(t, repo.Update(primero))

	// El segundo llega tarde: su base ya no es la versión almacenada.
	_, err = uc.StartPicking(context.Background(), "co1", "u2", "o1", dto.StartPickingRequest{})
	require.Error(t, err)
	// la base fresca ya está en PICKING: conflicto de estado, no de versión
	var sc *order.StatusConflictError
	assert.True(t, errors.As(err, &sc))
}

func TestFulfillment_UpdateRechazaSnapshotViejo(t *testing.T) {
	o := pedidoGuardado(t, "o1", order.StatusConfirmed)
	repo := newFakeOrderRepo(o)

	a, err := o.StartPicking("u1", nil, "")
	require.NoError(t, err)
	b, err := o.StartPicking("u2", nil, "")
	require.NoError(t, err)

	require.NoError(t, repo.Update(a))
	assert.ErrorIs(t, repo.Update(b), domain.ErrStaleSnapshot)
}

func TestFulfillment_RollbackConDestinoDesconocidoFalla(t *testing.T) {
	repo := newFakeOrderRepo(pedidoGuardado(t, "o1", order.StatusConfirmed))
	uc := NewFulfillmentUseCase(repo, nopLogger())

	_, err := uc.Rollback(context.Background(), "co1", "u9", "o1", dto.RollbackFulfillmentRequest{
		TargetStatus: "ARCHIVADO",
		Reason:       "destino inventado",
	})
	require.Error(t, err)

	var ve *order.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Fields, "target_status")
}

func TestFulfillment_CicloCompletoViaUseCase(t *testing.T) {
	repo := newFakeOrderRepo(pedidoGuardado(t, "o1", order.StatusConfirmed))
	uc := NewFulfillmentUseCase(repo, nopLogger())
	ctx := context.Background()

	_, err := uc.StartPicking(ctx, "co1", "u9", "o1", dto.StartPickingRequest{})
	require.NoError(t, err)
	_, err = uc.CompletePicking(ctx, "co1", "u9", "o1", dto.CompletePickingRequest{})
	require.NoError(t, err)
	_, err = uc.Ship(ctx, "co1", "u9", "o1", dto.ShipOrderRequest{TrackingNumber: "TR-441", Carrier: "Servientrega"})
	require.NoError(t, err)
	resp, err := uc.Deliver(ctx, "co1", "u9", "o1", dto.DeliverOrderRequest{RecipientName: "María Rojas"})
	require.NoError(t, err)

	assert.Equal(t, "DELIVERED", resp.FulfillmentStatus)
	assert.Equal(t, 5, resp.Version)
	require.Len(t, resp.AuditTrail, 4)
	assert.Equal(t, "TR-441", resp.AuditTrail[2].Metadata["tracking_number"])
}

func TestFulfillment_BulkShipReportaExitoParcial(t *testing.T) {
	empacado := pedidoGuardado(t, "o1", order.StatusConfirmed)
	var err error
	empacado, err = empacado.StartPicking("u1", nil, "")
	require.NoError(t, err)
	empacado, err = empacado.CompletePicking("u1", "")
	require.NoError(t, err)

	pendiente := pedidoGuardado(t, "o2", order.StatusConfirmed)
	repo := newFakeOrderRepo(empacado, pendiente)
	uc := NewFulfillmentUseCase(repo, nopLogger())

	results := uc.BulkShip(context.Background(), "co1", "u9", dto.BulkShipRequest{
		Orders: []dto.BulkShipOrder{
			{OrderID: "o1", TrackingNumber: "TR-100"},
			{OrderID: "o2"},
			{OrderID: "fantasma"},
		},
	})
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.Equal(t, "SHIPPED", results[0].FulfillmentStatus)

	assert.False(t, results[1].Success)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, "STATUS_CONFLICT", results[1].Error.Code)

	assert.False(t, results[2].Success)
	require.NotNil(t, results[2].Error)
	assert.Equal(t, "NOT_FOUND", results[2].Error.Code)
}

func TestFulfillment_ListFiltraPorEstado(t *testing.T) {
	a := pedidoGuardado(t, "o1", order.StatusConfirmed)
	b, err := pedidoGuardado(t, "o2", order.StatusConfirmed).StartPicking("u1", nil, "")
	require.NoError(t, err)
	repo := newFakeOrderRepo(a, b)
	uc := NewFulfillmentUseCase(repo, nopLogger())

	resp, err := uc.List(context.Background(), "co1", "PICKING", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "o2", resp.Orders[0].ID)
	assert.Equal(t, 1, resp.Page.Total, "el total refleja el filtro, no la empresa completa")

	todos, err := uc.List(context.Background(), "co1", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, todos.Page.Total)

	_, err = uc.List(context.Background(), "co1", "VOLANDO", dto.PageRequest{})
	assert.Error(t, err, "filtro con estado desconocido debe fallar")
}
