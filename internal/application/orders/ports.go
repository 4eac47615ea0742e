package orders

import (
	"context"

	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
	"github.com/tu-usuario/pedidos-pro/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción con el repositorio
// de pedidos atado a la tx (cabecera, ítems y bitácora se escriben atómicos).
type TxRunner interface {
	RunOrders(ctx context.Context, fn func(orderRepo repository.OrderRepository) error) error
}

// PickingListGenerator genera la lista de alistamiento (PDF) de un pedido
// para el personal de bodega.
type PickingListGenerator interface {
	GeneratePickingListPDF(ctx context.Context, o *order.Order) ([]byte, error)
}
