package repository

import "github.com/tu-usuario/pedidos-pro/internal/domain/order"

// OrderRepository define el puerto de persistencia del agregado de pedido
// (cabecera, ítems y bitácora de fulfillment).
type OrderRepository interface {
	// Create persiste el pedido completo. Retorna domain.ErrDuplicate si el
	// número de pedido ya existe para la empresa.
	Create(o *order.Order) error
	// GetByID carga el agregado completo; (nil, nil) si no existe.
	GetByID(id string) (*order.Order, error)
	GetByCompanyAndNumber(companyID, orderNumber string) (*order.Order, error)
	// ListByCompany lista cabeceras por empresa, opcionalmente filtradas por
	// estado de fulfillment, con paginación.
	ListByCompany(companyID string, fulfillmentStatus string, limit, offset int) ([]*order.Order, error)
	// CountByCompany cuenta los pedidos que ListByCompany paginaría con el
	// mismo filtro.
	CountByCompany(companyID string, fulfillmentStatus string) (int, error)
	// Update persiste un snapshot nuevo con concurrencia optimista: la
	// escritura se rechaza con domain.ErrStaleSnapshot si la versión
	// almacenada ya no es la versión base del snapshot.
	Update(o *order.Order) error
}
