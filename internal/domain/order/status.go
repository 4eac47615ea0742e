package order

// Status es el estado comercial (administrativo) del pedido. Es independiente
// del estado de fulfillment y actúa como compuerta: por ejemplo, el picking
// solo puede iniciar con el pedido CONFIRMED o PROCESSING.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// IsValid indica si el valor es un estado comercial conocido.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// AllowsPickingStart indica si el estado comercial habilita iniciar picking.
func (s Status) AllowsPickingStart() bool {
	return s == StatusConfirmed || s == StatusProcessing
}

// FulfillmentStatus es la etapa física de manejo del pedido. La cadena
// canónica es PENDING → PICKING → PACKED → SHIPPED → DELIVERED; PARTIAL es
// un estado alterno alcanzable desde cualquier etapa en curso no PENDING.
// DELIVERED es terminal.
type FulfillmentStatus string

const (
	FulfillmentPending   FulfillmentStatus = "PENDING"
	FulfillmentPicking   FulfillmentStatus = "PICKING"
	FulfillmentPacked    FulfillmentStatus = "PACKED"
	FulfillmentShipped   FulfillmentStatus = "SHIPPED"
	FulfillmentDelivered FulfillmentStatus = "DELIVERED"
	FulfillmentPartial   FulfillmentStatus = "PARTIAL"
)

// IsValid indica si el valor es un estado de fulfillment conocido.
func (s FulfillmentStatus) IsValid() bool {
	_, ok := fulfillmentRanks[s]
	return ok
}

// IsTerminal indica si el fulfillment terminó (no admite más transiciones).
func (s FulfillmentStatus) IsTerminal() bool {
	return s == FulfillmentDelivered
}

// rank posiciona cada estado en el orden canónico para decidir rollbacks.
// PARTIAL comparte rango con SHIPPED: desde PARTIAL se puede retroceder a
// cualquier etapa de la cadena canónica.
var fulfillmentRanks = map[FulfillmentStatus]int{
	FulfillmentPending:   0,
	FulfillmentPicking:   1,
	FulfillmentPacked:    2,
	FulfillmentShipped:   3,
	FulfillmentPartial:   3,
	FulfillmentDelivered: 4,
}

// rank devuelve la posición del estado en el orden canónico.
func (s FulfillmentStatus) rank() int {
	return fulfillmentRanks[s]
}

// CanRollbackTo indica si desde el estado actual se puede retroceder al
// estado destino: el actual no es terminal, el destino pertenece a la cadena
// canónica (nunca PARTIAL ni DELIVERED) y precede o iguala al actual.
func (s FulfillmentStatus) CanRollbackTo(target FulfillmentStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch target {
	case FulfillmentPending, FulfillmentPicking, FulfillmentPacked, FulfillmentShipped:
		return target.rank() <= s.rank()
	}
	return false
}

// ActionType identifica la operación que produjo una transición (auditoría).
type ActionType string

const (
	ActionStartPicking       ActionType = "START_PICKING"
	ActionCompletePicking    ActionType = "COMPLETE_PICKING"
	ActionShipOrder          ActionType = "SHIP_ORDER"
	ActionDeliverOrder       ActionType = "DELIVER_ORDER"
	ActionPartialFulfillment ActionType = "PARTIAL_FULFILLMENT"
	ActionRollback           ActionType = "ROLLBACK_FULFILLMENT"
)
