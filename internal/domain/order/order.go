// Package order contiene el agregado de pedido mayorista: valorización de
// ítems, agregación de totales, reglas de negocio y la máquina de estados de
// fulfillment con bitácora de auditoría.
//
// El agregado es inmutable: cada transición exitosa retorna un snapshot
// nuevo con exactamente una entrada más en la bitácora; el snapshot previo
// conserva para siempre su estado y el largo de su bitácora. Serializar
// transiciones concurrentes sobre el mismo pedido es responsabilidad del
// caller (concurrencia optimista vía Version en la capa de persistencia).
package order

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Límites sobre argumentos de transición.
const (
	MaxReasonLength  = 500
	MaxAffectedItems = 100
)

// AreaSnapshot es la foto de la zona/área de venta al crear el pedido.
type AreaSnapshot struct {
	ID   string
	Name string
}

// WorkerSnapshot es la foto del trabajador (vendedor o picker) asociado.
type WorkerSnapshot struct {
	ID   string
	Name string
}

// AuditEntry es el registro inmutable de una transición de fulfillment.
type AuditEntry struct {
	PreviousStatus FulfillmentStatus
	NewStatus      FulfillmentStatus
	Action         ActionType
	PerformedBy    string
	Timestamp      time.Time
	Notes          string
	Metadata       map[string]string
}

// Order es el agregado raíz del pedido. Los campos son snapshot: una vez
// construido, el pedido solo cambia a través de las transiciones guardadas,
// que retornan un valor nuevo.
type Order struct {
	ID                 string
	CompanyID          string
	OrderNumber        string // único por empresa
	OrderDate          time.Time
	DeliveryDate       *time.Time // ≥ OrderDate
	DueDate            *time.Time // ≥ OrderDate
	Customer           CustomerSnapshot
	Area               AreaSnapshot
	Worker             WorkerSnapshot
	Items              []Item
	DiscountPercentage decimal.Decimal // descuento a nivel de pedido, [0,100]
	PaymentMethod      string
	CreditDays         int // [0,365]
	Status             Status
	FulfillmentStatus  FulfillmentStatus
	Totals             Totals
	CreatedBy          string
	CreatedAt          time.Time
	UpdatedBy          string
	UpdatedAt          time.Time
	Version            int // para concurrencia optimista; inicia en 1
	AuditTrail         []AuditEntry
}

// NewOrderParams agrupa los datos ya validados y valorizados para construir
// un pedido.
type NewOrderParams struct {
	ID                 string
	CompanyID          string
	OrderNumber        string
	OrderDate          time.Time
	DeliveryDate       *time.Time
	DueDate            *time.Time
	Customer           CustomerSnapshot
	Area               AreaSnapshot
	Worker             WorkerSnapshot
	Items              []Item
	DiscountPercentage decimal.Decimal
	PaymentMethod      string
	CreditDays         int
	Status             Status
	Totals             Totals
	CreatedBy          string
}

// New construye el pedido inicial: fulfillment PENDING, versión 1, bitácora
// vacía. Asume entradas ya pasadas por la validación estructural y las
// reglas de negocio.
func New(p NewOrderParams) *Order {
	now := time.Now()
	items := make([]Item, len(p.Items))
	copy(items, p.Items)
	return &Order{
		ID:                 p.ID,
		CompanyID:          p.CompanyID,
		OrderNumber:        p.OrderNumber,
		OrderDate:          p.OrderDate,
		DeliveryDate:       p.DeliveryDate,
		DueDate:            p.DueDate,
		Customer:           p.Customer,
		Area:               p.Area,
		Worker:             p.Worker,
		Items:              items,
		DiscountPercentage: p.DiscountPercentage,
		PaymentMethod:      p.PaymentMethod,
		CreditDays:         p.CreditDays,
		Status:             p.Status,
		FulfillmentStatus:  FulfillmentPending,
		Totals:             p.Totals,
		CreatedBy:          p.CreatedBy,
		CreatedAt:          now,
		UpdatedBy:          p.CreatedBy,
		UpdatedAt:          now,
		Version:            1,
		AuditTrail:         nil,
	}
}

// clone copia el pedido con slices propios, de modo que mutar el clon jamás
// toca el snapshot original.
func (o *Order) clone() *Order {
	next := *o
	next.Items = make([]Item, len(o.Items))
	copy(next.Items, o.Items)
	next.AuditTrail = make([]AuditEntry, len(o.AuditTrail), len(o.AuditTrail)+1)
	copy(next.AuditTrail, o.AuditTrail)
	return &next
}

// transition produce el snapshot sucesor: estado nuevo, UpdatedBy/UpdatedAt,
// versión incrementada y exactamente una entrada de auditoría adicional.
func (o *Order) transition(action ActionType, to FulfillmentStatus, userID, notes string, meta map[string]string) *Order {
	now := time.Now()
	next := o.clone()
	next.FulfillmentStatus = to
	next.UpdatedBy = userID
	next.UpdatedAt = now
	next.Version = o.Version + 1
	next.AuditTrail = append(next.AuditTrail, AuditEntry{
		PreviousStatus: o.FulfillmentStatus,
		NewStatus:      to,
		Action:         action,
		PerformedBy:    userID,
		Timestamp:      now,
		Notes:          notes,
		Metadata:       meta,
	})
	return next
}

// conflict construye el error de transición ilegal con el contexto exigido.
func (o *Order) conflict(op, reason string) *StatusConflictError {
	return &StatusConflictError{
		CurrentStatus:    o.FulfillmentStatus,
		CommercialStatus: o.Status,
		Operation:        op,
		Reason:           reason,
	}
}

// guardCommon corre las compuertas compartidas por las transiciones de
// avance: el fulfillment no puede estar en estado terminal y el pedido no
// puede estar cancelado comercialmente. El rollback no pasa por aquí: sobre
// un pedido cancelado sigue siendo legal devolver el estado físico.
func (o *Order) guardCommon(op string) error {
	if o.FulfillmentStatus.IsTerminal() {
		return o.conflict(op, "el fulfillment ya está en estado terminal")
	}
	if o.Status == StatusCancelled {
		return o.conflict(op, "el pedido está cancelado")
	}
	return nil
}

func validateActor(userID string) error {
	if strings.TrimSpace(userID) == "" {
		ve := NewValidationError("transición sin usuario")
		ve.Addf("user_id", "el usuario que ejecuta la transición es requerido")
		return ve
	}
	return nil
}

func validateReason(reason string) error {
	ve := NewValidationError("razón inválida")
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		ve.Addf("reason", "la razón es requerida")
	} else if len(reason) > MaxReasonLength {
		ve.Addf("reason", "la razón no puede superar %d caracteres", MaxReasonLength)
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// StartPicking inicia el alistamiento. Solo es legal desde fulfillment
// PENDING con estado comercial CONFIRMED o PROCESSING. Opcionalmente asigna
// el trabajador que hará el picking.
func (o *Order) StartPicking(userID string, assignedWorker *WorkerSnapshot, notes string) (*Order, error) {
	const op = "startPicking"
	if err := validateActor(userID); err != nil {
		return nil, err
	}
	if err := o.guardCommon(op); err != nil {
		return nil, err
	}
	if o.FulfillmentStatus != FulfillmentPending {
		return nil, o.conflict(op, "el picking solo inicia desde PENDING")
	}
	if !o.Status.AllowsPickingStart() {
		return nil, o.conflict(op, "el estado comercial debe ser CONFIRMED o PROCESSING")
	}

	var meta map[string]string
	if assignedWorker != nil {
		meta = map[string]string{
			"worker_id":   assignedWorker.ID,
			"worker_name": assignedWorker.Name,
		}
	}
	next := o.transition(ActionStartPicking, FulfillmentPicking, userID, notes, meta)
	if assignedWorker != nil {
		next.Worker = *assignedWorker
	}
	return next, nil
}

// CompletePicking cierra el alistamiento y deja el pedido empacado. Una sola
// transición cubre fin de picking y fin de empaque: PICKING → PACKED.
func (o *Order) CompletePicking(userID, notes string) (*Order, error) {
	const op = "completePicking"
	if err := validateActor(userID); err != nil {
		return nil, err
	}
	if err := o.guardCommon(op); err != nil {
		return nil, err
	}
	if o.FulfillmentStatus != FulfillmentPicking {
		return nil, o.conflict(op, "solo se completa un picking en curso")
	}
	return o.transition(ActionCompletePicking, FulfillmentPacked, userID, notes, nil), nil
}

// Ship despacha el pedido: PACKED → SHIPPED. Cuando se suministran, la guía
// y la transportadora quedan en la metadata de la entrada de auditoría.
func (o *Order) Ship(userID, trackingNumber, carrier, notes string) (*Order, error) {
	const op = "shipOrder"
	if err := validateActor(userID); err != nil {
		return nil, err
	}
	if err := o.guardCommon(op); err != nil {
		return nil, err
	}
	if o.FulfillmentStatus != FulfillmentPacked {
		return nil, o.conflict(op, "solo se despacha un pedido empacado")
	}

	var meta map[string]string
	if trackingNumber != "" || carrier != "" {
		meta = make(map[string]string, 2)
		if trackingNumber != "" {
			meta["tracking_number"] = trackingNumber
		}
		if carrier != "" {
			meta["carrier"] = carrier
		}
	}
	return o.transition(ActionShipOrder, FulfillmentShipped, userID, notes, meta), nil
}

// Deliver marca el pedido como entregado: SHIPPED → DELIVERED (terminal).
// deliveredAt por defecto es la hora actual.
func (o *Order) Deliver(userID string, deliveredAt *time.Time, recipientName, notes string) (*Order, error) {
	const op = "deliverOrder"
	if err := validateActor(userID); err != nil {
		return nil, err
	}
	if err := o.guardCommon(op); err != nil {
		return nil, err
	}
	if o.FulfillmentStatus != FulfillmentShipped {
		return nil, o.conflict(op, "solo se entrega un pedido despachado")
	}

	at := time.Now()
	if deliveredAt != nil {
		at = *deliveredAt
	}
	meta := map[string]string{"delivered_at": at.Format(time.RFC3339)}
	if recipientName != "" {
		meta["recipient_name"] = recipientName
	}
	return o.transition(ActionDeliverOrder, FulfillmentDelivered, userID, notes, meta), nil
}

// MarkPartialFulfillment registra un cumplimiento parcial. Es legal desde
// cualquier estado en curso no terminal y distinto de PENDING. La razón es
// obligatoria (1–500 caracteres) y se persiste textual en la auditoría.
func (o *Order) MarkPartialFulfillment(userID, reason string, affectedItems []string, notes string) (*Order, error) {
	const op = "markPartialFulfillment"
	if err := validateActor(userID); err != nil {
		return nil, err
	}
	if err := validateReason(reason); err != nil {
		return nil, err
	}
	if len(affectedItems) > MaxAffectedItems {
		ve := NewValidationError("ítems afectados inválidos")
		ve.Addf("affected_items", "máximo %d ítems afectados", MaxAffectedItems)
		return nil, ve
	}
	if err := o.guardCommon(op); err != nil {
		return nil, err
	}
	if o.FulfillmentStatus == FulfillmentPending {
		return nil, o.conflict(op, "no hay fulfillment en curso que marcar parcial")
	}

	meta := map[string]string{"reason": reason}
	if len(affectedItems) > 0 {
		meta["affected_items"] = strings.Join(affectedItems, ",")
		meta["affected_count"] = strconv.Itoa(len(affectedItems))
	}
	return o.transition(ActionPartialFulfillment, FulfillmentPartial, userID, notes, meta), nil
}

// RollbackFulfillment retrocede el fulfillment a un estado anterior (o al
// mismo) de la cadena canónica. Legal mientras el fulfillment no sea
// DELIVERED, incluso con el pedido cancelado comercialmente. La razón es
// obligatoria (1–500 caracteres).
func (o *Order) RollbackFulfillment(userID string, target FulfillmentStatus, reason, notes string) (*Order, error) {
	const op = "rollbackFulfillment"
	if err := validateActor(userID); err != nil {
		return nil, err
	}
	if err := validateReason(reason); err != nil {
		return nil, err
	}
	if o.FulfillmentStatus.IsTerminal() {
		return nil, o.conflict(op, "el fulfillment ya está en estado terminal")
	}
	if !o.FulfillmentStatus.CanRollbackTo(target) {
		return nil, o.conflict(op, "el destino "+string(target)+" no precede al estado actual")
	}

	meta := map[string]string{
		"target_status": string(target),
		"reason":        reason,
	}
	return o.transition(ActionRollback, target, userID, notes, meta), nil
}
