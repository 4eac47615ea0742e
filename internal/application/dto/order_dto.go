package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
// Los snapshots de área y trabajador los aporta el caller; el snapshot del
// cliente se toma de la base al momento de crear.
type CreateOrderRequest struct {
	OrderNumber        string             `json:"order_number"`
	CustomerID         string             `json:"customer_id"`
	OrderDate          time.Time          `json:"order_date"`
	DeliveryDate       *time.Time         `json:"delivery_date,omitempty"`
	DueDate            *time.Time         `json:"due_date,omitempty"`
	AreaID             string             `json:"area_id,omitempty"`
	AreaName           string             `json:"area_name,omitempty"`
	WorkerID           string             `json:"worker_id,omitempty"`
	WorkerName         string             `json:"worker_name,omitempty"`
	PaymentMethod      string             `json:"payment_method"`
	CreditDays         int                `json:"credit_days"`
	DiscountPercentage decimal.Decimal    `json:"discount_percentage"`
	Status             string             `json:"status,omitempty"` // estado comercial inicial; por defecto PENDING
	Items              []OrderItemRequest `json:"items"`
}

// OrderItemRequest línea del pedido. UnitPrice y TaxRate son punteros para
// distinguir el campo omitido del 0 explícito: omitido toma el valor del
// catálogo; 0 explícito vale 0 (muestras gratis, líneas exentas).
// DiscountPercentage y TaxRate en porcentaje [0,100].
type OrderItemRequest struct {
	ProductID          string           `json:"product_id"`
	QuantityBoxes      int              `json:"quantity_boxes"`
	QuantityLoose      int              `json:"quantity_loose"`
	UnitPrice          *decimal.Decimal `json:"unit_price,omitempty"`
	DiscountPercentage decimal.Decimal  `json:"discount_percentage"`
	TaxRate            *decimal.Decimal `json:"tax_rate,omitempty"`
	Notes              string           `json:"notes,omitempty"`
}

// ── Transiciones de fulfillment ───────────────────────────────────────────────

// StartPickingRequest body para POST /api/orders/:id/fulfillment/start-picking.
type StartPickingRequest struct {
	WorkerID   string `json:"worker_id,omitempty"`
	WorkerName string `json:"worker_name,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// CompletePickingRequest body para POST /api/orders/:id/fulfillment/complete-picking.
type CompletePickingRequest struct {
	Notes string `json:"notes,omitempty"`
}

// ShipOrderRequest body para POST /api/orders/:id/fulfillment/ship.
type ShipOrderRequest struct {
	TrackingNumber string `json:"tracking_number,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// DeliverOrderRequest body para POST /api/orders/:id/fulfillment/deliver.
// DeliveredAt por defecto es la hora del servidor.
type DeliverOrderRequest struct {
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	RecipientName string     `json:"recipient_name,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// PartialFulfillmentRequest body para POST /api/orders/:id/fulfillment/partial.
type PartialFulfillmentRequest struct {
	Reason        string   `json:"reason"`
	AffectedItems []string `json:"affected_items,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// RollbackFulfillmentRequest body para POST /api/orders/:id/fulfillment/rollback.
type RollbackFulfillmentRequest struct {
	TargetStatus string `json:"target_status"`
	Reason       string `json:"reason"`
	Notes        string `json:"notes,omitempty"`
}

// BulkShipRequest body para POST /api/orders/bulk/ship: despacho por lote.
type BulkShipRequest struct {
	Orders []BulkShipOrder `json:"orders"`
}

// BulkShipOrder un pedido dentro del despacho por lote.
type BulkShipOrder struct {
	OrderID        string `json:"order_id"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Carrier        string `json:"carrier,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// BulkShipResult resultado por pedido del lote: éxito parcial explícito, el
// conflicto de un pedido no aborta el resto.
type BulkShipResult struct {
	OrderID           string         `json:"order_id"`
	Success           bool           `json:"success"`
	FulfillmentStatus string         `json:"fulfillment_status,omitempty"`
	Error             *ErrorResponse `json:"error,omitempty"`
}

// ── Respuestas ────────────────────────────────────────────────────────────────

// OrderResponse pedido completo para respuestas.
type OrderResponse struct {
	ID                 string               `json:"id"`
	CompanyID          string               `json:"company_id"`
	OrderNumber        string               `json:"order_number"`
	OrderDate          time.Time            `json:"order_date"`
	DeliveryDate       *time.Time           `json:"delivery_date,omitempty"`
	DueDate            *time.Time           `json:"due_date,omitempty"`
	Customer           OrderCustomer        `json:"customer"`
	AreaID             string               `json:"area_id,omitempty"`
	AreaName           string               `json:"area_name,omitempty"`
	WorkerID           string               `json:"worker_id,omitempty"`
	WorkerName         string               `json:"worker_name,omitempty"`
	Items              []OrderItemResponse  `json:"items"`
	DiscountPercentage decimal.Decimal      `json:"discount_percentage"`
	PaymentMethod      string               `json:"payment_method"`
	CreditDays         int                  `json:"credit_days"`
	Status             string               `json:"status"`
	FulfillmentStatus  string               `json:"fulfillment_status"`
	Totals             OrderTotalsResponse  `json:"totals"`
	Version            int                  `json:"version"`
	CreatedBy          string               `json:"created_by"`
	CreatedAt          time.Time            `json:"created_at"`
	UpdatedBy          string               `json:"updated_by"`
	UpdatedAt          time.Time            `json:"updated_at"`
	AuditTrail         []AuditEntryResponse `json:"fulfillment_audit_trail"`
}

// OrderCustomer snapshot del cliente dentro del pedido.
type OrderCustomer struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Balance     decimal.Decimal `json:"balance"`
}

// OrderItemResponse línea del pedido con su valorización derivada.
type OrderItemResponse struct {
	ProductID          string          `json:"product_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	BoxSize            int             `json:"box_size"`
	QuantityBoxes      int             `json:"quantity_boxes"`
	QuantityLoose      int             `json:"quantity_loose"`
	TotalUnits         int             `json:"total_units"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	Notes              string          `json:"notes,omitempty"`
	UnitTotal          decimal.Decimal `json:"unit_total"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	ItemTotal          decimal.Decimal `json:"item_total"`
}

// OrderTotalsResponse totales financieros del pedido.
type OrderTotalsResponse struct {
	TotalItems     int             `json:"total_items"`
	TotalUnits     int             `json:"total_units"`
	Currency       string          `json:"currency"`
	SubtotalAmount decimal.Decimal `json:"subtotal_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}

// AuditEntryResponse entrada de la bitácora de fulfillment.
type AuditEntryResponse struct {
	PreviousStatus string            `json:"previous_status"`
	NewStatus      string            `json:"new_status"`
	Action         string            `json:"action"`
	PerformedBy    string            `json:"performed_by"`
	Timestamp      time.Time         `json:"timestamp"`
	Notes          string            `json:"notes,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// OrderListResponse listado paginado de pedidos.
type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Page   PageResponse    `json:"page"`
}
