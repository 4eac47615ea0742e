package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pedidos-pro/internal/domain"
	"github.com/tu-usuario/pedidos-pro/internal/domain/money"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
	"github.com/tu-usuario/pedidos-pro/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx). El
// agregado se reparte en tres tablas: orders (cabecera, snapshots y totales),
// order_items (líneas, ordenadas por position) y order_events (bitácora de
// fulfillment, append-only, ordenada por seq).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el pedido completo: cabecera y líneas. La bitácora nace
// vacía (versión 1). Retorna domain.ErrDuplicate si el número de pedido ya
// existe para la empresa.
func (r *OrderRepo) Create(o *order.Order) error {
	ctx := context.Background()
	query := `
		INSERT INTO orders (
			id, company_id, order_number, order_date, delivery_date, due_date,
			customer_id, customer_code, customer_name, customer_credit_limit, customer_balance,
			area_id, area_name, worker_id, worker_name,
			discount_percentage, payment_method, credit_days,
			status, fulfillment_status,
			currency, subtotal_amount, discount_amount, tax_amount, total_amount,
			total_items, total_units,
			created_by, created_at, updated_by, updated_at, version
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18,
			$19, $20,
			$21, $22, $23, $24, $25,
			$26, $27,
			$28, $29, $30, $31, $32
		)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CompanyID, o.OrderNumber, o.OrderDate, o.DeliveryDate, o.DueDate,
		o.Customer.ID, o.Customer.Code, o.Customer.Name, o.Customer.CreditLimit.Amount(), o.Customer.Balance.Amount(),
		nullIfEmpty(o.Area.ID), nullIfEmpty(o.Area.Name), nullIfEmpty(o.Worker.ID), nullIfEmpty(o.Worker.Name),
		o.DiscountPercentage, o.PaymentMethod, o.CreditDays,
		string(o.Status), string(o.FulfillmentStatus),
		o.Totals.SubtotalAmount.Currency(), o.Totals.SubtotalAmount.Amount(), o.Totals.DiscountAmount.Amount(),
		o.Totals.TaxAmount.Amount(), o.Totals.TotalAmount.Amount(),
		o.Totals.TotalItems, o.Totals.TotalUnits,
		o.CreatedBy, o.CreatedAt, o.UpdatedBy, o.UpdatedAt, o.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, it := range o.Items {
		if err := r.insertItem(ctx, o.ID, i, it); err != nil {
			return err
		}
	}
	return nil
}

func (r *OrderRepo) insertItem(ctx context.Context, orderID string, position int, it order.Item) error {
	query := `
		INSERT INTO order_items (
			order_id, position, product_id, code, name, unit_price, box_size,
			quantity_boxes, quantity_loose, discount_percentage, tax_rate, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		orderID, position, it.ProductID, it.Code, it.Name, it.UnitPrice.Amount(), it.BoxSize,
		it.QuantityBoxes, it.QuantityLoose, it.DiscountPercentage, it.TaxRate, nullIfEmpty(it.Notes),
	)
	if err != nil {
		return fmt.Errorf("insert order item: %w", err)
	}
	return nil
}

// Update persiste un snapshot transicionado con concurrencia optimista: la
// cabecera solo se actualiza si la versión almacenada sigue siendo la versión
// base del snapshot (Version−1); si no, retorna domain.ErrStaleSnapshot y no
// escribe nada. Con la cabecera tomada, inserta la entrada de bitácora que la
// transición agregó (seq = Version−2, la bitácora es append-only).
func (r *OrderRepo) Update(o *order.Order) error {
	ctx := context.Background()
	baseVersion := o.Version - 1
	query := `
		UPDATE orders SET
			fulfillment_status = $3,
			status             = $4,
			worker_id          = $5,
			worker_name        = $6,
			updated_by         = $7,
			updated_at         = $8,
			version            = $9
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(ctx, query,
		o.ID, baseVersion,
		string(o.FulfillmentStatus), string(o.Status),
		nullIfEmpty(o.Worker.ID), nullIfEmpty(o.Worker.Name),
		o.UpdatedBy, o.UpdatedAt, o.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStaleSnapshot
	}

	if len(o.AuditTrail) == 0 {
		return nil
	}
	last := o.AuditTrail[len(o.AuditTrail)-1]
	seq := o.Version - 2 // versión 2 escribe la entrada 0
	eventQuery := `
		INSERT INTO order_events (
			order_id, seq, previous_status, new_status, action,
			performed_by, occurred_at, notes, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err = r.q.Exec(ctx, eventQuery,
		o.ID, seq, string(last.PreviousStatus), string(last.NewStatus), string(last.Action),
		last.PerformedBy, last.Timestamp, nullIfEmpty(last.Notes), last.Metadata,
	)
	if err != nil {
		return fmt.Errorf("insert order event: %w", err)
	}
	return nil
}

// GetByID carga el agregado completo: cabecera, líneas y bitácora.
// (nil, nil) si no existe.
func (r *OrderRepo) GetByID(id string) (*order.Order, error) {
	o, err := r.getHeader(`WHERE id = $1`, id)
	if err != nil || o == nil {
		return o, err
	}
	if o.Items, err = r.loadItems(o.ID, o.Totals.SubtotalAmount.Currency()); err != nil {
		return nil, err
	}
	if o.AuditTrail, err = r.loadEvents(o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByCompanyAndNumber carga el agregado completo por empresa y número.
func (r *OrderRepo) GetByCompanyAndNumber(companyID, orderNumber string) (*order.Order, error) {
	var id string
	err := r.q.QueryRow(context.Background(),
		`SELECT id FROM orders WHERE company_id = $1 AND order_number = $2`,
		companyID, orderNumber,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order by number: %w", err)
	}
	return r.GetByID(id)
}

// ListByCompany lista cabeceras por empresa (sin líneas ni bitácora),
// opcionalmente filtradas por estado de fulfillment, más recientes primero.
func (r *OrderRepo) ListByCompany(companyID string, fulfillmentStatus string, limit, offset int) ([]*order.Order, error) {
	query := headerSelect + `
		WHERE company_id = $1 AND ($2 = '' OR fulfillment_status = $2)
		ORDER BY order_date DESC, order_number DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, fulfillmentStatus, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var list []*order.Order
	for rows.Next() {
		o, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// CountByCompany cuenta los pedidos bajo el mismo filtro que ListByCompany,
// para poblar el total de la paginación.
func (r *OrderRepo) CountByCompany(companyID string, fulfillmentStatus string) (int, error) {
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM orders WHERE company_id = $1 AND ($2 = '' OR fulfillment_status = $2)`,
		companyID, fulfillmentStatus,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return total, nil
}

const headerSelect = `
	SELECT id, company_id, order_number, order_date, delivery_date, due_date,
	       customer_id, customer_code, customer_name, customer_credit_limit, customer_balance,
	       COALESCE(area_id, ''), COALESCE(area_name, ''),
	       COALESCE(worker_id, ''), COALESCE(worker_name, ''),
	       discount_percentage, payment_method, credit_days,
	       status, fulfillment_status,
	       currency, subtotal_amount, discount_amount, tax_amount, total_amount,
	       total_items, total_units,
	       created_by, created_at, updated_by, updated_at, version
	FROM orders`

func (r *OrderRepo) getHeader(where string, args ...any) (*order.Order, error) {
	row := r.q.QueryRow(context.Background(), headerSelect+" "+where, args...)
	o, err := scanHeader(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return o, nil
}

// scanHeader arma la cabecera del agregado desde una fila de orders.
func scanHeader(row pgx.Row) (*order.Order, error) {
	var o order.Order
	var status, fulfillment, currency string
	var creditLimit, balance, subtotal, discount, tax, total decimal.Decimal
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.OrderNumber, &o.OrderDate, &o.DeliveryDate, &o.DueDate,
		&o.Customer.ID, &o.Customer.Code, &o.Customer.Name, &creditLimit, &balance,
		&o.Area.ID, &o.Area.Name,
		&o.Worker.ID, &o.Worker.Name,
		&o.DiscountPercentage, &o.PaymentMethod, &o.CreditDays,
		&status, &fulfillment,
		&currency, &subtotal, &discount, &tax, &total,
		&o.Totals.TotalItems, &o.Totals.TotalUnits,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedBy, &o.UpdatedAt, &o.Version,
	)
	if err != nil {
		return nil, err
	}
	o.Status = order.Status(status)
	o.FulfillmentStatus = order.FulfillmentStatus(fulfillment)
	o.Customer.CreditLimit = money.New(creditLimit, currency)
	o.Customer.Balance = money.New(balance, currency)
	o.Totals.SubtotalAmount = money.New(subtotal, currency)
	o.Totals.DiscountAmount = money.New(discount, currency)
	o.Totals.TaxAmount = money.New(tax, currency)
	o.Totals.TotalAmount = money.New(total, currency)
	return &o, nil
}

func (r *OrderRepo) loadItems(orderID, currency string) ([]order.Item, error) {
	query := `
		SELECT product_id, code, name, unit_price, box_size,
		       quantity_boxes, quantity_loose, discount_percentage, tax_rate,
		       COALESCE(notes, '')
		FROM order_items WHERE order_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var it order.Item
		var price decimal.Decimal
		if err := rows.Scan(
			&it.ProductID, &it.Code, &it.Name, &price, &it.BoxSize,
			&it.QuantityBoxes, &it.QuantityLoose, &it.DiscountPercentage, &it.TaxRate,
			&it.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.UnitPrice = money.New(price, currency)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *OrderRepo) loadEvents(orderID string) ([]order.AuditEntry, error) {
	query := `
		SELECT previous_status, new_status, action, performed_by, occurred_at,
		       COALESCE(notes, ''), metadata
		FROM order_events WHERE order_id = $1 ORDER BY seq`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order events: %w", err)
	}
	defer rows.Close()

	var trail []order.AuditEntry
	for rows.Next() {
		var e order.AuditEntry
		var prev, next, action string
		if err := rows.Scan(&prev, &next, &action, &e.PerformedBy, &e.Timestamp, &e.Notes, &e.Metadata); err != nil {
			return nil, fmt.Errorf("scan order event: %w", err)
		}
		e.PreviousStatus = order.FulfillmentStatus(prev)
		e.NewStatus = order.FulfillmentStatus(next)
		e.Action = order.ActionType(action)
		trail = append(trail, e)
	}
	return trail, rows.Err()
}
