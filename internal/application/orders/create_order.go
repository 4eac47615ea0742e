package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tu-usuario/pedidos-pro/internal/application/dto"
	"github.com/tu-usuario/pedidos-pro/internal/domain"
	"github.com/tu-usuario/pedidos-pro/internal/domain/entity"
	"github.com/tu-usuario/pedidos-pro/internal/domain/money"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
	"github.com/tu-usuario/pedidos-pro/internal/domain/repository"
)

// CreateOrderUseCase crea un pedido mayorista: valida la estructura, toma el
// snapshot del cliente, valoriza los ítems, corre las reglas de negocio y
// persiste cabecera, ítems y bitácora en una sola transacción.
type CreateOrderUseCase struct {
	txRunner     TxRunner
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	currency     string
	log          zerolog.Logger
}

// NewCreateOrderUseCase construye el caso de uso. currency es la moneda de
// operación (ISO 4217) con la que se valorizan los pedidos.
func NewCreateOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	currency string,
	log zerolog.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		currency:     currency,
		log:          log,
	}
}

// Create valida y persiste un pedido nuevo.
//
// Orden de chequeos: estructura del payload (todas las violaciones de una
// pasada), existencia y pertenencia de cliente y productos, reglas de negocio
// sobre el pedido valorizado (crédito, techo de unidades, duplicados) y por
// último la escritura transaccional. El número de pedido duplicado aflora como
// domain.ErrDuplicate desde la capa de persistencia.
func (uc *CreateOrderUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := ValidateCreateOrder(in); err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	items, err := uc.buildItems(companyID, in.Items)
	if err != nil {
		return nil, err
	}

	totals, err := order.CalculateTotals(items, in.DiscountPercentage)
	if err != nil {
		return nil, err
	}

	snapshot := order.CustomerSnapshot{
		ID:          customer.ID,
		Code:        customer.Code,
		Name:        customer.Name,
		CreditLimit: money.New(customer.CreditLimit, uc.currency),
		Balance:     money.New(customer.Balance, uc.currency),
	}
	if err := order.ValidateBusinessRules(items, totals, snapshot); err != nil {
		return nil, err
	}

	status := order.StatusPending
	if in.Status != "" {
		status = order.Status(in.Status)
	}

	o := order.New(order.NewOrderParams{
		ID:                 uuid.New().String(),
		CompanyID:          companyID,
		OrderNumber:        in.OrderNumber,
		OrderDate:          in.OrderDate,
		DeliveryDate:       in.DeliveryDate,
		DueDate:            in.DueDate,
		Customer:           snapshot,
		Area:               order.AreaSnapshot{ID: in.AreaID, Name: in.AreaName},
		Worker:             order.WorkerSnapshot{ID: in.WorkerID, Name: in.WorkerName},
		Items:              items,
		DiscountPercentage: in.DiscountPercentage,
		PaymentMethod:      in.PaymentMethod,
		CreditDays:         in.CreditDays,
		Status:             status,
		Totals:             totals,
		CreatedBy:          userID,
	})

	err = uc.txRunner.RunOrders(ctx, func(orderRepo repository.OrderRepository) error {
		return orderRepo.Create(o)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_id", o.ID).
		Str("order_number", o.OrderNumber).
		Str("customer_id", o.Customer.ID).
		Str("total", o.Totals.TotalAmount.StringFixed()).
		Msg("pedido creado")

	return toOrderResponse(o), nil
}

// buildItems resuelve cada línea contra el catálogo: valida existencia y
// pertenencia del producto, toma precio y tasa de impuesto del producto cuando
// la línea los omite (un 0 explícito se respeta: muestras gratis y líneas
// exentas existen) y congela el snapshot (código, nombre, tamaño de caja).
func (uc *CreateOrderUseCase) buildItems(companyID string, in []dto.OrderItemRequest) ([]order.Item, error) {
	items := make([]order.Item, 0, len(in))
	for _, line := range in {
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}

		price := product.Price
		if line.UnitPrice != nil {
			price = *line.UnitPrice
		}
		taxRate := product.TaxRate
		if line.TaxRate != nil {
			taxRate = *line.TaxRate
		}

		items = append(items, order.Item{
			ProductID:          product.ID,
			Code:               product.SKU,
			Name:               product.Name,
			UnitPrice:          money.New(price, uc.currency),
			BoxSize:            boxSizeOrOne(product),
			QuantityBoxes:      line.QuantityBoxes,
			QuantityLoose:      line.QuantityLoose,
			DiscountPercentage: line.DiscountPercentage,
			TaxRate:            taxRate,
			Notes:              line.Notes,
		})
	}
	return items, nil
}

// boxSizeOrOne protege contra catálogos viejos con box_size en 0: un tamaño
// de caja inválido colapsa a venta por unidad.
func boxSizeOrOne(p *entity.Product) int {
	if p.BoxSize <= 0 {
		return 1
	}
	return p.BoxSize
}
