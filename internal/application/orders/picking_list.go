package orders

import (
	"context"
	"fmt"

	"github.com/tu-usuario/pedidos-pro/internal/domain"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
	"github.com/tu-usuario/pedidos-pro/internal/domain/repository"
)

// PickingListUseCase genera la lista de alistamiento (PDF) de un pedido.
// Solo se permite cuando el alistamiento ya inició: un pedido con fulfillment
// PENDING todavía no tiene nada que alistar en bodega.
type PickingListUseCase struct {
	orderRepo repository.OrderRepository
	generator PickingListGenerator
}

// NewPickingListUseCase construye el caso de uso.
func NewPickingListUseCase(orderRepo repository.OrderRepository, generator PickingListGenerator) *PickingListUseCase {
	return &PickingListUseCase{orderRepo: orderRepo, generator: generator}
}

// DownloadPickingList recupera el pedido, verifica que el alistamiento ya
// inició y genera el PDF con la lista para bodega.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si el pedido no existe.
//   - domain.ErrForbidden       si el pedido no pertenece a la empresa del token.
//   - domain.ErrInvalidInput    si el fulfillment aún está en PENDING.
func (uc *PickingListUseCase) DownloadPickingList(ctx context.Context, companyID, orderID string) (pdfBytes []byte, filename string, err error) {
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, "", fmt.Errorf("picking list: obtener pedido: %w", err)
	}
	if o == nil {
		return nil, "", domain.ErrNotFound
	}
	if o.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	if o.FulfillmentStatus == order.FulfillmentPending {
		return nil, "", fmt.Errorf("%w: el alistamiento del pedido %s no ha iniciado", domain.ErrInvalidInput, o.OrderNumber)
	}

	pdfBytes, err = uc.generator.GeneratePickingListPDF(ctx, o)
	if err != nil {
		return nil, "", fmt.Errorf("picking list: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("alistamiento_%s.pdf", o.OrderNumber)
	return pdfBytes, filename, nil
}
