package order

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pedidos-pro/internal/domain/money"
)

// Totals es el agregado financiero del pedido, derivado de la lista de ítems
// más el descuento a nivel de pedido.
type Totals struct {
	TotalItems     int
	TotalUnits     int
	SubtotalAmount money.Money // Σ unitTotal
	DiscountAmount money.Money // Σ descuentos de ítem + descuento de pedido
	TaxAmount      money.Money // Σ taxAmount de ítem
	TotalAmount    money.Money
}

// CalculateTotals acumula las valorizaciones de los ítems y reconcilia el
// descuento a nivel de pedido. Falla únicamente si los ítems mezclan monedas.
//
// Cuando orderDiscountPercentage > 0, el total se recalcula como
// subtotal − (descuentos de ítem + descuento de pedido) + Σ taxAmount:
// el descuento de pedido se apila sobre los de ítem, pero el impuesto ya
// calculado por ítem se reutiliza en lugar de re-derivarse de la nueva base
// descontada. Esa aritmética es contrato del sistema (los fixtures de test la
// codifican) y no debe "corregirse" aquí.
func CalculateTotals(items []Item, orderDiscountPercentage decimal.Decimal) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, fmt.Errorf("calcular totales: pedido sin ítems")
	}

	currency := items[0].UnitPrice.Currency()
	subtotal := money.Zero(currency)
	itemDiscounts := money.Zero(currency)
	tax := money.Zero(currency)
	total := money.Zero(currency)
	totalUnits := 0

	for i, it := range items {
		v := it.Valuate()
		totalUnits += v.TotalUnits

		var err error
		if subtotal, err = subtotal.Add(v.UnitTotal); err != nil {
			return Totals{}, fmt.Errorf("ítem %d: %w", i, err)
		}
		if itemDiscounts, err = itemDiscounts.Add(v.DiscountAmount); err != nil {
			return Totals{}, fmt.Errorf("ítem %d: %w", i, err)
		}
		if tax, err = tax.Add(v.TaxAmount); err != nil {
			return Totals{}, fmt.Errorf("ítem %d: %w", i, err)
		}
		if total, err = total.Add(v.ItemTotal); err != nil {
			return Totals{}, fmt.Errorf("ítem %d: %w", i, err)
		}
	}

	finalDiscount := itemDiscounts
	if orderDiscountPercentage.IsPositive() {
		// Todos los acumuladores y Percent comparten la moneda de items[0];
		// el bucle ya falló si algún ítem la mezclaba, así que Add/Sub aquí
		// no pueden retornar error.
		orderDiscount := subtotal.Percent(orderDiscountPercentage)
		finalDiscount, _ = itemDiscounts.Add(orderDiscount)

		// total = subtotal − descuento final + impuesto por ítem ya acumulado
		afterDiscount, _ := subtotal.Sub(finalDiscount)
		total, _ = afterDiscount.Add(tax)
	}

	return Totals{
		TotalItems:     len(items),
		TotalUnits:     totalUnits,
		SubtotalAmount: subtotal,
		DiscountAmount: finalDiscount,
		TaxAmount:      tax,
		TotalAmount:    total,
	}, nil
}
