package order

import (
	"fmt"
	"strconv"

	"github.com/tu-usuario/pedidos-pro/internal/domain/money"
)

// CustomerSnapshot es la foto del cliente tomada al crear el pedido. El cupo
// de crédito disponible se evalúa contra esta foto, no contra el estado vivo
// del cliente.
type CustomerSnapshot struct {
	ID          string
	Code        string
	Name        string
	CreditLimit money.Money // ≥ 0
	Balance     money.Money // saldo pendiente, ≥ 0
}

// AvailableCredit devuelve creditLimit − balance.
func (c CustomerSnapshot) AvailableCredit() (money.Money, error) {
	return c.CreditLimit.Sub(c.Balance)
}

// ValidateBusinessRules corre las reglas de negocio sobre un pedido ya
// valorizado, antes de persistirlo. Recorre los ítems de arriba hacia abajo
// y reporta la primera falla encontrada como *RuleError con payload
// estructurado por campo. El techo de 1–100 ítems se valida aguas arriba;
// aquí se asume preservado.
//
// Reglas, en orden:
//  1. Crédito: falla si totalAmount > creditLimit − balance. El caso borde
//     totalAmount == disponible pasa.
//  2. Techo de cantidad: falla si algún ítem supera MaxUnitsPerItem unidades.
//  3. Producto duplicado: falla referenciando el índice de la segunda
//     ocurrencia si un productId se repite.
func ValidateBusinessRules(items []Item, totals Totals, customer CustomerSnapshot) error {
	available, err := customer.AvailableCredit()
	if err != nil {
		return err
	}
	exceeded, err := totals.TotalAmount.GreaterThan(available)
	if err != nil {
		return err
	}
	if exceeded {
		return &RuleError{
			Code: CodeCreditLimitExceeded,
			Message: fmt.Sprintf("el total del pedido (%s) supera el crédito disponible del cliente (%s)",
				totals.TotalAmount.StringFixed(), available.StringFixed()),
			Fields: map[string][]string{
				"customer_id": {"crédito insuficiente para el total del pedido"},
			},
			Meta: map[string]string{
				"order_total":      totals.TotalAmount.StringFixed(),
				"available_credit": available.StringFixed(),
				"credit_limit":     customer.CreditLimit.StringFixed(),
				"balance":          customer.Balance.StringFixed(),
			},
		}
	}

	seen := make(map[string]int, len(items))
	for i, it := range items {
		if units := it.TotalUnits(); units > MaxUnitsPerItem {
			field := fmt.Sprintf("items[%d].quantity", i)
			return &RuleError{
				Code: CodeItemQuantityExceeded,
				Message: fmt.Sprintf("el ítem %d solicita %d unidades; el máximo por ítem es %d",
					i, units, MaxUnitsPerItem),
				Fields: map[string][]string{
					field: {fmt.Sprintf("máximo %d unidades por ítem", MaxUnitsPerItem)},
				},
				Meta: map[string]string{
					"index":     strconv.Itoa(i),
					"requested": strconv.Itoa(units),
					"maximum":   strconv.Itoa(MaxUnitsPerItem),
				},
			}
		}
		if first, dup := seen[it.ProductID]; dup {
			field := fmt.Sprintf("items[%d].product_id", i)
			return &RuleError{
				Code: CodeDuplicateProduct,
				Message: fmt.Sprintf("el producto %s aparece en los ítems %d y %d; cada producto va una sola vez por pedido",
					it.ProductID, first, i),
				Fields: map[string][]string{
					field: {"producto repetido en el pedido"},
				},
				Meta: map[string]string{
					"product_id":  it.ProductID,
					"index":       strconv.Itoa(i),
					"first_index": strconv.Itoa(first),
				},
			}
		}
		seen[it.ProductID] = i
	}

	return nil
}
