package order

import (
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pedidos-pro/internal/domain/money"
)

// Límites operativos sobre ítems de pedido.
const (
	MaxItemsPerOrder   = 100
	MinItemsPerOrder   = 1
	MaxUnitsPerItem    = 10_000
	MaxItemNotesLength = 500
)

// Item es una línea del pedido: snapshot del producto más cantidades en cajas
// y unidades sueltas. Invariante (validado aguas arriba): totalUnits > 0,
// descuento e impuesto en [0,100], precio unitario no negativo.
type Item struct {
	ProductID          string
	Code               string
	Name               string
	UnitPrice          money.Money
	BoxSize            int // unidades por caja, entero positivo
	QuantityBoxes      int
	QuantityLoose      int
	DiscountPercentage decimal.Decimal // [0,100]
	TaxRate            decimal.Decimal // [0,100]
	Notes              string
}

// TotalUnits calcula las unidades totales: cajas·tamaño de caja + sueltas.
func (it Item) TotalUnits() int {
	return it.QuantityBoxes*it.BoxSize + it.QuantityLoose
}

// Valuation es la valorización derivada de un ítem. No se persiste: se
// recalcula siempre desde el ítem, por lo que dos cálculos sobre el mismo
// ítem producen valores idénticos.
type Valuation struct {
	TotalUnits     int
	UnitTotal      money.Money
	DiscountAmount money.Money
	AfterDiscount  money.Money
	TaxAmount      money.Money
	ItemTotal      money.Money
}

// Valuate aplica el algoritmo de valorización en orden fijo; el impuesto se
// calcula siempre sobre el monto post-descuento, nunca al revés:
//
//	totalUnits     = quantityBoxes·boxSize + quantityLoose
//	unitTotal      = unitPrice × totalUnits
//	discountAmount = unitTotal × (discountPercentage/100)
//	afterDiscount  = unitTotal − discountAmount
//	taxAmount      = afterDiscount × (taxRate/100)
//	itemTotal      = afterDiscount + taxAmount
//
// Con descuento 100% el impuesto resulta 0 sin importar la tasa: un ítem
// totalmente descontado nunca tributa. Un precio 0 (muestras gratis) es
// válido y produce itemTotal 0. Asume entradas pre-validadas y nunca falla.
func (it Item) Valuate() Valuation {
	units := it.TotalUnits()
	cur := it.UnitPrice.Currency()

	unitTotal := it.UnitPrice.Amount().Mul(decimal.NewFromInt(int64(units)))
	discount := unitTotal.Mul(it.DiscountPercentage).Div(decimal.NewFromInt(100)).Round(2)
	after := unitTotal.Sub(discount)
	tax := after.Mul(it.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
	total := after.Add(tax)

	return Valuation{
		TotalUnits:     units,
		UnitTotal:      money.New(unitTotal, cur),
		DiscountAmount: money.New(discount, cur),
		AfterDiscount:  money.New(after, cur),
		TaxAmount:      money.New(tax, cur),
		ItemTotal:      money.New(total, cur),
	}
}
