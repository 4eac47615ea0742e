package order_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pedidos-pro/internal/domain/money"
	"github.com/tu-usuario/pedidos-pro/internal/domain/order"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures de valorización. El vector principal es el escenario de referencia
// del módulo financiero:
//
//	unitPrice=25.50, boxSize=12, quantityBoxes=2, quantityLoose=5,
//	discount=10%, tax=8.5%
//	⇒ totalUnits=29, unitTotal=739.50, discountAmount=73.95,
//	  afterDiscount=665.55, taxAmount=56.57, itemTotal=722.12
//
// Si alguien cambia el orden del algoritmo o la política de redondeo, estos
// valores dejan de cuadrar y el test falla de inmediato.
// ──────────────────────────────────────────────────────────────────────────────

func mustMoney(t *testing.T, s string) money.Money {
	t.Helper()
	m, err := money.FromString(s, "COP")
	require.NoError(t, err)
	return m
}

func pct(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func itemReferencia(t *testing.T) order.Item {
	t.Helper()
	return order.Item{
		ProductID:          "prod-001",
		Code:               "SKU-001",
		Name:               "Aceite 500ml",
		UnitPrice:          mustMoney(t, "25.50"),
		BoxSize:            12,
		QuantityBoxes:      2,
		QuantityLoose:      5,
		DiscountPercentage: pct(t, "10"),
		TaxRate:            pct(t, "8.5"),
	}
}

func TestValuate_VectorReferencia(t *testing.T) {
	v := itemReferencia(t).Valuate()

	assert.Equal(t, 29, v.TotalUnits)
	assert.Equal(t, "739.50", v.UnitTotal.StringFixed())
	assert.Equal(t, "73.95", v.DiscountAmount.StringFixed())
	assert.Equal(t, "665.55", v.AfterDiscount.StringFixed())
	assert.Equal(t, "56.57", v.TaxAmount.StringFixed())
	assert.Equal(t, "722.12", v.ItemTotal.StringFixed())
}

// TestValuate_Descuento100SinImpuesto: con descuento total el impuesto es 0
// sin importar la tasa — el impuesto nunca aplica a una línea 100% descontada.
func TestValuate_Descuento100SinImpuesto(t *testing.T) {
	for _, taxRate := range []string{"0", "5", "8.5", "19", "100"} {
		it := itemReferencia(t)
		it.DiscountPercentage = pct(t, "100")
		it.TaxRate = pct(t, taxRate)

		v := it.Valuate()
		assert.True(t, v.TaxAmount.IsZero(), "tax=%s: taxAmount debe ser 0", taxRate)
		assert.True(t, v.ItemTotal.IsZero(), "tax=%s: itemTotal debe ser 0", taxRate)
		assert.True(t, v.AfterDiscount.IsZero(), "tax=%s: afterDiscount debe ser 0", taxRate)
	}
}

// TestValuate_SinDescuentoNiImpuesto: itemTotal == unitTotal == precio×unidades, exacto.
func TestValuate_SinDescuentoNiImpuesto(t *testing.T) {
	it := itemReferencia(t)
	it.DiscountPercentage = decimal.Zero
	it.TaxRate = decimal.Zero

	v := it.Valuate()
	assert.True(t, v.ItemTotal.Equal(v.UnitTotal))
	assert.Equal(t, "739.50", v.ItemTotal.StringFixed())
}

// TestValuate_PrecioCero: las muestras gratis son válidas y valen 0.
func TestValuate_PrecioCero(t *testing.T) {
	it := itemReferencia(t)
	it.UnitPrice = money.Zero("COP")

	v := it.Valuate()
	assert.Equal(t, 29, v.TotalUnits)
	assert.True(t, v.ItemTotal.IsZero())
	assert.True(t, v.TaxAmount.IsZero())
}

func TestValuate_SoloCajas(t *testing.T) {
	it := itemReferencia(t)
	it.QuantityLoose = 0

	v := it.Valuate()
	assert.Equal(t, 24, v.TotalUnits)
}

func TestValuate_SoloSueltas(t *testing.T) {
	it := itemReferencia(t)
	it.QuantityBoxes = 0

	v := it.Valuate()
	assert.Equal(t, 5, v.TotalUnits)
}

// TestValuate_Idempotente: valorizar dos veces el mismo ítem produce montos
// idénticos (sin estado oculto).
func TestValuate_Idempotente(t *testing.T) {
	it := itemReferencia(t)
	v1 := it.Valuate()
	v2 := it.Valuate()

	assert.True(t, v1.UnitTotal.Equal(v2.UnitTotal))
	assert.True(t, v1.DiscountAmount.Equal(v2.DiscountAmount))
	assert.True(t, v1.TaxAmount.Equal(v2.TaxAmount))
	assert.True(t, v1.ItemTotal.Equal(v2.ItemTotal))
}
