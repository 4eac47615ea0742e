package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pedidos-pro/internal/domain/money"
)

func cop(s string) money.Money {
	m, err := money.FromString(s, "COP")
	if err != nil {
		panic(err)
	}
	return m
}

func TestAdd_MismaMoneda(t *testing.T) {
	sum, err := cop("739.50").Add(cop("378.00"))
	require.NoError(t, err)
	assert.Equal(t, "1117.50", sum.StringFixed())
	assert.Equal(t, "COP", sum.Currency())
}

func TestAdd_MonedaDistintaFalla(t *testing.T) {
	usd, err := money.FromString("10.00", "USD")
	require.NoError(t, err)

	_, err = cop("10.00").Add(usd)
	require.Error(t, err)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestSub_MonedaDistintaFalla(t *testing.T) {
	usd, err := money.FromString("1.00", "USD")
	require.NoError(t, err)

	_, err = cop("5.00").Sub(usd)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

func TestCmp_MonedaDistintaFalla(t *testing.T) {
	eur, err := money.FromString("1.00", "EUR")
	require.NoError(t, err)

	_, err = cop("1.00").Cmp(eur)
	assert.ErrorIs(t, err, money.ErrCurrencyMismatch)
}

// TestMulRatio_RedondeoMitadLejosDeCero fija la política de redondeo de
// montos derivados: 665.55 × 0.085 = 56.57175 → 56.57.
func TestMulRatio_RedondeoMitadLejosDeCero(t *testing.T) {
	ratio, err := decimal.NewFromString("0.085")
	require.NoError(t, err)

	got := cop("665.55").MulRatio(ratio)
	assert.Equal(t, "56.57", got.StringFixed())
}

func TestPercent(t *testing.T) {
	pct := decimal.NewFromInt(10)
	got := cop("739.50").Percent(pct)
	assert.Equal(t, "73.95", got.StringFixed())
}

func TestMulInt_EsExacto(t *testing.T) {
	got := cop("25.50").MulInt(29)
	assert.Equal(t, "739.50", got.StringFixed())
}

func TestGreaterThan(t *testing.T) {
	gt, err := cop("100.01").GreaterThan(cop("100.00"))
	require.NoError(t, err)
	assert.True(t, gt)

	gt, err = cop("100.00").GreaterThan(cop("100.00"))
	require.NoError(t, err)
	assert.False(t, gt, "montos iguales no son 'mayor que'")
}

func TestZeroYEqual(t *testing.T) {
	z := money.Zero("COP")
	assert.True(t, z.IsZero())
	assert.True(t, z.Equal(cop("0.00")), "cero con la misma moneda es igual a 0.00")
	assert.False(t, z.Equal(money.Zero("USD")), "cero de monedas distintas no es igual")
}

func TestFromString_Invalido(t *testing.T) {
	_, err := money.FromString("no-numerico", "COP")
	assert.Error(t, err)
}
