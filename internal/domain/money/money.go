// Package money implementa el valor monetario del dominio: un monto decimal
// exacto (shopspring/decimal) etiquetado con su código de moneda ISO 4217.
//
// Toda la aritmética exige que ambos operandos compartan moneda; mezclar
// monedas retorna ErrCurrencyMismatch. Los montos derivados de porcentajes
// (descuentos, impuestos) se redondean a 2 decimales, mitad lejos de cero.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrCurrencyMismatch se retorna al operar dos montos de monedas distintas.
var ErrCurrencyMismatch = errors.New("monedas distintas en operación monetaria")

// escala de redondeo para montos derivados (centavos).
const scale = 2

var hundred = decimal.NewFromInt(100)

// Money representa un monto monetario inmutable con su moneda.
// El cero útil (Money{}) tiene monto 0 y moneda vacía; usar Zero(currency)
// para un cero con moneda definida.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// New construye un Money a partir de un decimal y un código de moneda.
func New(amount decimal.Decimal, currency string) Money {
	return Money{amount: amount, currency: currency}
}

// FromString construye un Money desde una representación decimal en texto.
func FromString(amount, currency string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("monto inválido %q: %w", amount, err)
	}
	return Money{amount: d, currency: currency}, nil
}

// Zero devuelve el monto cero en la moneda dada.
func Zero(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

// Amount devuelve el monto decimal.
func (m Money) Amount() decimal.Decimal { return m.amount }

// Currency devuelve el código de moneda.
func (m Money) Currency() string { return m.currency }

// IsZero indica si el monto es cero.
func (m Money) IsZero() bool { return m.amount.IsZero() }

// IsNegative indica si el monto es menor que cero.
func (m Money) IsNegative() bool { return m.amount.IsNegative() }

// Add suma dos montos de la misma moneda.
func (m Money) Add(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}, nil
}

// Sub resta dos montos de la misma moneda.
func (m Money) Sub(o Money) (Money, error) {
	if err := m.sameCurrency(o); err != nil {
		return Money{}, err
	}
	return Money{amount: m.amount.Sub(o.amount), currency: m.currency}, nil
}

// MulInt multiplica el monto por un entero (cantidades). No redondea:
// el producto de un precio exacto por unidades es exacto.
func (m Money) MulInt(n int) Money {
	return Money{amount: m.amount.Mul(decimal.NewFromInt(int64(n))), currency: m.currency}
}

// MulRatio multiplica el monto por una razón decimal y redondea a 2 decimales
// (mitad lejos de cero). Es la política fija para montos derivados.
func (m Money) MulRatio(ratio decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(ratio).Round(scale), currency: m.currency}
}

// Percent calcula el p% del monto (p en [0,100]) redondeado a 2 decimales.
func (m Money) Percent(p decimal.Decimal) Money {
	return m.MulRatio(p.Div(hundred))
}

// Cmp compara dos montos de la misma moneda: -1 si m < o, 0 si iguales, 1 si m > o.
func (m Money) Cmp(o Money) (int, error) {
	if err := m.sameCurrency(o); err != nil {
		return 0, err
	}
	return m.amount.Cmp(o.amount), nil
}

// GreaterThan indica si m > o (misma moneda).
func (m Money) GreaterThan(o Money) (bool, error) {
	c, err := m.Cmp(o)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// Equal indica si ambos montos tienen la misma moneda y el mismo valor numérico.
func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

// StringFixed devuelve el monto con 2 decimales, ej. "739.50".
func (m Money) StringFixed() string {
	return m.amount.StringFixed(scale)
}

// String implementa fmt.Stringer: "739.50 COP".
func (m Money) String() string {
	return m.StringFixed() + " " + m.currency
}

func (m Money) sameCurrency(o Money) error {
	if m.currency != o.currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, o.currency)
	}
	return nil
}
