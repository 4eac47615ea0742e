package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer representa un cliente mayorista de la empresa. CreditLimit y
// Balance alimentan el chequeo de crédito al crear pedidos: el cupo
// disponible es CreditLimit − Balance.
type Customer struct {
	ID          string
	CompanyID   string
	Code        string // código interno único por empresa
	Name        string
	TaxID       string // NIT o cédula
	Email       string
	Phone       string
	Address     string
	CreditLimit decimal.Decimal // ≥ 0
	Balance     decimal.Decimal // saldo pendiente, ≥ 0
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
