package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo mayorista. Se vende por cajas
// (BoxSize unidades) y/o unidades sueltas; TaxRate es porcentaje [0,100].
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta por unidad
	BoxSize     int             // unidades por caja, entero positivo
	TaxRate     decimal.Decimal // IVA en porcentaje: 0, 5, 19
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
