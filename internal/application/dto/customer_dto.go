package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	Name        string          `json:"name"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Balance     decimal.Decimal `json:"balance"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	TaxID       string          `json:"tax_id"`
	Email       string          `json:"email,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Balance     decimal.Decimal `json:"balance"`
	// AvailableCredit = credit_limit − balance, derivado en la respuesta.
	AvailableCredit decimal.Decimal `json:"available_credit"`
}
