package order

import (
	"fmt"
	"strings"
)

// Códigos de error de reglas de negocio.
const (
	CodeCreditLimitExceeded  = "CREDIT_LIMIT_EXCEEDED"
	CodeItemQuantityExceeded = "ITEM_QUANTITY_EXCEEDED"
	CodeDuplicateProduct     = "DUPLICATE_PRODUCT"
)

// ValidationError agrupa violaciones estructurales por campo. Se reportan
// todas las violaciones de una pasada, no solo la primera, para que el
// cliente pueda marcar cada campo ofensivo de una vez.
type ValidationError struct {
	Message string
	Fields  map[string][]string // ruta de campo -> mensajes, ej. "items[2].box_size"
}

// NewValidationError construye un ValidationError vacío listo para acumular.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message, Fields: make(map[string][]string)}
}

// Addf agrega un mensaje de violación al campo indicado.
func (e *ValidationError) Addf(field, format string, args ...interface{}) {
	e.Fields[field] = append(e.Fields[field], fmt.Sprintf(format, args...))
}

// HasErrors indica si se acumuló al menos una violación.
func (e *ValidationError) HasErrors() bool { return len(e.Fields) > 0 }

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(fields, ", "))
}

// RuleError es una falla de regla de negocio: una sola causa, con el código,
// la ruta del campo ofensivo y metadatos suficientes para un mensaje preciso
// (total vs crédito disponible, índice del ítem, cantidad vs máximo).
type RuleError struct {
	Code    string
	Message string
	Fields  map[string][]string
	Meta    map[string]string
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// StatusConflictError señala una transición ilegal de fulfillment. Siempre
// lleva el estado actual y el nombre de la operación intentada.
type StatusConflictError struct {
	CurrentStatus    FulfillmentStatus
	CommercialStatus Status
	Operation        string
	Reason           string
}

func (e *StatusConflictError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("transición %s ilegal desde %s: %s", e.Operation, e.CurrentStatus, e.Reason)
	}
	return fmt.Sprintf("transición %s ilegal desde %s", e.Operation, e.CurrentStatus)
}
