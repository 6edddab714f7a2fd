package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidPurchase — базовая (sentinel) ошибка невалидного запроса на покупку.
// Все нарушения правил разворачиваются в неё через *PurchaseError.
var ErrInvalidPurchase = errors.New("invalid purchase request")

// ErrDownstreamFailure — отказ внешнего сервиса (оплата, бронирование мест).
var ErrDownstreamFailure = errors.New("downstream service failure")

// ErrInvalidFormat — ошибка построения TicketTypeRequest; наружу не выходит,
// агрегатор заменяет её на PurchaseError{Reason: ReasonInvalidFormat}.
var ErrInvalidFormat = errors.New("invalid ticket type request")

// Reason — стабильная метка причины отказа (для логов и метрик).
type Reason string

const (
	ReasonInvalidFormat     Reason = "invalid_format"
	ReasonInvalidAccount    Reason = "invalid_account"
	ReasonEmptyRequest      Reason = "empty_request"
	ReasonUnknownType       Reason = "unknown_ticket_type"
	ReasonInvalidQuantity   Reason = "invalid_quantity"
	ReasonNoAdult           Reason = "no_adult"
	ReasonMinorWithoutAdult Reason = "minor_without_adult"
	ReasonTooManyInfants    Reason = "too_many_infants"
	ReasonTooManyTickets    Reason = "too_many_tickets"
	ReasonZeroTickets       Reason = "zero_tickets"
)

// Сообщения для клиентов.
const (
	MsgInvalidFormat     = "Invalid ticket request format"
	MsgInvalidAccount    = "Account ID must be a positive integer"
	MsgEmptyRequest      = "Minimum of one ticket type request must be provided"
	MsgUnknownType       = "Invalid ticket type provided"
	MsgInvalidQuantity   = "Number of tickets must be a non-negative integer"
	MsgNoAdult           = "At least one adult ticket must be purchased"
	MsgMinorWithoutAdult = "At least one adult ticket must be purchased with child or infant tickets"
	MsgTooManyInfants    = "More infants than adults is not allowed"
)

// PurchaseError — нарушение правила покупки.
type PurchaseError struct {
	Reason  Reason
	Message string
}

func (e *PurchaseError) Error() string { return e.Message }

func (e *PurchaseError) Unwrap() error { return ErrInvalidPurchase }

// NewPurchaseError — конструктор PurchaseError.
func NewPurchaseError(reason Reason, message string) *PurchaseError {
	return &PurchaseError{Reason: reason, Message: message}
}

// TooManyTicketsError — превышен лимит мест.
func TooManyTicketsError(seats, limit int) *PurchaseError {
	return NewPurchaseError(ReasonTooManyTickets,
		fmt.Sprintf("The purchase request for %d exceeded %d tickets", seats, limit))
}

// ZeroTicketsError — запрошено 0 мест.
func ZeroTicketsError(seats int) *PurchaseError {
	return NewPurchaseError(ReasonZeroTickets, fmt.Sprintf("Invalid purchase request for %d tickets", seats))
}

// ReasonOf — причина отказа, если err — PurchaseError.
func ReasonOf(err error) (Reason, bool) {
	var pe *PurchaseError
	if errors.As(err, &pe) {
		return pe.Reason, true
	}
	return "", false
}
