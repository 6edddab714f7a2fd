package domain

import (
	"encoding/json"
	"math"
)

// TicketType — тип билета; множество значений закрыто.
type TicketType string

const (
	TicketAdult  TicketType = "ADULT"
	TicketChild  TicketType = "CHILD"
	TicketInfant TicketType = "INFANT"
)

// TicketTypes — все известные типы в порядке вывода.
var TicketTypes = []TicketType{TicketAdult, TicketChild, TicketInfant}

// Valid — входит ли тип в закрытое множество.
func (t TicketType) Valid() bool {
	switch t {
	case TicketAdult, TicketChild, TicketInfant:
		return true
	default:
		return false
	}
}

func (t TicketType) String() string { return string(t) }

// ParseTicketType — строгий разбор тега (регистр важен, как в запросах клиентов).
func ParseTicketType(tag string) (TicketType, bool) {
	t := TicketType(tag)
	return t, t.Valid()
}

// TicketTypeRequest — неизменяемая пара (тип, количество).
type TicketTypeRequest struct {
	ticketType TicketType
	quantity   int
}

// NewTicketTypeRequest — конструктор; ErrInvalidFormat при неизвестном типе или quantity < 0.
func NewTicketTypeRequest(t TicketType, quantity int) (TicketTypeRequest, error) {
	if !t.Valid() {
		return TicketTypeRequest{}, ErrInvalidFormat
	}
	if quantity < 0 {
		return TicketTypeRequest{}, ErrInvalidFormat
	}
	return TicketTypeRequest{ticketType: t, quantity: quantity}, nil
}

func (r TicketTypeRequest) Type() TicketType { return r.ticketType }
func (r TicketTypeRequest) Quantity() int    { return r.quantity }

// RawTicketRequest — сырой запрос клиента: тег типа -> количество.
// Значения приходят как json.Number/float64 (JSON) или любые целые и вещественные типы Go;
// проверяются при консолидации.
type RawTicketRequest map[string]any

// quantityFromAny — целое неотрицательное количество из произвольного значения.
func quantityFromAny(v any) (int, bool) {
	switch q := v.(type) {
	case int:
		return quantityFromAny(int64(q))
	case int8:
		return quantityFromAny(int64(q))
	case int16:
		return quantityFromAny(int64(q))
	case int32:
		return quantityFromAny(int64(q))
	case int64:
		if q < 0 || q > math.MaxInt32 {
			return 0, false
		}
		return int(q), true
	case uint:
		return quantityFromAny(uint64(q))
	case uint8:
		return int(q), true
	case uint16:
		return int(q), true
	case uint32:
		return quantityFromAny(uint64(q))
	case uint64:
		if q > math.MaxInt32 {
			return 0, false
		}
		return int(q), true
	case float32:
		return floatQuantity(float64(q))
	case float64:
		return floatQuantity(q)
	case json.Number:
		if n, err := q.Int64(); err == nil {
			return quantityFromAny(n)
		}
		f, err := q.Float64()
		if err != nil {
			return 0, false
		}
		return floatQuantity(f)
	default:
		return 0, false
	}
}

// floatQuantity — 2.0 считается целым, 1.5/NaN/Inf — нет.
func floatQuantity(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// TicketTypeRequestFromRaw — одна пара сырого запроса -> TicketTypeRequest.
func TicketTypeRequestFromRaw(tag string, value any) (TicketTypeRequest, error) {
	t, ok := ParseTicketType(tag)
	if !ok {
		return TicketTypeRequest{}, ErrInvalidFormat
	}
	q, ok := quantityFromAny(value)
	if !ok {
		return TicketTypeRequest{}, ErrInvalidFormat
	}
	return NewTicketTypeRequest(t, q)
}
