package domain

import (
	"errors"
	"fmt"
)

const (
	DefaultAdultPrice  int64 = 25
	DefaultChildPrice  int64 = 15
	DefaultInfantPrice int64 = 0
	DefaultMaxTickets        = 25
)

// ErrInvalidRules — некорректная таблица цен или лимит.
var ErrInvalidRules = errors.New("invalid purchase rules")

// PriceTable — цена одного билета по типу.
type PriceTable struct {
	Adult  int64
	Child  int64
	Infant int64
}

// Price — цена билета типа t.
func (p PriceTable) Price(t TicketType) int64 {
	switch t {
	case TicketAdult:
		return p.Adult
	case TicketChild:
		return p.Child
	case TicketInfant:
		return p.Infant
	default:
		return 0
	}
}

// Rules — неизменяемая конфигурация покупки: цены и максимум мест за один запрос.
type Rules struct {
	prices     PriceTable
	maxTickets int
}

// NewRules — конструктор с проверкой значений.
func NewRules(prices PriceTable, maxTickets int) (Rules, error) {
	if prices.Adult < 0 || prices.Child < 0 || prices.Infant < 0 {
		return Rules{}, fmt.Errorf("%w: prices must be non-negative", ErrInvalidRules)
	}
	if maxTickets <= 0 {
		return Rules{}, fmt.Errorf("%w: max tickets must be positive, got %d", ErrInvalidRules, maxTickets)
	}
	return Rules{prices: prices, maxTickets: maxTickets}, nil
}

// DefaultRules — ADULT 25, CHILD 15, INFANT 0, не больше 25 мест.
func DefaultRules() Rules {
	return Rules{
		prices:     PriceTable{Adult: DefaultAdultPrice, Child: DefaultChildPrice, Infant: DefaultInfantPrice},
		maxTickets: DefaultMaxTickets,
	}
}

func (r Rules) Prices() PriceTable { return r.prices }
func (r Rules) MaxTickets() int    { return r.maxTickets }

// SeatsRequired — места: взрослые + дети (младенцы сидят на коленях у взрослых).
func (r Rules) SeatsRequired(c ConsolidatedRequest) int {
	return c.Adults() + c.Children()
}

// AmountDue — сумма к оплате по таблице цен.
// Вызывать только для провалидированного запроса.
func (r Rules) AmountDue(c ConsolidatedRequest) int64 {
	return int64(c.Adults())*r.prices.Adult +
		int64(c.Children())*r.prices.Child +
		int64(c.Infants())*r.prices.Infant
}

// Outcome — итоги по провалидированному запросу.
func (r Rules) Outcome(c ConsolidatedRequest) PurchaseOutcome {
	return PurchaseOutcome{Seats: r.SeatsRequired(c), Amount: r.AmountDue(c)}
}

// PurchaseOutcome — производные итоги покупки.
type PurchaseOutcome struct {
	Seats  int   `json:"seats"`
	Amount int64 `json:"amount"`
}
