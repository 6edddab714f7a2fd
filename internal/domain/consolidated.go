package domain

import "math"

// ConsolidatedRequest — суммарное количество билетов по типам за один вызов покупки.
// Хранит факт присутствия типа: {ADULT: 0} — непустой запрос.
type ConsolidatedRequest struct {
	counts map[TicketType]int
}

// ConsolidatedFromCounts — консолидированный запрос из готовых сумм (копия входной карты).
// Ключи и значения не проверяются — это задача валидатора правил.
func ConsolidatedFromCounts(counts map[TicketType]int) ConsolidatedRequest {
	c := ConsolidatedRequest{counts: make(map[TicketType]int, len(counts))}
	for t, q := range counts {
		c.counts[t] = q
	}
	return c
}

// Consolidate — агрегирует сырые запросы, суммируя количество по типам.
// Любая ошибка построения TicketTypeRequest (неизвестный тип, нецелое или отрицательное
// значение, переполнение суммы) превращается в единое "Invalid ticket request format".
// nil-запрос (JSON null) тоже считается неверным форматом; пустой {} допустим.
func Consolidate(requests ...RawTicketRequest) (ConsolidatedRequest, error) {
	c := ConsolidatedRequest{counts: make(map[TicketType]int, len(TicketTypes))}

	for _, raw := range requests {
		if raw == nil {
			return ConsolidatedRequest{}, NewPurchaseError(ReasonInvalidFormat, MsgInvalidFormat)
		}
		for tag, value := range raw {
			ticket, err := TicketTypeRequestFromRaw(tag, value)
			if err != nil {
				return ConsolidatedRequest{}, NewPurchaseError(ReasonInvalidFormat, MsgInvalidFormat)
			}
			if err := c.add(ticket); err != nil {
				return ConsolidatedRequest{}, NewPurchaseError(ReasonInvalidFormat, MsgInvalidFormat)
			}
		}
	}
	return c, nil
}

// ConsolidateTickets — то же для уже построенных TicketTypeRequest.
func ConsolidateTickets(tickets ...TicketTypeRequest) (ConsolidatedRequest, error) {
	c := ConsolidatedRequest{counts: make(map[TicketType]int, len(TicketTypes))}
	for _, ticket := range tickets {
		if err := c.add(ticket); err != nil {
			return ConsolidatedRequest{}, NewPurchaseError(ReasonInvalidFormat, MsgInvalidFormat)
		}
	}
	return c, nil
}

func (c *ConsolidatedRequest) add(ticket TicketTypeRequest) error {
	cur := c.counts[ticket.Type()]
	if cur > math.MaxInt32-ticket.Quantity() {
		return ErrInvalidFormat
	}
	c.counts[ticket.Type()] = cur + ticket.Quantity()
	return nil
}

// Quantity — количество билетов типа t (0, если тип не указан).
func (c ConsolidatedRequest) Quantity(t TicketType) int { return c.counts[t] }

// Has — был ли тип указан явно.
func (c ConsolidatedRequest) Has(t TicketType) bool {
	_, ok := c.counts[t]
	return ok
}

// Empty — не указан ни один тип.
func (c ConsolidatedRequest) Empty() bool { return len(c.counts) == 0 }

// Counts — копия сумм по типам.
func (c ConsolidatedRequest) Counts() map[TicketType]int {
	out := make(map[TicketType]int, len(c.counts))
	for t, q := range c.counts {
		out[t] = q
	}
	return out
}

func (c ConsolidatedRequest) Adults() int   { return c.counts[TicketAdult] }
func (c ConsolidatedRequest) Children() int { return c.counts[TicketChild] }
func (c ConsolidatedRequest) Infants() int  { return c.counts[TicketInfant] }
