package ports

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

// TicketPurchaser — сервис покупки билетов для транспортного слоя.
type TicketPurchaser interface {
	PurchaseTickets(ctx context.Context, accountID domain.AccountID, requests ...domain.RawTicketRequest) error
	Quote(ctx context.Context, accountID domain.AccountID, requests ...domain.RawTicketRequest) (domain.PurchaseOutcome, error)
	Rules() domain.Rules
}
