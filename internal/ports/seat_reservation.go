package ports

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

// SeatReservation — внешний сервис бронирования мест.
type SeatReservation interface {
	ReserveSeat(ctx context.Context, accountID domain.AccountID, seats int) error
}
