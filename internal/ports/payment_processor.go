package ports

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

// PaymentProcessor — внешний платёжный шлюз.
type PaymentProcessor interface {
	MakePayment(ctx context.Context, accountID domain.AccountID, amount int64) error
}
