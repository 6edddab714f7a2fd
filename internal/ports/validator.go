package ports

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

// PurchaseValidator — проверка бизнес-правил консолидированного запроса.
// Возвращает *domain.PurchaseError (errors.Is(err, domain.ErrInvalidPurchase)) на первом нарушении.
type PurchaseValidator interface {
	Validate(ctx context.Context, accountID domain.AccountID, req domain.ConsolidatedRequest, seats int) error
}
