package validate

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
)

// QuotePurchase — агрегация, подсчёт мест и проверка правил без обращения к внешним сервисам.
func QuotePurchase(
	ctx context.Context,
	validator ports.PurchaseValidator,
	rules domain.Rules,
	accountID domain.AccountID,
	requests ...domain.RawTicketRequest,
) (domain.Quote, error) {
	consolidated, err := domain.Consolidate(requests...)
	if err != nil {
		return domain.Quote{}, err
	}
	seats := rules.SeatsRequired(consolidated)
	if err := validator.Validate(ctx, accountID, consolidated, seats); err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote{
		AccountID:       accountID,
		Tickets:         consolidated.Counts(),
		PurchaseOutcome: rules.Outcome(consolidated),
	}, nil
}

// ValidatePurchaseFromJSON — валидация покупки из JSON.
func ValidatePurchaseFromJSON(
	ctx context.Context,
	validator ports.PurchaseValidator,
	rules domain.Rules,
	raw []byte,
) (*domain.Quote, error) {
	msg, err := domain.DecodePurchaseMessage(raw)
	if err != nil {
		return nil, err
	}
	quote, err := QuotePurchase(ctx, validator, rules, msg.Account(), msg.TicketRequests...)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}
