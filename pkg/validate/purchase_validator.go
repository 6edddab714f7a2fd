package validate

import (
	"context"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
)

// Проверка, что PurchaseValidator удовлетворяет интерфейсу PurchaseValidator.
var _ ports.PurchaseValidator = (*PurchaseValidator)(nil)

// PurchaseValidator — проверка бизнес-правил покупки.
// Правила проверяются строго по порядку, первая ошибка прерывает проверку:
//  1. account id — положительное целое;
//  2. запрос не пустой;
//  3. все типы билетов известны;
//  4. количество неотрицательное;
//  5. есть хотя бы один взрослый;
//  6. дети и младенцы — только со взрослым;
//  7. младенцев не больше, чем взрослых (сидят на коленях);
//  8. мест не больше лимита;
//  9. мест не ноль.
//
// Правила 6 и 9 перекрываются правилом 5, но остаются отдельными контрольными точками.
type PurchaseValidator struct {
	rules domain.Rules
}

// NewPurchaseValidator — конструктор PurchaseValidator (лимит мест берётся из rules).
func NewPurchaseValidator(rules domain.Rules) *PurchaseValidator {
	return &PurchaseValidator{rules: rules}
}

// Validate — проверяет запрос; seats — заранее посчитанное число мест.
func (v *PurchaseValidator) Validate(
	_ context.Context,
	accountID domain.AccountID,
	req domain.ConsolidatedRequest,
	seats int,
) error {
	if err := v.validateAccount(accountID); err != nil {
		return err
	}
	if err := v.validateShape(req); err != nil {
		return err
	}
	if err := v.validateComposition(req); err != nil {
		return err
	}
	return v.validateTotals(seats)
}

func (v *PurchaseValidator) validateAccount(accountID domain.AccountID) error {
	if !accountID.Valid() {
		return domain.NewPurchaseError(domain.ReasonInvalidAccount, domain.MsgInvalidAccount)
	}
	return nil
}

// validateShape — пустота, известные типы, неотрицательные количества.
func (v *PurchaseValidator) validateShape(req domain.ConsolidatedRequest) error {
	if req.Empty() {
		return domain.NewPurchaseError(domain.ReasonEmptyRequest, domain.MsgEmptyRequest)
	}

	counts := req.Counts()
	for t := range counts {
		if !t.Valid() {
			return domain.NewPurchaseError(domain.ReasonUnknownType, domain.MsgUnknownType)
		}
	}
	for _, q := range counts {
		if q < 0 {
			return domain.NewPurchaseError(domain.ReasonInvalidQuantity, domain.MsgInvalidQuantity)
		}
	}
	return nil
}

// validateComposition — взрослые, дети, младенцы.
func (v *PurchaseValidator) validateComposition(req domain.ConsolidatedRequest) error {
	adults := req.Adults()

	if adults <= 0 {
		return domain.NewPurchaseError(domain.ReasonNoAdult, domain.MsgNoAdult)
	}
	if (req.Children() > 0 || req.Infants() > 0) && adults <= 0 {
		return domain.NewPurchaseError(domain.ReasonMinorWithoutAdult, domain.MsgMinorWithoutAdult)
	}
	if req.Infants() > adults {
		return domain.NewPurchaseError(domain.ReasonTooManyInfants, domain.MsgTooManyInfants)
	}
	return nil
}

func (v *PurchaseValidator) validateTotals(seats int) error {
	if seats > v.rules.MaxTickets() {
		return domain.TooManyTicketsError(seats, v.rules.MaxTickets())
	}
	if seats == 0 {
		return domain.ZeroTicketsError(seats)
	}
	return nil
}
