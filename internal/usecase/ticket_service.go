package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Проверка, что TicketService удовлетворяет интерфейсу TicketPurchaser.
var _ ports.TicketPurchaser = (*TicketService)(nil)

const tracerName = "github.com/Gunvolt24/wb_tickets/internal/usecase"

// TicketService — покупка билетов: агрегация, проверка правил, оплата и бронь мест.
// Не хранит состояния между вызовами, безопасен для конкурентного использования.
type TicketService struct {
	payments  ports.PaymentProcessor  // внешний сервис оплаты
	seats     ports.SeatReservation   // внешний сервис брони мест
	log       ports.Logger            // логгер
	validator ports.PurchaseValidator // бизнес-правила
	rules     domain.Rules            // цены и лимит мест
	tracer    trace.Tracer
}

// NewTicketService — DI-конструктор.
func NewTicketService(
	payments ports.PaymentProcessor,
	seats ports.SeatReservation,
	log ports.Logger,
	validator ports.PurchaseValidator,
	rules domain.Rules,
) *TicketService {
	return &TicketService{
		payments:  payments,
		seats:     seats,
		log:       log,
		validator: validator,
		rules:     rules,
		tracer:    otel.Tracer(tracerName),
	}
}

// Rules — текущие цены и лимит мест.
func (s *TicketService) Rules() domain.Rules { return s.rules }

// PurchaseTickets — покупка билетов для аккаунта.
// Шаги:
//  1. агрегация запросов по типу билета (неверный формат → ErrInvalidPurchase);
//  2. проверка правил (первое нарушение → ErrInvalidPurchase);
//  3. оплата суммы;
//  4. бронь мест (только после успешной оплаты).
//
// Ошибки оплаты и брони оборачиваются в ErrDownstreamFailure.
// Если оплата прервана отменой контекста, возвращается ошибка контекста без ErrDownstreamFailure.
func (s *TicketService) PurchaseTickets(
	ctx context.Context,
	accountID domain.AccountID,
	requests ...domain.RawTicketRequest,
) error {
	ctx = ctxmeta.WithAccountID(ctx, accountID.String())
	ctx, span := s.tracer.Start(ctx, "TicketService.PurchaseTickets",
		trace.WithAttributes(
			attribute.Int64("account.id", int64(accountID)),
			attribute.Int("ticket.requests", len(requests)),
		),
	)
	defer span.End()

	quote, err := s.quote(ctx, accountID, requests...)
	if err != nil {
		return s.reject(ctx, span, err)
	}
	span.SetAttributes(
		attribute.Int("purchase.seats", quote.Seats),
		attribute.Int64("purchase.amount", quote.Amount),
	)

	if err := ctx.Err(); err != nil {
		return s.abort(ctx, span, err)
	}

	if err := s.payments.MakePayment(ctx, accountID, quote.Amount); err != nil {
		if ctx.Err() != nil {
			return s.abort(ctx, span, fmt.Errorf("make payment: %w", err))
		}
		return s.fail(ctx, span, fmt.Errorf("%w: make payment: %w", domain.ErrDownstreamFailure, err))
	}

	// после оплаты бронь не повторяется: любая ошибка считается отказом внешнего сервиса
	if err := s.seats.ReserveSeat(ctx, accountID, quote.Seats); err != nil {
		return s.fail(ctx, span, fmt.Errorf("%w: reserve seats after payment of %d: %w",
			domain.ErrDownstreamFailure, quote.Amount, err))
	}

	s.record(quote)
	span.SetStatus(codes.Ok, "")
	s.log.Infof(ctx, "tickets purchased account=%d seats=%d amount=%d tickets=%v",
		accountID, quote.Seats, quote.Amount, quote.Tickets)
	return nil
}

// Quote — расчёт мест и суммы без оплаты и брони.
func (s *TicketService) Quote(
	ctx context.Context,
	accountID domain.AccountID,
	requests ...domain.RawTicketRequest,
) (domain.PurchaseOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "TicketService.Quote",
		trace.WithAttributes(attribute.Int64("account.id", int64(accountID))),
	)
	defer span.End()

	quote, err := s.quote(ctx, accountID, requests...)
	if err != nil {
		span.RecordError(err)
		s.log.Warnf(ctx, "quote rejected account=%d: %v", accountID, err)
		return domain.PurchaseOutcome{}, err
	}
	return quote.PurchaseOutcome, nil
}

// PurchaseFromMessage — покупка по сообщению из брокера (raw JSON).
// Битый JSON и неизвестные поля дают ErrInvalidPurchase с сообщением о неверном формате.
func (s *TicketService) PurchaseFromMessage(ctx context.Context, raw []byte) error {
	msg, err := domain.DecodePurchaseMessage(raw)
	if err != nil {
		metrics.TicketPurchases.WithLabelValues(metrics.ResultRejected).Inc()
		metrics.TicketPurchaseRejections.WithLabelValues(string(domain.ReasonInvalidFormat)).Inc()
		s.log.Warnf(ctx, "invalid purchase message size=%d: %v", len(raw), err)
		return err
	}
	return s.PurchaseTickets(ctx, msg.Account(), msg.TicketRequests...)
}

// quote — агрегация, места, проверка правил и сумма; внешние сервисы не вызываются.
func (s *TicketService) quote(
	ctx context.Context,
	accountID domain.AccountID,
	requests ...domain.RawTicketRequest,
) (domain.Quote, error) {
	consolidated, err := domain.Consolidate(requests...)
	if err != nil {
		return domain.Quote{}, err
	}
	seats := s.rules.SeatsRequired(consolidated)
	if err := s.validator.Validate(ctx, accountID, consolidated, seats); err != nil {
		return domain.Quote{}, err
	}
	return domain.Quote{
		AccountID:       accountID,
		Tickets:         consolidated.Counts(),
		PurchaseOutcome: s.rules.Outcome(consolidated),
	}, nil
}

// reject — нарушение правил или ошибка валидатора.
func (s *TicketService) reject(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	if !errors.Is(err, domain.ErrInvalidPurchase) {
		return s.fail(ctx, span, fmt.Errorf("validate purchase: %w", err))
	}

	reason, _ := domain.ReasonOf(err)
	span.SetStatus(codes.Error, string(reason))
	metrics.TicketPurchases.WithLabelValues(metrics.ResultRejected).Inc()
	metrics.TicketPurchaseRejections.WithLabelValues(string(reason)).Inc()
	s.log.Warnf(ctx, "purchase rejected reason=%s: %v", reason, err)
	return err
}

// fail — отказ внешнего сервиса или внутренняя ошибка.
func (s *TicketService) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "purchase failed")
	metrics.TicketPurchases.WithLabelValues(metrics.ResultFailed).Inc()
	s.log.Errorf(ctx, "purchase failed: %v", err)
	return err
}

// abort — покупка прервана до списания (отмена или таймаут контекста).
func (s *TicketService) abort(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "purchase aborted")
	metrics.TicketPurchases.WithLabelValues(metrics.ResultFailed).Inc()
	s.log.Warnf(ctx, "purchase aborted: %v", err)
	return err
}

func (s *TicketService) record(quote domain.Quote) {
	metrics.TicketPurchases.WithLabelValues(metrics.ResultSuccess).Inc()
	for t, q := range quote.Tickets {
		if q > 0 {
			metrics.TicketsSold.WithLabelValues(t.String()).Add(float64(q))
		}
	}
	metrics.TicketPurchaseAmount.Add(float64(quote.Amount))
	metrics.SeatsReserved.Add(float64(quote.Seats))
}
