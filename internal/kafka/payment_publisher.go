package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/metrics"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// Проверка, что PaymentPublisher удовлетворяет интерфейсу PaymentProcessor.
var _ ports.PaymentProcessor = (*PaymentPublisher)(nil)

// writer — минимальный контракт над kafka.Writer.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// PaymentCommand — команда на списание, которую читает платёжный сервис.
type PaymentCommand struct {
	PaymentID   string           `json:"payment_id"`
	AccountID   domain.AccountID `json:"account_id"`
	Amount      int64            `json:"amount"`
	RequestedAt time.Time        `json:"requested_at"`
}

// PaymentPublisher — PaymentProcessor поверх Kafka: оплата считается принятой,
// когда команда записана в топик с подтверждением всех реплик.
type PaymentPublisher struct {
	writer    writer
	topic     string
	log       ports.Logger
	now       func() time.Time
	closeOnce sync.Once
}

// NewPaymentPublisher — конструктор.
func NewPaymentPublisher(cfg *PublisherConfig, log ports.Logger) *PaymentPublisher {
	return newPaymentPublisher(cfg.Writer(), cfg.Topic, log)
}

func newPaymentPublisher(w writer, topic string, log ports.Logger) *PaymentPublisher {
	return &PaymentPublisher{
		writer: w,
		topic:  topic,
		log:    log,
		now:    time.Now,
	}
}

// MakePayment — публикует платёжную команду на сумму amount.
func (p *PaymentPublisher) MakePayment(ctx context.Context, accountID domain.AccountID, amount int64) error {
	cmd := PaymentCommand{
		PaymentID:   uuid.NewString(),
		AccountID:   accountID,
		Amount:      amount,
		RequestedAt: p.now().UTC(),
	}
	value, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("marshal payment command: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(int64(accountID), 10)),
		Value: value,
	}
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		msg.Headers = append(msg.Headers, kafka.Header{Key: headerRequestID, Value: []byte(rid)})
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish payment %s: %w", cmd.PaymentID, err)
	}

	metrics.KafkaMessagesPublished.WithLabelValues(p.topic).Inc()
	p.log.Infof(ctx, "payment published id=%s account=%d amount=%d", cmd.PaymentID, accountID, amount)
	return nil
}

// Close — закрывает writer (сбрасывает буферы).
func (p *PaymentPublisher) Close() (retErr error) {
	p.closeOnce.Do(func() {
		retErr = p.writer.Close()
	})
	return retErr
}
