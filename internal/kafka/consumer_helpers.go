package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/pkg/ctxmeta"
	"github.com/Gunvolt24/wb_tickets/pkg/metrics"
	"github.com/segmentio/kafka-go"
)

// headerRequestID — заголовок сообщения с идентификатором запроса от продюсера.
const headerRequestID = "X-Request-ID"

// handleMessage обрабатывает одно сообщение и определяет нужно ли коммитить оффсет.
func (c *Consumer) handleMessage(ctx context.Context, topic string, msg *kafka.Message) bool {
	ctx = ctxmeta.WithRequestID(ctx, messageRequestID(topic, msg))

	ctxTimeout, cancel := context.WithTimeout(ctx, c.processTimeout)
	err := c.service.PurchaseFromMessage(ctxTimeout, msg.Value)
	cancel()

	switch {
	case err == nil:
		metrics.KafkaMessagesProcessed.WithLabelValues(topic).Inc()
		return true
	case errors.Is(err, domain.ErrInvalidPurchase):
		// Отклонено правилами: повтор даст тот же результат
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "purchase rejected offset=%d: %v (skipped)", msg.Offset, err)
		return true
	case errors.Is(err, domain.ErrDownstreamFailure):
		// Оплата или бронь могли частично пройти: без идемпотентности повтор опаснее пропуска
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Errorf(ctx, "purchase failed downstream offset=%d: %v (skipped)", msg.Offset, err)
		return true
	default:
		// Таймаут/остановка до оплаты: НЕ коммитим - будем обрабатывать повторно
		metrics.KafkaMessagesFailed.WithLabelValues(topic).Inc()
		c.log.Warnf(ctx, "process failed offset=%d: %v (will retry without commit)", msg.Offset, err)
		return false
	}
}

// messageRequestID — request id из заголовка или координаты сообщения.
func messageRequestID(topic string, msg *kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == headerRequestID && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return fmt.Sprintf("%s/%d/%d", topic, msg.Partition, msg.Offset)
}

// commitSafely пытается закоммитить оффсет и залогировать ошибку.
func (c *Consumer) commitSafely(ctx context.Context, msg *kafka.Message) {
	if commitErr := c.reader.CommitMessages(ctx, *msg); commitErr != nil {
		c.log.Warnf(ctx, "commit failed offset=%d: %v", msg.Offset, commitErr)
	}
}

// sleepWithBackoff ждет backoff или останавливается по контексту.
func (c *Consumer) sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// nextBackoff возвращает следующее время ожидания повтора с учетом retryMax.
func (c *Consumer) nextBackoff(current time.Duration) time.Duration {
	current *= 2
	if current > c.retryMax {
		return c.retryMax
	}
	return current
}

// withJitterEqual — половина задержки фиксирована, вторая половина случайна.
func (c *Consumer) withJitterEqual(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	half := d / 2
	jitter := time.Duration(c.jitterRand.Int63n(int64(d-half) + 1))
	return half + jitter
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
