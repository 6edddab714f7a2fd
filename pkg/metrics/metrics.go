package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	KafkaMessagesConsumed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_consumed_total",
			Help: "Number of messages fetched from Kafka",
		},
		[]string{"topic"},
	)
	KafkaMessagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Number of messages processed successfully",
		},
		[]string{"topic"},
	)
	KafkaMessagesFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_failed_total",
			Help: "Number of messages failed to process",
		},
		[]string{"topic"},
	)
	KafkaMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_published_total",
			Help: "Number of messages written to Kafka",
		},
		[]string{"topic"},
	)
)

var (
	TicketPurchases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchases_total",
			Help: "Ticket purchase attempts by result",
		},
		[]string{"result"}, // success|rejected|failed
	)
	TicketPurchaseRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_purchase_rejections_total",
			Help: "Rejected ticket purchases by rule",
		},
		[]string{"reason"},
	)
	TicketsSold = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Tickets sold by type",
		},
		[]string{"type"},
	)
	TicketPurchaseAmount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_purchase_amount_total",
			Help: "Total amount charged for purchased tickets",
		},
	)
	SeatsReserved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "seats_reserved_total",
			Help: "Total number of reserved seats",
		},
	)
)

// Значения лейбла result.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в default registry; повторный вызов ничего не делает.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			KafkaMessagesConsumed, KafkaMessagesProcessed, KafkaMessagesFailed, KafkaMessagesPublished,
			TicketPurchases, TicketPurchaseRejections, TicketsSold, TicketPurchaseAmount, SeatsReserved,
		)
	})
}
