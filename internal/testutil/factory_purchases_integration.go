//go:build integration

package testutil

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

var accountSeq atomic.Int64

func init() {
	// разные прогоны не пересекаются по account_id в общей БД
	accountSeq.Store(time.Now().UnixNano() % 1_000_000_000)
}

// UniqueAccountID — новый положительный account id.
func UniqueAccountID() domain.AccountID {
	return domain.AccountID(accountSeq.Add(1000))
}

// MakePurchase — валидное сообщение о покупке: 2 взрослых, 1 ребёнок, 1 младенец (3 места, 65).
func MakePurchase(opts ...func(*domain.PurchaseMessage)) domain.PurchaseMessage {
	msg := domain.PurchaseMessage{
		AccountID: int64(UniqueAccountID()),
		TicketRequests: []domain.RawTicketRequest{
			{"ADULT": 2, "CHILD": 1},
			{"INFANT": 1},
		},
	}
	for _, fn := range opts {
		fn(&msg)
	}
	return msg
}

// WithAccount — переопределить account_id.
func WithAccount(id domain.AccountID) func(*domain.PurchaseMessage) {
	return func(m *domain.PurchaseMessage) { m.AccountID = int64(id) }
}

// WithRequests — переопределить запросы на билеты.
func WithRequests(reqs ...domain.RawTicketRequest) func(*domain.PurchaseMessage) {
	return func(m *domain.PurchaseMessage) { m.TicketRequests = reqs }
}

// MustJSON — сериализация сообщения для записи в топик.
func MustJSON(m domain.PurchaseMessage) []byte {
	raw, err := json.Marshal(m)
	if err != nil {
		panic(err)
	}
	return raw
}
