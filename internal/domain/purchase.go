package domain

import (
	"bytes"
	"encoding/json"
	"io"
)

// PurchaseMessage — запрос на покупку, пришедший из брокера или файла.
// account_id оставлен нетипизированным: нецелое значение должно дойти до правила проверки аккаунта.
type PurchaseMessage struct {
	AccountID      any                `json:"account_id"`
	TicketRequests []RawTicketRequest `json:"ticket_requests"`
}

// Account — account_id, приведённый к AccountID (0, если не целое число).
func (m *PurchaseMessage) Account() AccountID { return ParseAccountID(m.AccountID) }

// DecodePurchaseMessage — строгий разбор сообщения о покупке.
// Неизвестные поля, лишние данные после объекта и битый JSON считаются неверным форматом.
func DecodePurchaseMessage(raw []byte) (PurchaseMessage, error) {
	var msg PurchaseMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	dec.UseNumber()
	if err := dec.Decode(&msg); err != nil {
		return PurchaseMessage{}, NewPurchaseError(ReasonInvalidFormat, MsgInvalidFormat)
	}
	// после объекта ничего быть не должно
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return PurchaseMessage{}, NewPurchaseError(ReasonInvalidFormat, MsgInvalidFormat)
	}
	return msg, nil
}

// Quote — провалидированная покупка без обращения к внешним сервисам.
type Quote struct {
	AccountID AccountID          `json:"account_id"`
	Tickets   map[TicketType]int `json:"tickets"`
	PurchaseOutcome
}
