package events

import "time"

// Event types
const (
	AccountCreated = "account.created"
	AccountUpdated = "account.updated"
	AccountDeleted = "account.deleted"
	BalanceUpdated = "balance.updated"

	TransactionCreated = "transaction.created"

	BillPaid = "bill.paid"

	CardCreated = "card.created"
	CardUpdated = "card.updated"

	MessageSent = "message.sent"
)

// Stream names
const (
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
	BillEventsStream        = "bill.events"
	CardEventsStream        = "card.events"
	MessageEventsStream     = "message.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Account events
type AccountCreatedEvent struct {
	AccountID   string `json:"accountId"`
	UserID      string `json:"userId"`
	AccountName string `json:"accountName"`
	AccountType string `json:"accountType"`
}

type AccountUpdatedEvent struct {
	AccountID   string `json:"accountId"`
	UserID      string `json:"userId"`
	AccountName string `json:"accountName"`
}

type AccountDeletedEvent struct {
	AccountID string `json:"accountId"`
	UserID    string `json:"userId"`
}

type BalanceUpdatedEvent struct {
	AccountID  string  `json:"accountId"`
	UserID     string  `json:"userId"`
	NewBalance float64 `json:"newBalance"`
	Change     float64 `json:"change"`
}

// Transaction events
type TransactionCreatedEvent struct {
	TransactionID string  `json:"transactionId"`
	AccountID     string  `json:"accountId"`
	UserID        string  `json:"userId"`
	Type          string  `json:"transactionType"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	ReferenceID   string  `json:"referenceId,omitempty"`
}

// Bill events
type BillPaidEvent struct {
	BillID    string  `json:"billId"`
	UserID    string  `json:"userId"`
	BillType  string  `json:"billType"`
	Amount    float64 `json:"amount"`
	LedgerRef string  `json:"ledgerRef"`
}

// Card events
type CardCreatedEvent struct {
	CardID string `json:"cardId"`
	UserID string `json:"userId"`
}

type CardUpdatedEvent struct {
	CardID     string  `json:"cardId"`
	UserID     string  `json:"userId"`
	NewBalance float64 `json:"newBalance"`
	Change     float64 `json:"change"`
}

// Message events
type MessageSentEvent struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	ReceiverID     string `json:"receiverId"`
}

// UserID extracts the owning user of an event so the realtime feed can
// route it to the right session. The second return is false for event
// payloads that carry no user scoping.
func (e Event) UserID() (string, bool) {
	data, ok := e.Data.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := data["userId"].(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Recipients lists every user a delivered event belongs to. Message
// events fan out to both participants; everything else stays with the
// owning user.
func (e Event) Recipients() []string {
	data, ok := e.Data.(map[string]any)
	if !ok {
		return nil
	}
	var recipients []string
	for _, key := range []string{"userId", "senderId", "receiverId"} {
		id, ok := data[key].(string)
		if !ok || id == "" {
			continue
		}
		seen := false
		for _, r := range recipients {
			if r == id {
				seen = true
				break
			}
		}
		if !seen {
			recipients = append(recipients, id)
		}
	}
	return recipients
}
