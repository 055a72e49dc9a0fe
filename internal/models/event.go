package models

// Transaction event kinds
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// TransactionEvent is published after every mutation of the remote store.
type TransactionEvent struct {
	Event         string       `json:"event"`          // created, updated or deleted
	UserID        string       `json:"user_id"`        // Owner of the transaction
	TransactionID string       `json:"transaction_id"` // Affected transaction
	Timestamp     int64        `json:"timestamp"`      // Unix seconds of the mutation
	Transaction   *Transaction `json:"transaction,omitempty"`
}
