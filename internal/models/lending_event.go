package models

import (
	"time"

	"gorm.io/datatypes"
)

// Lending event types.
const (
	EventBorrowed = "BORROWED"
	EventReturned = "RETURNED"
)

// LendingEvent is an append-only audit record written in the same database
// transaction as the ledger mutation it describes.
type LendingEvent struct {
	ID            uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string         `gorm:"column:transaction_id;type:uuid;not null;index" json:"transactionId"`
	EventType     string         `gorm:"column:event_type;not null" json:"eventType"`
	ActorID       string         `gorm:"column:actor_id;type:uuid;not null" json:"actorId"`
	EventData     datatypes.JSON `gorm:"column:event_data" json:"eventData"`
	CreatedAt     time.Time      `json:"createdAt"`
}

func (LendingEvent) TableName() string {
	return "lending_events"
}
