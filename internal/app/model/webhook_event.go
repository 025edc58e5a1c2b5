package model

import (
	"time"
)

// WebhookEvent records a processed webhook delivery. The unique EventID is
// the idempotency guard against Shopify's at-least-once redelivery: a second
// delivery with the same id is acknowledged and skipped.
type WebhookEvent struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	EventID     string    `gorm:"uniqueIndex;not null" json:"event_id"`
	Topic       string    `gorm:"not null" json:"topic"`
	ProcessedAt time.Time `json:"processed_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
