package models

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookLogStatus string

const (
	WebhookLogStatusReceived     WebhookLogStatus = "received"
	WebhookLogStatusHandled      WebhookLogStatus = "handled"
	WebhookLogStatusHandleFailed WebhookLogStatus = "handle_failed"
)

// WebhookLog is an audit row for every inbound gateway notification,
// including the ones that matched no local subscription.
type WebhookLog struct {
	ID   string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Kind string `gorm:"column:kind;type:varchar(128);not null" json:"kind"`
	// BraintreeID is the gateway subscription id carried by the
	// notification, when one was present.
	BraintreeID *string          `gorm:"column:braintree_id;type:varchar(64);index" json:"braintree_id"`
	TraceID     string           `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	Payload     datatypes.JSON   `gorm:"column:payload;type:jsonb" json:"payload"`
	Result      *datatypes.JSON  `gorm:"column:result;type:jsonb" json:"result"`
	Status      WebhookLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (WebhookLog) TableName() string {
	return "webhook_log"
}
