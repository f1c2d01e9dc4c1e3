package models

import (
	"time"

	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/types"

	"gorm.io/datatypes"
)

// SubscriptionLog records lifecycle changes to subscription rows.
// Use case: troubleshooting, and reconstructing plan-change history.
type SubscriptionLog struct {
	ID         string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CustomerID string `gorm:"column:customer_id;type:varchar(64);index:idx_customer_id_id,priority:1;not null"`
	// Reason is the change reason.
	Reason types.SubscriptionChangeReason `gorm:"column:reason;type:varchar(64);not null"`
	// Before stores subscription data before the change in JSON format.
	Before datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb;default:'null'"`
	// After stores subscription data after the change in JSON format.
	After datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb;default:'null'"`
	// Extra stores additional context such as the gateway response or trigger source.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'"`
	CreatedAt time.Time
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}
