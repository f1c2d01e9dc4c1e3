package models

import "time"

// Subscription mirrors one gateway subscription's lifecycle. The
// gateway owns billing truth; these rows only record what it told us.
//
// A customer may hold several rows per Name over time: swapping
// between plans with incompatible billing intervals makes the gateway
// issue a fresh subscription id, which appends a new row here while
// the superseded one is marked ended. At most one row per
// (customer_id, name) is ever non-ended.
type Subscription struct {
	ID         string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CustomerID string `gorm:"column:customer_id;type:varchar(64);not null;index:idx_customer_name,priority:1" json:"customer_id"`
	// Name is the application-side label ("main", "metered", ...),
	// unrelated to the gateway plan id.
	Name          string `gorm:"column:name;type:varchar(64);not null;index:idx_customer_name,priority:2" json:"name"`
	BraintreeID   string `gorm:"column:braintree_id;type:varchar(64);not null;uniqueIndex" json:"braintree_id"`
	BraintreePlan string `gorm:"column:braintree_plan;type:varchar(64);not null" json:"braintree_plan"`
	Quantity      int    `gorm:"column:quantity;not null;default:1" json:"quantity"`
	// TrialEndsAt is nil when the subscription never had a trial.
	TrialEndsAt *time.Time `gorm:"column:trial_ends_at;default:null" json:"trial_ends_at"`
	// EndsAt is set on cancellation and cleared again on resume.
	EndsAt    *time.Time `gorm:"column:ends_at;default:null" json:"ends_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// Active reports whether the subscription still grants access at now.
// A cancelled subscription stays active through its grace period; the
// boundary itself counts as ended (strict before).
func (s *Subscription) Active(now time.Time) bool {
	if s == nil {
		return false
	}
	return s.EndsAt == nil || now.Before(*s.EndsAt)
}

// OnTrial reports whether now falls inside the trial window.
func (s *Subscription) OnTrial(now time.Time) bool {
	if s == nil || s.TrialEndsAt == nil {
		return false
	}
	return now.Before(*s.TrialEndsAt)
}

// Cancelled reports whether cancellation was requested, regardless of
// whether the grace period has elapsed yet.
func (s *Subscription) Cancelled() bool {
	return s != nil && s.EndsAt != nil
}

// OnGracePeriod reports whether the subscription is cancelled but has
// not yet reached its end date.
func (s *Subscription) OnGracePeriod(now time.Time) bool {
	return s.Cancelled() && now.Before(*s.EndsAt)
}
