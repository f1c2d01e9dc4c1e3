package braintree

import (
	"context"
	"fmt"
	"time"
)

// Gateway is the narrow surface this service needs from the payment
// gateway. The gateway performs all billing math (proration, invoicing,
// coupon dedup); callers only submit requests and mirror the answers.
type Gateway interface {
	CreateCustomer(ctx context.Context, params *CustomerParams) (string, error)
	CreateSubscription(ctx context.Context, params *CreateSubscriptionParams) (*CreateSubscriptionResult, error)
	CancelSubscription(ctx context.Context, subscriptionID string, immediate bool) (*CancelResult, error)
	ResumeSubscription(ctx context.Context, subscriptionID string) (*ResumeResult, error)
	SwapPlan(ctx context.Context, subscriptionID, newPlanID string) (*SwapResult, error)
	ApplyDiscount(ctx context.Context, subscriptionID, code string) error
	FindSubscription(ctx context.Context, subscriptionID string) (*SubscriptionView, error)
	FindInvoice(ctx context.Context, invoiceID string) (*Invoice, error)
	ListInvoices(ctx context.Context, customerID string) ([]*Invoice, error)
}

type CustomerParams struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CreateSubscriptionParams struct {
	CustomerID string `json:"customer_id"`
	PlanID     string `json:"plan_id"`
	Quantity   int    `json:"quantity"`
	// CouponCode is applied gateway-side; empty means none.
	CouponCode string `json:"coupon_code,omitempty"`
	// TrialDays 0 disables the trial.
	TrialDays int `json:"trial_days,omitempty"`
	// PaymentToken is the opaque nonce from the gateway's client-side
	// tokenization flow.
	PaymentToken string `json:"payment_token"`
}

type CreateSubscriptionResult struct {
	SubscriptionID string `json:"subscription_id"`
	// TrialEndsAt is set when the gateway computed the trial window
	// itself; callers fall back to now+TrialDays otherwise.
	TrialEndsAt  *time.Time `json:"trial_ends_at"`
	CardBrand    string     `json:"card_brand"`
	CardLastFour string     `json:"card_last_four"`
}

type CancelResult struct {
	// EndsAt is the gateway-confirmed end of the current billing
	// period, or the cancellation instant for immediate cancels.
	EndsAt time.Time `json:"ends_at"`
}

type ResumeResult struct {
	// TrialEndsAt is set when the gateway restored remaining trial time.
	TrialEndsAt *time.Time `json:"trial_ends_at"`
}

type SwapResult struct {
	// SubscriptionID may differ from the swapped subscription's id:
	// incompatible billing intervals make the gateway issue a fresh
	// subscription instead of mutating the old one.
	SubscriptionID string     `json:"subscription_id"`
	PlanID         string     `json:"plan_id"`
	Discounts      []Discount `json:"discounts"`
}

// SubscriptionView is the gateway's own record of a subscription.
type SubscriptionView struct {
	ID          string     `json:"id"`
	PlanID      string     `json:"plan_id"`
	Status      string     `json:"status"`
	Discounts   []Discount `json:"discounts"`
	PeriodEndAt *time.Time `json:"period_end_at"`
}

// Discount is a gateway-computed credit line (coupon or proration).
type Discount struct {
	ID string `json:"id"`
	// AmountCents 折扣金额，单位：美分
	AmountCents int64 `json:"amount_cents"`
}

type InvoiceLine struct {
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
}

// Invoice is a read-only projection of a gateway invoice. It is
// recomputed from gateway state on every fetch and never persisted.
type Invoice struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id"`
	Lines      []InvoiceLine `json:"lines"`
	Discounts  []Discount    `json:"discounts"`
	TotalCents int64         `json:"total_cents"`
	Date       time.Time     `json:"date"`
}

func (i *Invoice) HasDiscount() bool {
	return i != nil && len(i.Discounts) > 0
}

// AmountOffCents is the sum of all discount lines.
func (i *Invoice) AmountOffCents() int64 {
	if i == nil {
		return 0
	}
	var total int64
	for _, d := range i.Discounts {
		total += d.AmountCents
	}
	return total
}

// Coupons returns the ids of the applied discounts.
func (i *Invoice) Coupons() []string {
	if i == nil {
		return nil
	}
	ids := make([]string, 0, len(i.Discounts))
	for _, d := range i.Discounts {
		ids = append(ids, d.ID)
	}
	return ids
}

// APIError is a gateway rejection (card decline, invalid token,
// invalid coupon, unknown id). The gateway's own reason code and
// message are carried unmodified.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("braintree: %s (code=%s, status=%d)", e.Message, e.Code, e.StatusCode)
}

// NotFound reports whether the gateway knows nothing about the
// referenced entity.
func (e *APIError) NotFound() bool {
	return e.StatusCode == 404
}
