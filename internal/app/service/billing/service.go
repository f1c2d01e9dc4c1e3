package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/platform/braintree"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/config"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/logctx"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/tool"
	types "github.com/WellsMediaGroupInc/cashier-braintree/pkg/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Service drives subscription lifecycle against the gateway and keeps
// the local mirror in sync. Mirror rows are written only after the
// gateway confirmed the operation; the gateway stays authoritative.
type Service struct {
	cfg   *config.Config
	store Store
	gw    braintree.Gateway
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewService(cfg *config.Config, store Store, gw braintree.Gateway, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, store: store, gw: gw, log: log, now: time.Now}
}

// Subscription returns the newest mirror row for (customer, name).
func (s *Service) Subscription(ctx context.Context, customerID, name string) (*models.Subscription, error) {
	return s.store.LatestSubscription(ctx, customerID, name)
}

// Subscribed reports whether the customer holds an active subscription
// under name; a non-empty planID additionally requires that exact plan.
func (s *Service) Subscribed(ctx context.Context, customerID, name, planID string) (bool, error) {
	sub, err := s.store.LatestSubscription(ctx, customerID, name)
	if err != nil {
		if errors.Is(err, ErrSubscriptionNotFound) {
			return false, nil
		}
		return false, err
	}
	if !sub.Active(s.now()) {
		return false, nil
	}
	if planID != "" && sub.BraintreePlan != planID {
		return false, nil
	}
	return true, nil
}

// Cancel requests cancellation at period end. Subscriptions still in
// trial are cancelled outright: the gateway cannot grace-hold a trial,
// and such a cancellation can never be resumed.
func (s *Service) Cancel(ctx context.Context, customerID, name string) (*models.Subscription, error) {
	sub, err := s.store.LatestSubscription(ctx, customerID, name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	before := snapshot(sub)

	if sub.OnTrial(now) {
		if _, err := s.gw.CancelSubscription(ctx, sub.BraintreeID, true); err != nil {
			return nil, fmt.Errorf("gateway cancel failed: %w", err)
		}
		sub.EndsAt = &now
	} else {
		res, err := s.gw.CancelSubscription(ctx, sub.BraintreeID, false)
		if err != nil {
			return nil, fmt.Errorf("gateway cancel failed: %w", err)
		}
		endsAt := res.EndsAt
		if endsAt.IsZero() {
			endsAt = now
		}
		sub.EndsAt = &endsAt
	}

	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}
	s.logChange(ctx, before, snapshot(sub), types.SubscriptionChangeReasonCancel)
	return sub, nil
}

// Resume clears a pending cancellation. The precondition is checked
// locally before any gateway round-trip.
func (s *Service) Resume(ctx context.Context, customerID, name string) (*models.Subscription, error) {
	sub, err := s.store.LatestSubscription(ctx, customerID, name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !sub.Cancelled() || !sub.OnGracePeriod(now) {
		return nil, ErrCannotResumeSubscription
	}

	before := snapshot(sub)
	res, err := s.gw.ResumeSubscription(ctx, sub.BraintreeID)
	if err != nil {
		return nil, fmt.Errorf("gateway resume failed: %w", err)
	}

	sub.EndsAt = nil
	if res.TrialEndsAt != nil {
		sub.TrialEndsAt = res.TrialEndsAt
	}

	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to save subscription: %w", err)
	}
	s.logChange(ctx, before, snapshot(sub), types.SubscriptionChangeReasonResume)
	return sub, nil
}

// Swap moves the subscription to newPlanID. The gateway prorates
// internally; resulting credit lines show up in invoice fetches, never
// here. The single branching condition is whether the gateway returned
// a new subscription id: same id updates the row in place, a new id
// ends the old row and appends a fresh one, preserving plan-change
// history as successive rows.
func (s *Service) Swap(ctx context.Context, customerID, name, newPlanID string) (*models.Subscription, error) {
	sub, err := s.store.LatestSubscription(ctx, customerID, name)
	if err != nil {
		return nil, err
	}

	res, err := s.gw.SwapPlan(ctx, sub.BraintreeID, newPlanID)
	if err != nil {
		return nil, fmt.Errorf("gateway swap failed: %w", err)
	}

	// An empty id in the result means the gateway mutated the
	// subscription in place and did not echo the id back.
	if res.SubscriptionID == "" || res.SubscriptionID == sub.BraintreeID {
		before := snapshot(sub)
		sub.BraintreePlan = newPlanID
		if err := s.store.SaveSubscription(ctx, sub); err != nil {
			return nil, fmt.Errorf("failed to save subscription: %w", err)
		}
		s.logChange(ctx, before, snapshot(sub), types.SubscriptionChangeReasonSwap)
		return sub, nil
	}

	now := s.now()
	before := snapshot(sub)
	sub.EndsAt = &now
	if err := s.store.SaveSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to end swapped subscription: %w", err)
	}
	s.logChange(ctx, before, snapshot(sub), types.SubscriptionChangeReasonSwap)

	next := &models.Subscription{
		ID:            tool.GenerateUUIDV7(),
		CustomerID:    sub.CustomerID,
		Name:          sub.Name,
		BraintreeID:   res.SubscriptionID,
		BraintreePlan: newPlanID,
		Quantity:      sub.Quantity,
	}
	if err := s.store.CreateSubscription(ctx, next); err != nil {
		return nil, fmt.Errorf("failed to create swapped subscription: %w", err)
	}
	s.logChange(ctx, nil, snapshot(next), types.SubscriptionChangeReasonSwap)
	return next, nil
}

// ApplyCoupon asks the gateway to attach a discount to the existing
// subscription. No mirror state changes: the discount becomes visible
// through subsequent invoice or subscription fetches, and reapplying
// the same code is the gateway's dedup problem.
func (s *Service) ApplyCoupon(ctx context.Context, customerID, code, name string) error {
	sub, err := s.store.LatestSubscription(ctx, customerID, name)
	if err != nil {
		return err
	}
	if err := s.gw.ApplyDiscount(ctx, sub.BraintreeID, code); err != nil {
		return fmt.Errorf("gateway apply discount failed: %w", err)
	}
	return nil
}

// AsBraintreeSubscription fetches the gateway's own record of the
// mirrored subscription.
func (s *Service) AsBraintreeSubscription(ctx context.Context, customerID, name string) (*braintree.SubscriptionView, error) {
	sub, err := s.store.LatestSubscription(ctx, customerID, name)
	if err != nil {
		return nil, err
	}
	return s.gw.FindSubscription(ctx, sub.BraintreeID)
}

// Invoices lists the customer's gateway invoices, pending included.
func (s *Service) Invoices(ctx context.Context, customerID string) ([]*braintree.Invoice, error) {
	customer, err := s.store.Customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.HasBraintreeID() {
		return nil, nil
	}
	return s.gw.ListInvoices(ctx, *customer.BraintreeID)
}

// FindInvoice fetches one invoice and verifies it belongs to the
// customer; foreign invoices read as not found.
func (s *Service) FindInvoice(ctx context.Context, customerID, invoiceID string) (*braintree.Invoice, error) {
	customer, err := s.store.Customer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	inv, err := s.gw.FindInvoice(ctx, invoiceID)
	if err != nil {
		var apiErr *braintree.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if !customer.HasBraintreeID() || inv.CustomerID != *customer.BraintreeID {
		return nil, ErrInvoiceNotFound
	}
	return inv, nil
}

// logChange writes the change log asynchronously; errors are logged
// but never surfaced to the caller.
func (s *Service) logChange(ctx context.Context, before, after *models.Subscription, reason types.SubscriptionChangeReason) {
	go func() {
		customerID := ""
		if after != nil {
			customerID = after.CustomerID
		} else if before != nil {
			customerID = before.CustomerID
		}
		entry := &models.SubscriptionLog{
			ID:         tool.GenerateUUIDV7(),
			CustomerID: customerID,
			Reason:     reason,
			Before:     datatypes.NewJSONType(before),
			After:      datatypes.NewJSONType(after),
			Extra:      datatypes.JSONMap{},
		}
		if err := s.store.SaveSubscriptionLog(context.WithoutCancel(ctx), entry); err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}()
}

func snapshot(sub *models.Subscription) *models.Subscription {
	if sub == nil {
		return nil
	}
	cp := *sub
	return &cp
}
