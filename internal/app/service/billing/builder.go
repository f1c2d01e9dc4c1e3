package billing

import (
	"context"
	"errors"
	"fmt"

	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/platform/braintree"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/logctx"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/tool"
	types "github.com/WellsMediaGroupInc/cashier-braintree/pkg/types"

	"github.com/samber/lo"
	"gorm.io/datatypes"
)

// Builder assembles one subscription-creation request. It is ephemeral
// and consumed exactly once by Create; nothing is persisted until the
// gateway accepts the request.
type Builder struct {
	svc        *Service
	customerID string
	name       string
	planID     string
	couponCode string
	trialDays  *int
	quantity   int
	consumed   bool
}

// NewSubscription starts building a subscription for (customer, name)
// on the given gateway plan.
func (s *Service) NewSubscription(customerID, name, planID string) *Builder {
	return &Builder{svc: s, customerID: customerID, name: name, planID: planID, quantity: 1}
}

// WithCoupon applies a coupon code during creation.
func (b *Builder) WithCoupon(code string) *Builder {
	b.couponCode = code
	return b
}

// TrialDays overrides the plan's default trial length.
func (b *Builder) TrialDays(days int) *Builder {
	b.trialDays = &days
	return b
}

// SkipTrial starts billing immediately even when the plan carries a
// default trial.
func (b *Builder) SkipTrial() *Builder {
	return b.TrialDays(0)
}

// Quantity sets the subscribed quantity (default 1).
func (b *Builder) Quantity(quantity int) *Builder {
	if quantity >= 1 {
		b.quantity = quantity
	}
	return b
}

// Create submits the request to the gateway using the payment token
// from the client-side tokenization flow, then mirrors the accepted
// subscription locally. A gateway customer is provisioned first when
// the owner has none yet.
func (b *Builder) Create(ctx context.Context, paymentToken string) (*models.Subscription, error) {
	if b.consumed {
		return nil, ErrBuilderConsumed
	}
	b.consumed = true

	s := b.svc
	customer, err := s.store.Customer(ctx, b.customerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if current, err := s.store.LatestSubscription(ctx, b.customerID, b.name); err == nil {
		if current.Active(now) {
			return nil, ErrSubscriptionExists
		}
	} else if !errors.Is(err, ErrSubscriptionNotFound) {
		return nil, err
	}

	if !customer.HasBraintreeID() {
		gatewayID, err := s.gw.CreateCustomer(ctx, &braintree.CustomerParams{Email: customer.Email, Name: customer.Name})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSubscriptionCreationFailed, err)
		}
		customer.BraintreeID = &gatewayID
		if err := s.store.SaveCustomer(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to save customer: %w", err)
		}
	}

	trialDays := b.resolveTrialDays()
	res, err := s.gw.CreateSubscription(ctx, &braintree.CreateSubscriptionParams{
		CustomerID:   *customer.BraintreeID,
		PlanID:       b.planID,
		Quantity:     b.quantity,
		CouponCode:   b.couponCode,
		TrialDays:    trialDays,
		PaymentToken: paymentToken,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubscriptionCreationFailed, err)
	}

	if res.CardBrand != "" {
		customer.CardBrand = lo.ToPtr(res.CardBrand)
		customer.CardLastFour = lo.ToPtr(res.CardLastFour)
		if err := s.store.SaveCustomer(ctx, customer); err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save customer card info: %v", err)
		}
	}

	sub := &models.Subscription{
		ID:            tool.GenerateUUIDV7(),
		CustomerID:    b.customerID,
		Name:          b.name,
		BraintreeID:   res.SubscriptionID,
		BraintreePlan: b.planID,
		Quantity:      b.quantity,
	}
	switch {
	case res.TrialEndsAt != nil:
		sub.TrialEndsAt = res.TrialEndsAt
	case trialDays > 0:
		sub.TrialEndsAt = lo.ToPtr(now.AddDate(0, 0, trialDays))
	}

	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	go func() {
		entry := &models.SubscriptionLog{
			ID:         tool.GenerateUUIDV7(),
			CustomerID: sub.CustomerID,
			Reason:     types.SubscriptionChangeReasonCreate,
			After:      datatypes.NewJSONType(snapshot(sub)),
			Extra:      datatypes.JSONMap{"plan_id": b.planID, "coupon": b.couponCode},
		}
		if err := s.store.SaveSubscriptionLog(context.WithoutCancel(ctx), entry); err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}()

	return sub, nil
}

// resolveTrialDays prefers the explicit override, then the configured
// plan default; unknown plans get no trial.
func (b *Builder) resolveTrialDays() int {
	if b.trialDays != nil {
		return *b.trialDays
	}
	if plan := b.svc.cfg.GetPlanByID(b.planID); plan != nil {
		return plan.TrialDays
	}
	return 0
}
