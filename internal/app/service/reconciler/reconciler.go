package reconciler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/billing"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/webhooklog"
	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/logctx"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/tool"
	types "github.com/WellsMediaGroupInc/cashier-braintree/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// ErrMalformedPayload is the only reconciler failure the webhook
// endpoint answers with 400; everything else is a 200 so the gateway
// does not build a retry storm.
var ErrMalformedPayload = errors.New("malformed webhook payload")

// KindSubscriptionCanceled is the one notification kind acted on.
// Unknown kinds must be accepted silently: the gateway adds kinds over
// time and rejecting them only causes redelivery.
const KindSubscriptionCanceled = "SubscriptionCanceled"

// AuditLog records inbound notifications. Satisfied by
// webhooklog.Service.
type AuditLog interface {
	Save(ctx context.Context, log *models.WebhookLog)
}

// Notification is the minimal shape every gateway webhook carries.
type Notification struct {
	Kind         string `json:"kind"`
	Subscription struct {
		ID string `json:"id"`
	} `json:"subscription"`
}

// Reconciler applies gateway-side subscription events to the local
// mirror. The gateway is authoritative: its cancellations override any
// local grace period, last writer wins.
type Reconciler struct {
	store billing.Store
	audit AuditLog
	log   *zap.SugaredLogger
	now   func() time.Time
}

func New(store billing.Store, audit AuditLog, log *zap.SugaredLogger) *Reconciler {
	return &Reconciler{store: store, audit: audit, log: log, now: time.Now}
}

// Handle parses one inbound notification and applies it. A nil return
// means the endpoint should answer success, including the
// no-matching-subscription and unknown-kind cases.
func (r *Reconciler) Handle(ctx context.Context, payload []byte) (resErr error) {
	var notification Notification
	if err := json.Unmarshal(payload, &notification); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if notification.Kind == "" {
		return fmt.Errorf("%w: missing kind", ErrMalformedPayload)
	}

	var braintreeID *string
	if notification.Subscription.ID != "" {
		braintreeID = lo.ToPtr(notification.Subscription.ID)
	}
	var traceID string
	if v, ok := ctx.Value("traceID").(string); ok {
		traceID = v
	}

	// Save 'received' log
	r.audit.Save(ctx, &models.WebhookLog{
		Kind:        notification.Kind,
		BraintreeID: braintreeID,
		TraceID:     traceID,
		Payload:     datatypes.JSON(payload),
		Status:      models.WebhookLogStatusReceived,
	})

	// Second audit row records the outcome once handling finished.
	defer func() {
		resMap := map[string]any{"kind": notification.Kind}
		if braintreeID != nil {
			resMap["braintree_id"] = *braintreeID
		}
		if resErr != nil {
			resMap["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(resMap)
		status := models.WebhookLogStatusHandled
		if resErr != nil {
			status = models.WebhookLogStatusHandleFailed
		}
		r.audit.Save(ctx, &models.WebhookLog{
			Kind:        notification.Kind,
			BraintreeID: braintreeID,
			TraceID:     traceID,
			Payload:     datatypes.JSON(payload),
			Result:      func() *datatypes.JSON { j := datatypes.JSON(resBytes); return &j }(),
			Status:      status,
		})
	}()

	switch notification.Kind {
	case KindSubscriptionCanceled:
		if notification.Subscription.ID == "" {
			return fmt.Errorf("%w: missing subscription id", ErrMalformedPayload)
		}
		return r.applyCancellation(ctx, notification.Subscription.ID)
	default:
		logctx.FromCtx(ctx, r.log).Infow("webhook_kind_ignored", "kind", notification.Kind)
		return nil
	}
}

// applyCancellation marks the mirrored subscription as ended now. The
// gateway may reference subscriptions this application never created;
// those are a successful no-op, not an error.
func (r *Reconciler) applyCancellation(ctx context.Context, braintreeID string) error {
	sub, err := r.store.SubscriptionByBraintreeID(ctx, braintreeID)
	if err != nil {
		if errors.Is(err, billing.ErrSubscriptionNotFound) {
			logctx.FromCtx(ctx, r.log).Infow("webhook_subscription_unknown", "braintree_id", braintreeID)
			return nil
		}
		return err
	}

	now := r.now()
	if sub.EndsAt != nil && !sub.EndsAt.After(now) {
		// Already ended; nothing to reconcile.
		return nil
	}

	before := *sub
	sub.EndsAt = &now
	if err := r.store.SaveSubscription(ctx, sub); err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}

	go func() {
		entry := &models.SubscriptionLog{
			ID:         tool.GenerateUUIDV7(),
			CustomerID: sub.CustomerID,
			Reason:     types.SubscriptionChangeReasonWebhookCancel,
			Before:     datatypes.NewJSONType(&before),
			After:      datatypes.NewJSONType(sub),
			Extra:      datatypes.JSONMap{"braintree_id": braintreeID},
		}
		if err := r.store.SaveSubscriptionLog(context.WithoutCancel(ctx), entry); err != nil {
			logctx.FromCtx(ctx, r.log).Errorf("failed to save subscription log: %v", err)
		}
	}()

	logctx.FromCtx(ctx, r.log).Infow("webhook_subscription_cancelled", "braintree_id", braintreeID)
	return nil
}

// Module exposes the reconciler via Fx.
var Module = fx.Options(
	fx.Provide(func(store billing.Store, audit *webhooklog.Service, log *zap.SugaredLogger) *Reconciler {
		return New(store, audit, log)
	}),
)
