package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/billing"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/reconciler"
	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/platform/braintree"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/repository"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/config"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/tool"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubGateway answers every call with a fixed happy-path result.
type stubGateway struct {
	createErr error
}

func (s *stubGateway) CreateCustomer(_ context.Context, _ *braintree.CustomerParams) (string, error) {
	return "cus_1", nil
}

func (s *stubGateway) CreateSubscription(_ context.Context, _ *braintree.CreateSubscriptionParams) (*braintree.CreateSubscriptionResult, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &braintree.CreateSubscriptionResult{SubscriptionID: "sub_1", CardBrand: "Visa", CardLastFour: "4242"}, nil
}

func (s *stubGateway) CancelSubscription(_ context.Context, _ string, _ bool) (*braintree.CancelResult, error) {
	return &braintree.CancelResult{EndsAt: time.Now().AddDate(0, 1, 0)}, nil
}

func (s *stubGateway) ResumeSubscription(_ context.Context, _ string) (*braintree.ResumeResult, error) {
	return &braintree.ResumeResult{}, nil
}

func (s *stubGateway) SwapPlan(_ context.Context, subscriptionID, newPlanID string) (*braintree.SwapResult, error) {
	return &braintree.SwapResult{SubscriptionID: subscriptionID, PlanID: newPlanID}, nil
}

func (s *stubGateway) ApplyDiscount(_ context.Context, _, _ string) error { return nil }

func (s *stubGateway) FindSubscription(_ context.Context, subscriptionID string) (*braintree.SubscriptionView, error) {
	return &braintree.SubscriptionView{ID: subscriptionID}, nil
}

func (s *stubGateway) FindInvoice(_ context.Context, _ string) (*braintree.Invoice, error) {
	return nil, &braintree.APIError{StatusCode: 404, Message: "invoice not found"}
}

func (s *stubGateway) ListInvoices(_ context.Context, _ string) ([]*braintree.Invoice, error) {
	return nil, nil
}

type noopAudit struct{}

func (noopAudit) Save(_ context.Context, _ *models.WebhookLog) {}

func newTestRouter(t *testing.T) (*gin.Engine, *repository.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryStore()
	svc := billing.NewService(&config.Config{}, store, &stubGateway{}, zap.NewNop().Sugar())
	rec := reconciler.New(store, noopAudit{}, zap.NewNop().Sugar())

	r := gin.New()
	billingGroup := r.Group("/api/v1/billing")
	RegisterBillingRoutes(billingGroup, svc)
	RegisterInvoiceRoutes(billingGroup, svc)
	RegisterWebhookRoutes(r.Group("/api/v1/webhook"), rec, zap.NewNop().Sugar())
	return r, store
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterBillingRoutes_RegistersEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("POST /api/v1/billing/subscribe"))
	require.True(t, contains("GET /api/v1/billing/subscription"))
	require.True(t, contains("GET /api/v1/billing/subscription/braintree"))
	require.True(t, contains("POST /api/v1/billing/cancel"))
	require.True(t, contains("POST /api/v1/billing/resume"))
	require.True(t, contains("POST /api/v1/billing/swap"))
	require.True(t, contains("POST /api/v1/billing/apply_coupon"))
	require.True(t, contains("GET /api/v1/billing/invoice/list"))
	require.True(t, contains("GET /api/v1/billing/invoice/get"))
	require.True(t, contains("POST /api/v1/webhook/braintree"))
}

func TestApiSubscribe(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.SaveCustomer(context.Background(), &models.Customer{ID: "user_1", Email: "u@example.com", Name: "U"}))

	w := postJSON(t, r, "/api/v1/billing/subscribe", map[string]any{
		"customer_id":   "user_1",
		"name":          "main",
		"plan_id":       "monthly-10-1",
		"payment_token": "fake-token",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":0`)
	require.Contains(t, w.Body.String(), "sub_1")

	sub, err := store.LatestSubscription(context.Background(), "user_1", "main")
	require.NoError(t, err)
	require.Equal(t, "monthly-10-1", sub.BraintreePlan)
}

func TestApiSubscribeMissingFields(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/billing/subscribe", map[string]any{"customer_id": "user_1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
}

func TestApiSubscribeUnknownCustomer(t *testing.T) {
	r, _ := newTestRouter(t)

	w := postJSON(t, r, "/api/v1/billing/subscribe", map[string]any{
		"customer_id":   "ghost",
		"name":          "main",
		"plan_id":       "monthly-10-1",
		"payment_token": "fake-token",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
}

func TestApiCancelAndResume(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.SaveCustomer(context.Background(), &models.Customer{ID: "user_1", Email: "u@example.com", Name: "U"}))

	w := postJSON(t, r, "/api/v1/billing/subscribe", map[string]any{
		"customer_id":   "user_1",
		"name":          "main",
		"plan_id":       "monthly-10-1",
		"payment_token": "fake-token",
	})
	require.Contains(t, w.Body.String(), `"code":0`)

	w = postJSON(t, r, "/api/v1/billing/cancel", map[string]any{"customer_id": "user_1", "name": "main"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":0`)

	sub, err := store.LatestSubscription(context.Background(), "user_1", "main")
	require.NoError(t, err)
	require.NotNil(t, sub.EndsAt)

	w = postJSON(t, r, "/api/v1/billing/resume", map[string]any{"customer_id": "user_1", "name": "main"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":0`)

	sub, err = store.LatestSubscription(context.Background(), "user_1", "main")
	require.NoError(t, err)
	require.Nil(t, sub.EndsAt)
}

func TestApiResumeWithoutCancellation(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.SaveCustomer(context.Background(), &models.Customer{ID: "user_1", Email: "u@example.com", Name: "U"}))
	postJSON(t, r, "/api/v1/billing/subscribe", map[string]any{
		"customer_id":   "user_1",
		"name":          "main",
		"plan_id":       "monthly-10-1",
		"payment_token": "fake-token",
	})

	w := postJSON(t, r, "/api/v1/billing/resume", map[string]any{"customer_id": "user_1", "name": "main"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":40000`)
}

func TestApiBraintreeWebhook(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.CreateSubscription(context.Background(), &models.Subscription{
		ID:            tool.GenerateUUIDV7(),
		CustomerID:    "user_1",
		Name:          "main",
		BraintreeID:   "sub_1",
		BraintreePlan: "monthly-10-1",
		Quantity:      1,
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/braintree",
		bytes.NewReader([]byte(`{"kind":"SubscriptionCanceled","subscription":{"id":"sub_1"}}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	sub, err := store.SubscriptionByBraintreeID(context.Background(), "sub_1")
	require.NoError(t, err)
	require.NotNil(t, sub.EndsAt)
}

func TestApiBraintreeWebhookMalformed(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/braintree", bytes.NewReader([]byte(`{"kind":`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiBraintreeWebhookUnknownKind(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhook/braintree",
		bytes.NewReader([]byte(`{"kind":"SubscriptionChargedSuccessfully","subscription":{"id":"sub_ghost"}}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"code":0`)
}
