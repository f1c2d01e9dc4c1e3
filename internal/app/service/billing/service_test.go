package billing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/platform/braintree"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/config"
	types "github.com/WellsMediaGroupInc/cashier-braintree/pkg/types"

	"go.uber.org/zap"
)

// fakeStore is an in-memory Store test fixture; rows are copied both
// ways so assertions see persisted state, not shared pointers.
type fakeStore struct {
	mu        sync.Mutex
	customers map[string]*models.Customer
	subs      []*models.Subscription
	logs      []*models.SubscriptionLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{customers: make(map[string]*models.Customer)}
}

func (f *fakeStore) Customer(_ context.Context, id string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	customer, ok := f.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	cp := *customer
	return &cp, nil
}

func (f *fakeStore) SaveCustomer(_ context.Context, customer *models.Customer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *customer
	f.customers[cp.ID] = &cp
	return nil
}

func (f *fakeStore) CreateSubscription(_ context.Context, sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *sub
	f.subs = append(f.subs, &cp)
	return nil
}

func (f *fakeStore) SaveSubscription(_ context.Context, sub *models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.subs {
		if existing.ID == sub.ID {
			cp := *sub
			f.subs[i] = &cp
			return nil
		}
	}
	cp := *sub
	f.subs = append(f.subs, &cp)
	return nil
}

func (f *fakeStore) LatestSubscription(_ context.Context, customerID, name string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.subs) - 1; i >= 0; i-- {
		if f.subs[i].CustomerID == customerID && f.subs[i].Name == name {
			cp := *f.subs[i]
			return &cp, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (f *fakeStore) SubscriptionByBraintreeID(_ context.Context, braintreeID string) (*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sub := range f.subs {
		if sub.BraintreeID == braintreeID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, ErrSubscriptionNotFound
}

func (f *fakeStore) Subscriptions(_ context.Context, customerID string) ([]*models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Subscription
	for _, sub := range f.subs {
		if sub.CustomerID == customerID {
			cp := *sub
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) SaveSubscriptionLog(_ context.Context, log *models.SubscriptionLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *log
	f.logs = append(f.logs, &cp)
	return nil
}

// fakeGateway scripts gateway answers and records what was asked.
type fakeGateway struct {
	mu sync.Mutex

	createCustomerResult string
	createCustomerCalls  int

	createResult *braintree.CreateSubscriptionResult
	createErr    error
	createParams *braintree.CreateSubscriptionParams

	cancelResult    *braintree.CancelResult
	cancelCalls     int
	cancelImmediate bool

	resumeResult *braintree.ResumeResult
	resumeCalls  int

	swapResults []*braintree.SwapResult
	swapCalls   int

	discounts map[string][]braintree.Discount

	invoices map[string]*braintree.Invoice
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		createCustomerResult: "cus_1",
		discounts:            make(map[string][]braintree.Discount),
		invoices:             make(map[string]*braintree.Invoice),
	}
}

func (g *fakeGateway) CreateCustomer(_ context.Context, _ *braintree.CustomerParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCustomerCalls++
	return g.createCustomerResult, nil
}

func (g *fakeGateway) CreateSubscription(_ context.Context, params *braintree.CreateSubscriptionParams) (*braintree.CreateSubscriptionResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createParams = params
	if g.createErr != nil {
		return nil, g.createErr
	}
	if g.createResult != nil {
		return g.createResult, nil
	}
	return &braintree.CreateSubscriptionResult{SubscriptionID: "sub_1", CardBrand: "Visa", CardLastFour: "4242"}, nil
}

func (g *fakeGateway) CancelSubscription(_ context.Context, _ string, immediate bool) (*braintree.CancelResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelCalls++
	g.cancelImmediate = immediate
	if g.cancelResult != nil {
		return g.cancelResult, nil
	}
	return &braintree.CancelResult{}, nil
}

func (g *fakeGateway) ResumeSubscription(_ context.Context, _ string) (*braintree.ResumeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resumeCalls++
	if g.resumeResult != nil {
		return g.resumeResult, nil
	}
	return &braintree.ResumeResult{}, nil
}

func (g *fakeGateway) SwapPlan(_ context.Context, subscriptionID, newPlanID string) (*braintree.SwapResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.swapCalls < len(g.swapResults) {
		res := g.swapResults[g.swapCalls]
		g.swapCalls++
		return res, nil
	}
	g.swapCalls++
	return &braintree.SwapResult{SubscriptionID: subscriptionID, PlanID: newPlanID}, nil
}

func (g *fakeGateway) ApplyDiscount(_ context.Context, subscriptionID, code string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.discounts[subscriptionID] = append(g.discounts[subscriptionID], braintree.Discount{ID: code, AmountCents: 1000})
	return nil
}

func (g *fakeGateway) FindSubscription(_ context.Context, subscriptionID string) (*braintree.SubscriptionView, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return &braintree.SubscriptionView{ID: subscriptionID, Discounts: g.discounts[subscriptionID]}, nil
}

func (g *fakeGateway) FindInvoice(_ context.Context, invoiceID string) (*braintree.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	inv, ok := g.invoices[invoiceID]
	if !ok {
		return nil, &braintree.APIError{StatusCode: 404, Message: "invoice not found"}
	}
	cp := *inv
	return &cp, nil
}

func (g *fakeGateway) ListInvoices(_ context.Context, customerID string) ([]*braintree.Invoice, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*braintree.Invoice
	for _, inv := range g.invoices {
		if inv.CustomerID == customerID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fixture struct {
	svc   *Service
	store *fakeStore
	gw    *fakeGateway
	now   time.Time
}

func newFixture(plans ...*types.Plan) *fixture {
	store := newFakeStore()
	gw := newFakeGateway()
	cfg := &config.Config{Plans: plans}
	svc := NewService(cfg, store, gw, zap.NewNop().Sugar())

	f := &fixture{svc: svc, store: store, gw: gw, now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc.now = func() time.Time { return f.now }
	return f
}

// advance moves the injected clock forward.
func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *fixture) seedCustomer(id string) {
	f.store.customers[id] = &models.Customer{ID: id, Email: "taylor@example.com", Name: "Taylor"}
}

// subscribe runs the builder happy path and returns the mirror row.
func (f *fixture) subscribe(t *testing.T, customerID, name, planID string) *models.Subscription {
	t.Helper()
	sub, err := f.svc.NewSubscription(customerID, name, planID).Create(context.Background(), "fake-token")
	require.NoError(t, err)
	return sub
}

func TestCancelEntersGracePeriod(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	f.subscribe(t, "user_1", "main", "monthly-10-1")

	periodEnd := f.now.AddDate(0, 1, 0)
	f.gw.cancelResult = &braintree.CancelResult{EndsAt: periodEnd}

	sub, err := f.svc.Cancel(context.Background(), "user_1", "main")
	require.NoError(t, err)

	require.NotNil(t, sub.EndsAt)
	assert.Equal(t, periodEnd, *sub.EndsAt)
	assert.False(t, f.gw.cancelImmediate)

	// Cancelled but paid through: still active, on grace period.
	assert.True(t, sub.Cancelled())
	assert.True(t, sub.Active(f.now))
	assert.True(t, sub.OnGracePeriod(f.now))

	subscribed, err := f.svc.Subscribed(context.Background(), "user_1", "main", "")
	require.NoError(t, err)
	assert.True(t, subscribed)

	// Once the paid period lapses the subscription reads as ended.
	f.advance(32 * 24 * time.Hour)
	assert.False(t, sub.Active(f.now))
	assert.False(t, sub.OnGracePeriod(f.now))

	subscribed, err = f.svc.Subscribed(context.Background(), "user_1", "main", "")
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestCancelDuringTrialIsImmediate(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	sub, err := f.svc.NewSubscription("user_1", "main", "monthly-10-1").
		TrialDays(7).
		Create(context.Background(), "fake-token")
	require.NoError(t, err)
	require.True(t, sub.OnTrial(f.now))

	cancelled, err := f.svc.Cancel(context.Background(), "user_1", "main")
	require.NoError(t, err)

	assert.True(t, f.gw.cancelImmediate)
	require.NotNil(t, cancelled.EndsAt)
	assert.Equal(t, f.now, *cancelled.EndsAt)

	// No grace period: the unused trial window grants nothing.
	assert.False(t, cancelled.Active(f.now))
	assert.False(t, cancelled.OnGracePeriod(f.now))
	assert.True(t, cancelled.Cancelled())
}

func TestCancelUnknownSubscription(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")

	_, err := f.svc.Cancel(context.Background(), "user_1", "main")
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	assert.Equal(t, 0, f.gw.cancelCalls)
}

func TestResumeDuringGracePeriod(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	f.subscribe(t, "user_1", "main", "monthly-10-1")

	f.gw.cancelResult = &braintree.CancelResult{EndsAt: f.now.AddDate(0, 1, 0)}
	_, err := f.svc.Cancel(context.Background(), "user_1", "main")
	require.NoError(t, err)

	f.advance(10 * 24 * time.Hour)
	sub, err := f.svc.Resume(context.Background(), "user_1", "main")
	require.NoError(t, err)

	assert.Nil(t, sub.EndsAt)
	assert.False(t, sub.Cancelled())
	assert.True(t, sub.Active(f.now))
	assert.Equal(t, 1, f.gw.resumeCalls)
}

func TestResumeRejectedWhenNotCancelled(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	f.subscribe(t, "user_1", "main", "monthly-10-1")

	_, err := f.svc.Resume(context.Background(), "user_1", "main")
	assert.ErrorIs(t, err, ErrCannotResumeSubscription)
	assert.Equal(t, 0, f.gw.resumeCalls)
}

func TestResumeRejectedAfterGracePeriodLapsed(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	f.subscribe(t, "user_1", "main", "monthly-10-1")

	f.gw.cancelResult = &braintree.CancelResult{EndsAt: f.now.AddDate(0, 1, 0)}
	_, err := f.svc.Cancel(context.Background(), "user_1", "main")
	require.NoError(t, err)

	f.advance(40 * 24 * time.Hour)
	_, err = f.svc.Resume(context.Background(), "user_1", "main")
	assert.ErrorIs(t, err, ErrCannotResumeSubscription)
	assert.Equal(t, 0, f.gw.resumeCalls)
}

func TestSwapSameIDUpdatesInPlace(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	sub := f.subscribe(t, "user_1", "main", "monthly-10-1")

	swapped, err := f.svc.Swap(context.Background(), "user_1", "main", "monthly-20-1")
	require.NoError(t, err)

	assert.Equal(t, sub.ID, swapped.ID)
	assert.Equal(t, sub.BraintreeID, swapped.BraintreeID)
	assert.Equal(t, "monthly-20-1", swapped.BraintreePlan)
	assert.Len(t, f.store.subs, 1)
}

func TestSwapNewIDAppendsRow(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	old := f.subscribe(t, "user_1", "main", "monthly-10-1")

	f.gw.swapResults = []*braintree.SwapResult{{SubscriptionID: "sub_fresh", PlanID: "yearly-100-1"}}
	swapped, err := f.svc.Swap(context.Background(), "user_1", "main", "yearly-100-1")
	require.NoError(t, err)

	assert.NotEqual(t, old.ID, swapped.ID)
	assert.Equal(t, "sub_fresh", swapped.BraintreeID)
	assert.Equal(t, "yearly-100-1", swapped.BraintreePlan)
	assert.Equal(t, old.Quantity, swapped.Quantity)
	assert.True(t, swapped.Active(f.now))

	// Plan history stays readable as successive rows: the old row is
	// ended, the new one is the only current subscription.
	require.Len(t, f.store.subs, 2)
	prev := f.store.subs[0]
	require.NotNil(t, prev.EndsAt)
	assert.Equal(t, f.now, *prev.EndsAt)
	assert.False(t, prev.Active(f.now))

	latest, err := f.svc.Subscription(context.Background(), "user_1", "main")
	require.NoError(t, err)
	assert.Equal(t, swapped.ID, latest.ID)

	subscribed, err := f.svc.Subscribed(context.Background(), "user_1", "main", "yearly-100-1")
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestSwapBackAppendsThirdRow(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	f.subscribe(t, "user_1", "main", "monthly-10-1")

	// Monthly to yearly and back: each interval change makes the
	// gateway issue a fresh subscription id, leaving one history row
	// per hop.
	f.gw.swapResults = []*braintree.SwapResult{
		{SubscriptionID: "sub_yearly", PlanID: "yearly-100-1"},
		{SubscriptionID: "sub_monthly_2", PlanID: "monthly-10-1"},
	}

	_, err := f.svc.Swap(context.Background(), "user_1", "main", "yearly-100-1")
	require.NoError(t, err)
	f.advance(time.Hour)
	third, err := f.svc.Swap(context.Background(), "user_1", "main", "monthly-10-1")
	require.NoError(t, err)

	require.Len(t, f.store.subs, 3)
	assert.Equal(t, "sub_monthly_2", third.BraintreeID)
	assert.Equal(t, "monthly-10-1", third.BraintreePlan)

	// Only the last row is current; the two superseded ones are ended.
	for _, sub := range f.store.subs[:2] {
		require.NotNil(t, sub.EndsAt)
		assert.False(t, sub.Active(f.now))
	}
	assert.True(t, third.Active(f.now))

	latest, err := f.svc.Subscription(context.Background(), "user_1", "main")
	require.NoError(t, err)
	assert.Equal(t, third.ID, latest.ID)
}

func TestSwapUnknownSubscription(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")

	_, err := f.svc.Swap(context.Background(), "user_1", "main", "monthly-20-1")
	assert.ErrorIs(t, err, ErrSubscriptionNotFound)
	assert.Equal(t, 0, f.gw.swapCalls)
}

func TestApplyCoupon(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	sub := f.subscribe(t, "user_1", "main", "IJPY0001")

	err := f.svc.ApplyCoupon(context.Background(), "user_1", "5tb2", "main")
	require.NoError(t, err)

	// The discount lives gateway-side only; the mirror row is untouched
	// and the gateway view carries the coupon.
	assert.Equal(t, "IJPY0001", f.store.subs[0].BraintreePlan)
	assert.Nil(t, f.store.subs[0].EndsAt)

	view, err := f.svc.AsBraintreeSubscription(context.Background(), "user_1", "main")
	require.NoError(t, err)
	assert.Equal(t, sub.BraintreeID, view.ID)
	require.Len(t, view.Discounts, 1)
	assert.Equal(t, "5tb2", view.Discounts[0].ID)
}

func TestInvoices(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	f.subscribe(t, "user_1", "main", "IJPY0001")

	// $79.00 plan with a $10.00 coupon applied.
	f.gw.invoices["inv_1"] = &braintree.Invoice{
		ID:         "inv_1",
		CustomerID: "cus_1",
		Lines:      []braintree.InvoiceLine{{Description: "IJPY0001", AmountCents: 7900}},
		Discounts:  []braintree.Discount{{ID: "5tb2", AmountCents: 1000}},
		TotalCents: 6900,
		Date:       f.now,
	}

	invoices, err := f.svc.Invoices(context.Background(), "user_1")
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	inv := invoices[0]
	assert.True(t, inv.HasDiscount())
	assert.Equal(t, int64(1000), inv.AmountOffCents())
	assert.Equal(t, []string{"5tb2"}, inv.Coupons())
	assert.Equal(t, int64(6900), inv.TotalCents)
}

func TestInvoicesWithoutGatewayCustomer(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")

	invoices, err := f.svc.Invoices(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Empty(t, invoices)
}

func TestFindInvoiceOwnership(t *testing.T) {
	f := newFixture()
	f.seedCustomer("user_1")
	f.seedCustomer("user_2")
	f.subscribe(t, "user_1", "main", "monthly-10-1")

	f.gw.invoices["inv_1"] = &braintree.Invoice{ID: "inv_1", CustomerID: "cus_1", TotalCents: 7900, Date: f.now}

	inv, err := f.svc.FindInvoice(context.Background(), "user_1", "inv_1")
	require.NoError(t, err)
	assert.Equal(t, "inv_1", inv.ID)

	// Another customer's invoice id reads as not found, same as a
	// nonexistent one.
	gatewayID := "cus_other"
	f.store.customers["user_2"].BraintreeID = &gatewayID
	_, err = f.svc.FindInvoice(context.Background(), "user_2", "inv_1")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	_, err = f.svc.FindInvoice(context.Background(), "user_1", "inv_missing")
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}
