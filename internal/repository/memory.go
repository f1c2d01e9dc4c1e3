package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/billing"
	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
)

// MemoryStore is an in-memory billing.Store for tests and local
// development. It copies rows on the way in and out so callers cannot
// mutate shared state by accident.
type MemoryStore struct {
	mu        sync.RWMutex
	customers map[string]*models.Customer
	subs      map[string]*models.Subscription
	seq       map[string]int64
	nextSeq   int64
	logs      []*models.SubscriptionLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		customers: make(map[string]*models.Customer),
		subs:      make(map[string]*models.Subscription),
		seq:       make(map[string]int64),
	}
}

func (m *MemoryStore) Customer(_ context.Context, id string) (*models.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.customers[id]
	if !ok {
		return nil, billing.ErrCustomerNotFound
	}
	cp := *customer
	return &cp, nil
}

func (m *MemoryStore) SaveCustomer(_ context.Context, customer *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *customer
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()
	m.customers[cp.ID] = &cp
	return nil
}

func (m *MemoryStore) CreateSubscription(_ context.Context, sub *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = cp.CreatedAt
	m.subs[cp.ID] = &cp
	m.nextSeq++
	m.seq[cp.ID] = m.nextSeq
	sub.CreatedAt = cp.CreatedAt
	sub.UpdatedAt = cp.UpdatedAt
	return nil
}

func (m *MemoryStore) SaveSubscription(_ context.Context, sub *models.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *sub
	if existing, ok := m.subs[cp.ID]; ok {
		cp.CreatedAt = existing.CreatedAt
	} else if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	cp.UpdatedAt = time.Now()
	m.subs[cp.ID] = &cp
	if _, ok := m.seq[cp.ID]; !ok {
		m.nextSeq++
		m.seq[cp.ID] = m.nextSeq
	}
	return nil
}

func (m *MemoryStore) LatestSubscription(_ context.Context, customerID, name string) (*models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *models.Subscription
	for _, sub := range m.subs {
		if sub.CustomerID != customerID || sub.Name != name {
			continue
		}
		// insertion order breaks CreatedAt ties
		if latest == nil || m.seq[sub.ID] > m.seq[latest.ID] {
			latest = sub
		}
	}
	if latest == nil {
		return nil, billing.ErrSubscriptionNotFound
	}
	cp := *latest
	return &cp, nil
}

func (m *MemoryStore) SubscriptionByBraintreeID(_ context.Context, braintreeID string) (*models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, sub := range m.subs {
		if sub.BraintreeID == braintreeID {
			cp := *sub
			return &cp, nil
		}
	}
	return nil, billing.ErrSubscriptionNotFound
}

func (m *MemoryStore) Subscriptions(_ context.Context, customerID string) ([]*models.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var subs []*models.Subscription
	for _, sub := range m.subs {
		if sub.CustomerID == customerID {
			cp := *sub
			subs = append(subs, &cp)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return m.seq[subs[i].ID] < m.seq[subs[j].ID] })
	return subs, nil
}

func (m *MemoryStore) SaveSubscriptionLog(_ context.Context, log *models.SubscriptionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *log
	m.logs = append(m.logs, &cp)
	return nil
}

// SubscriptionLogs returns the recorded change log entries.
func (m *MemoryStore) SubscriptionLogs() []*models.SubscriptionLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.SubscriptionLog, len(m.logs))
	copy(out, m.logs)
	return out
}
