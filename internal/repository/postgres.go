package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/billing"
	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
	types "github.com/WellsMediaGroupInc/cashier-braintree/pkg/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm-backed billing.Store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Customer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	return &customer, nil
}

func (s *Store) SaveCustomer(ctx context.Context, customer *models.Customer) error {
	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (s *Store) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

func (s *Store) SaveSubscription(ctx context.Context, sub *models.Subscription) error {
	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("failed to save subscription: %w", err)
	}
	return nil
}

func (s *Store) LatestSubscription(ctx context.Context, customerID, name string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND name = ?", customerID, name).
		Order("created_at desc").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

func (s *Store) SubscriptionByBraintreeID(ctx context.Context, braintreeID string) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("braintree_id = ?", braintreeID).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	return &sub, nil
}

func (s *Store) Subscriptions(ctx context.Context, customerID string) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).Where("customer_id = ?", customerID).Order("created_at asc").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *Store) SaveSubscriptionLog(ctx context.Context, log *models.SubscriptionLog) error {
	if err := s.db.WithContext(ctx).Save(log).Error; err != nil {
		return fmt.Errorf("failed to save subscription log: %w", err)
	}
	return nil
}

// filtersAnd is a helper to combine multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ScanSubscriptionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanSubscriptionsResponse struct {
	Items []*models.Subscription `json:"items"`
	Total int64                  `json:"total"`
}

// ScanSubscriptions implements paginated/admin listing with filters
func (s *Store) ScanSubscriptions(ctx context.Context, req *ScanSubscriptionsRequest) (*ScanSubscriptionsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Subscription{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var rows []*models.Subscription

	q := tx.Limit(req.Size)

	if req.From > 0 {
		q = q.Offset(req.From)
	}

	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return &ScanSubscriptionsResponse{Items: rows, Total: total}, nil
}
