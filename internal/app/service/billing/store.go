package billing

import (
	"context"

	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
)

// Store is the explicit persistence boundary for mirror rows. State
// transitions never save implicitly; every write is a method call here,
// issued only after the corresponding gateway call succeeded.
//
// Lookup misses are reported as ErrCustomerNotFound /
// ErrSubscriptionNotFound.
type Store interface {
	Customer(ctx context.Context, id string) (*models.Customer, error)
	SaveCustomer(ctx context.Context, customer *models.Customer) error

	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	SaveSubscription(ctx context.Context, sub *models.Subscription) error
	// LatestSubscription returns the newest row for (customer, name),
	// ended or not; history rows from earlier swaps are older.
	LatestSubscription(ctx context.Context, customerID, name string) (*models.Subscription, error)
	SubscriptionByBraintreeID(ctx context.Context, braintreeID string) (*models.Subscription, error)
	Subscriptions(ctx context.Context, customerID string) ([]*models.Subscription, error)

	SaveSubscriptionLog(ctx context.Context, log *models.SubscriptionLog) error
}
