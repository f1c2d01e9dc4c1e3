package billing

import "errors"

var (
	// ErrCustomerNotFound means no local owner row matched the id.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrSubscriptionNotFound means no local subscription row matched.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrInvoiceNotFound means the gateway invoice does not exist or
	// belongs to another customer.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrSubscriptionExists rejects creating a second current
	// subscription under the same name for one customer.
	ErrSubscriptionExists = errors.New("a current subscription already exists under this name")
	// ErrSubscriptionCreationFailed wraps the gateway's rejection
	// (card decline, invalid token, invalid coupon).
	ErrSubscriptionCreationFailed = errors.New("subscription creation failed")
	// ErrCannotResumeSubscription is raised locally, before any gateway
	// call, when the subscription is not inside its grace period.
	ErrCannotResumeSubscription = errors.New("subscription cannot be resumed outside its grace period")
	// ErrBuilderConsumed rejects reusing a builder after Create.
	ErrBuilderConsumed = errors.New("subscription builder already consumed")
)
