package models

import "time"

// Customer is the local mirror of a billable owner. BraintreeID is nil
// until the first subscription creation provisions a gateway customer.
type Customer struct {
	ID          string  `gorm:"column:id;type:varchar(64);primary_key" json:"id"`
	Email       string  `gorm:"column:email;type:varchar(255);not null" json:"email"`
	Name        string  `gorm:"column:name;type:varchar(255);not null" json:"name"`
	BraintreeID *string `gorm:"column:braintree_id;type:varchar(64);uniqueIndex" json:"braintree_id"`
	PaypalEmail *string `gorm:"column:paypal_email;type:varchar(255)" json:"paypal_email"`
	// CardBrand/CardLastFour mirror the default payment method reported
	// by the gateway; never the raw card data.
	CardBrand    *string   `gorm:"column:card_brand;type:varchar(64)" json:"card_brand"`
	CardLastFour *string   `gorm:"column:card_last_four;type:varchar(4)" json:"card_last_four"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customer"
}

func (c *Customer) HasBraintreeID() bool {
	return c != nil && c.BraintreeID != nil && *c.BraintreeID != ""
}
