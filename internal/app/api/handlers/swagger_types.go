package handlers

import (
	models "github.com/WellsMediaGroupInc/cashier-braintree/internal/models"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/platform/braintree"
	"github.com/WellsMediaGroupInc/cashier-braintree/internal/repository"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespSubscription wraps a subscription row in the standard envelope.
type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Subscription      `json:"data"`
}

// RespInvoiceList wraps a list of gateway invoices in the standard envelope.
type RespInvoiceList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []*braintree.Invoice     `json:"data"`
}

// RespListSubscriptions wraps the admin listing in the standard envelope.
type RespListSubscriptions struct {
	Code    response.APIResponseCode             `json:"code"`
	Message string                               `json:"message"`
	Data    repository.ScanSubscriptionsResponse `json:"data"`
}
