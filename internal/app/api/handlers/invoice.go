package handlers

import (
	"net/http"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/billing"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary      List Invoices
// @Description  Lists the customer's gateway invoices, pending ones included.
// @Tags         Billing
// @Produce      json
// @Param        customer_id query string true "Customer id"
// @Success      200  {object}  handlers.RespInvoiceList
// @Router       /api/v1/billing/invoice/list [get]
func ApiListInvoices(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customer_id")
		if customerID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing customer_id"))
			return
		}
		invoices, err := svc.Invoices(c.Request.Context(), customerID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(invoices))
	}
}

// @Summary      Get Invoice
// @Description  Fetches one invoice; another customer's invoice reads as not found.
// @Tags         Billing
// @Produce      json
// @Param        customer_id query string true "Customer id"
// @Param        invoice_id query string true "Invoice id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/billing/invoice/get [get]
func ApiGetInvoice(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customer_id")
		invoiceID := c.Query("invoice_id")
		if customerID == "" || invoiceID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing customer_id or invoice_id"))
			return
		}
		inv, err := svc.FindInvoice(c.Request.Context(), customerID, invoiceID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(inv))
	}
}

func RegisterInvoiceRoutes(r gin.IRouter, svc *billing.Service) {
	r.GET("/invoice/list", ApiListInvoices(svc))
	r.GET("/invoice/get", ApiGetInvoice(svc))
}
