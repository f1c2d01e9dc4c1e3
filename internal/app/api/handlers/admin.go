package handlers

import (
	"net/http"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/repository"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/response"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/types"

	"github.com/gin-gonic/gin"
)

type ListSubscriptionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// @Summary      List Subscriptions (Admin)
// @Description  Retrieves a paginated and filterable list of all mirrored subscriptions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListSubscriptionsRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListSubscriptions
// @Router       /api/v1/admin/list_subscriptions [post]
func ApiListSubscriptions(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListSubscriptionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &repository.ScanSubscriptionsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := store.ScanSubscriptions(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Customer (Admin)
// @Description  Returns the local customer row with its gateway ids and card info.
// @Tags         Admin
// @Produce      json
// @Param        customer_id query string true "Customer id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/get_customer [get]
func ApiGetCustomer(store *repository.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID := c.Query("customer_id")
		if customerID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing customer_id"))
			return
		}
		customer, err := store.Customer(c.Request.Context(), customerID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(customer))
	}
}

func RegisterAdminBillingRoutes(r gin.IRouter, store *repository.Store) {
	r.POST("/list_subscriptions", ApiListSubscriptions(store))
	r.GET("/get_customer", ApiGetCustomer(store))
}
