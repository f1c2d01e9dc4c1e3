package handlers

import (
	"errors"
	"net/http"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/billing"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/response"

	"github.com/gin-gonic/gin"
)

type SubscribeRequest struct {
	CustomerID   string `json:"customer_id"`
	Name         string `json:"name"`
	PlanID       string `json:"plan_id"`
	PaymentToken string `json:"payment_token"`
	Coupon       string `json:"coupon,omitempty"`
	// TrialDays nil keeps the plan's default trial; 0 skips it.
	TrialDays *int `json:"trial_days,omitempty"`
	Quantity  int  `json:"quantity,omitempty"`
}

type SubscriptionKeyRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
}

type SwapRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	PlanID     string `json:"plan_id"`
}

type ApplyCouponRequest struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Coupon     string `json:"coupon"`
}

// billingErrCode maps domain errors onto the response envelope. Caller
// mistakes (unknown ids, bad state transitions) are bad requests;
// everything else is a server error.
func billingErrCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, billing.ErrCustomerNotFound),
		errors.Is(err, billing.ErrSubscriptionNotFound),
		errors.Is(err, billing.ErrInvoiceNotFound),
		errors.Is(err, billing.ErrSubscriptionExists),
		errors.Is(err, billing.ErrCannotResumeSubscription):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}

// @Summary      Subscribe
// @Description  Creates a gateway subscription for a customer using a client-side payment token.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body SubscribeRequest true "Subscription creation request"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/subscribe [post]
func ApiSubscribe(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.CustomerID == "" || req.Name == "" || req.PlanID == "" || req.PaymentToken == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing customer_id, name, plan_id or payment_token"))
			return
		}

		builder := svc.NewSubscription(req.CustomerID, req.Name, req.PlanID)
		if req.Coupon != "" {
			builder = builder.WithCoupon(req.Coupon)
		}
		if req.TrialDays != nil {
			builder = builder.TrialDays(*req.TrialDays)
		}
		if req.Quantity > 0 {
			builder = builder.Quantity(req.Quantity)
		}

		sub, err := builder.Create(c.Request.Context(), req.PaymentToken)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Get Subscription
// @Description  Returns the newest local subscription row for (customer, name).
// @Tags         Billing
// @Produce      json
// @Param        customer_id query string true "Customer id"
// @Param        name query string false "Subscription name, defaults to main"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/subscription [get]
func ApiGetSubscription(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, name, ok := subscriptionKeyFromQuery(c)
		if !ok {
			return
		}
		sub, err := svc.Subscription(c.Request.Context(), customerID, name)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Get Gateway Subscription
// @Description  Returns the gateway's own record of the subscription, discounts included.
// @Tags         Billing
// @Produce      json
// @Param        customer_id query string true "Customer id"
// @Param        name query string false "Subscription name, defaults to main"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/billing/subscription/braintree [get]
func ApiGetBraintreeSubscription(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, name, ok := subscriptionKeyFromQuery(c)
		if !ok {
			return
		}
		view, err := svc.AsBraintreeSubscription(c.Request.Context(), customerID, name)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(view))
	}
}

// @Summary      Cancel Subscription
// @Description  Cancels at period end; trial subscriptions are cancelled immediately.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionKeyRequest true "Subscription key"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/cancel [post]
func ApiCancelSubscription(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := subscriptionKeyFromBody(c)
		if !ok {
			return
		}
		sub, err := svc.Cancel(c.Request.Context(), req.CustomerID, req.Name)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Resume Subscription
// @Description  Clears a pending cancellation while the grace period lasts.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body SubscriptionKeyRequest true "Subscription key"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/resume [post]
func ApiResumeSubscription(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, ok := subscriptionKeyFromBody(c)
		if !ok {
			return
		}
		sub, err := svc.Resume(c.Request.Context(), req.CustomerID, req.Name)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Swap Plan
// @Description  Moves the subscription to another plan; the gateway prorates internally.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body SwapRequest true "Swap request"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/billing/swap [post]
func ApiSwapPlan(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SwapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.CustomerID == "" || req.PlanID == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing customer_id or plan_id"))
			return
		}
		if req.Name == "" {
			req.Name = "main"
		}
		sub, err := svc.Swap(c.Request.Context(), req.CustomerID, req.Name, req.PlanID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Apply Coupon
// @Description  Attaches a gateway discount to the existing subscription.
// @Tags         Billing
// @Accept       json
// @Produce      json
// @Param        request body ApplyCouponRequest true "Coupon request"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/billing/apply_coupon [post]
func ApiApplyCoupon(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ApplyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.CustomerID == "" || req.Coupon == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing customer_id or coupon"))
			return
		}
		if req.Name == "" {
			req.Name = "main"
		}
		if err := svc.ApplyCoupon(c.Request.Context(), req.CustomerID, req.Coupon, req.Name); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](billingErrCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func subscriptionKeyFromQuery(c *gin.Context) (customerID, name string, ok bool) {
	customerID = c.Query("customer_id")
	if customerID == "" {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing customer_id"))
		return "", "", false
	}
	name = c.Query("name")
	if name == "" {
		name = "main"
	}
	return customerID, name, true
}

func subscriptionKeyFromBody(c *gin.Context) (*SubscriptionKeyRequest, bool) {
	var req SubscriptionKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
		return nil, false
	}
	if req.CustomerID == "" {
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing customer_id"))
		return nil, false
	}
	if req.Name == "" {
		req.Name = "main"
	}
	return &req, true
}

func RegisterBillingRoutes(r gin.IRouter, svc *billing.Service) {
	r.POST("/subscribe", ApiSubscribe(svc))
	r.GET("/subscription", ApiGetSubscription(svc))
	r.GET("/subscription/braintree", ApiGetBraintreeSubscription(svc))
	r.POST("/cancel", ApiCancelSubscription(svc))
	r.POST("/resume", ApiResumeSubscription(svc))
	r.POST("/swap", ApiSwapPlan(svc))
	r.POST("/apply_coupon", ApiApplyCoupon(svc))
}
