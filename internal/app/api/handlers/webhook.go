package handlers

import (
	"errors"
	"net/http"

	"github.com/WellsMediaGroupInc/cashier-braintree/internal/app/service/reconciler"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/logctx"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @Summary      Braintree Webhook
// @Description  Receives gateway notifications. Unparseable payloads get a 400; everything else answers 200 so the gateway does not redeliver.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body string true "Gateway notification payload"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/webhook/braintree [post]
func ApiBraintreeWebhook(r *reconciler.Reconciler, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logctx.FromGin(c, log).Infow("webhook_braintree_received")

		payload, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		if err := r.Handle(c.Request.Context(), payload); err != nil {
			if errors.Is(err, reconciler.ErrMalformedPayload) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			// Internal failures still answer 200; the audit row keeps
			// the payload for replay.
			logctx.FromGin(c, log).Errorw("webhook_braintree_handle_error", "error", err.Error())
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		logctx.FromGin(c, log).Infow("webhook_braintree_handled")
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterWebhookRoutes(r gin.IRouter, rec *reconciler.Reconciler, log *zap.SugaredLogger) {
	r.POST("/braintree", ApiBraintreeWebhook(rec, log))
}
