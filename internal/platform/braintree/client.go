package braintree

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	cfgpkg "github.com/WellsMediaGroupInc/cashier-braintree/pkg/config"
	"github.com/WellsMediaGroupInc/cashier-braintree/pkg/logctx"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	sandboxBaseURL    = "https://api.sandbox.braintreegateway.com"
	productionBaseURL = "https://api.braintreegateway.com"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	retryDelay        = time.Second
)

// Client talks to the gateway's REST API. Mutating calls are submitted
// exactly once; only reads (find/list) are retried, since mutations
// carry no idempotency key and a blind retry could double-create.
type Client struct {
	baseURL    string
	merchantID string
	publicKey  string
	privateKey string
	maxRetries int
	httpClient *http.Client
	log        *zap.SugaredLogger
}

func NewClient(cfg *cfgpkg.Config, log *zap.SugaredLogger) (*Client, error) {
	bt := cfg.Braintree
	if bt.MerchantID == "" || bt.PublicKey == "" || bt.PrivateKey == "" {
		return nil, fmt.Errorf("braintree credentials are not configured")
	}

	baseURL := bt.BaseURL
	if baseURL == "" {
		switch bt.Environment {
		case "production":
			baseURL = productionBaseURL
		default:
			baseURL = sandboxBaseURL
		}
	}

	timeout := bt.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := bt.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	return &Client{
		baseURL:    baseURL,
		merchantID: bt.MerchantID,
		publicKey:  bt.PublicKey,
		privateKey: bt.PrivateKey,
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}, nil
}

func (c *Client) CreateCustomer(ctx context.Context, params *CustomerParams) (string, error) {
	var out struct {
		CustomerID string `json:"customer_id"`
	}
	if err := c.post(ctx, "/customers", params, &out); err != nil {
		return "", fmt.Errorf("create customer failed: %w", err)
	}
	return out.CustomerID, nil
}

func (c *Client) CreateSubscription(ctx context.Context, params *CreateSubscriptionParams) (*CreateSubscriptionResult, error) {
	var out CreateSubscriptionResult
	if err := c.post(ctx, "/subscriptions", params, &out); err != nil {
		return nil, fmt.Errorf("create subscription failed: %w", err)
	}
	return &out, nil
}

func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string, immediate bool) (*CancelResult, error) {
	req := struct {
		Immediate bool `json:"immediate"`
	}{Immediate: immediate}
	var out CancelResult
	path := fmt.Sprintf("/subscriptions/%s/cancel", url.PathEscape(subscriptionID))
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, fmt.Errorf("cancel subscription failed: %w", err)
	}
	return &out, nil
}

func (c *Client) ResumeSubscription(ctx context.Context, subscriptionID string) (*ResumeResult, error) {
	var out ResumeResult
	path := fmt.Sprintf("/subscriptions/%s/resume", url.PathEscape(subscriptionID))
	if err := c.post(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("resume subscription failed: %w", err)
	}
	return &out, nil
}

func (c *Client) SwapPlan(ctx context.Context, subscriptionID, newPlanID string) (*SwapResult, error) {
	req := struct {
		PlanID string `json:"plan_id"`
	}{PlanID: newPlanID}
	var out SwapResult
	path := fmt.Sprintf("/subscriptions/%s/swap", url.PathEscape(subscriptionID))
	if err := c.post(ctx, path, req, &out); err != nil {
		return nil, fmt.Errorf("swap plan failed: %w", err)
	}
	return &out, nil
}

func (c *Client) ApplyDiscount(ctx context.Context, subscriptionID, code string) error {
	req := struct {
		Code string `json:"code"`
	}{Code: code}
	path := fmt.Sprintf("/subscriptions/%s/discounts", url.PathEscape(subscriptionID))
	if err := c.post(ctx, path, req, nil); err != nil {
		return fmt.Errorf("apply discount failed: %w", err)
	}
	return nil
}

func (c *Client) FindSubscription(ctx context.Context, subscriptionID string) (*SubscriptionView, error) {
	var out SubscriptionView
	path := fmt.Sprintf("/subscriptions/%s", url.PathEscape(subscriptionID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("find subscription failed: %w", err)
	}
	return &out, nil
}

func (c *Client) FindInvoice(ctx context.Context, invoiceID string) (*Invoice, error) {
	var out Invoice
	path := fmt.Sprintf("/invoices/%s", url.PathEscape(invoiceID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("find invoice failed: %w", err)
	}
	return &out, nil
}

func (c *Client) ListInvoices(ctx context.Context, customerID string) ([]*Invoice, error) {
	var out struct {
		Invoices []*Invoice `json:"invoices"`
	}
	path := fmt.Sprintf("/customers/%s/invoices", url.PathEscape(customerID))
	if err := c.get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("list invoices failed: %w", err)
	}
	return out.Invoices, nil
}

// post performs a single mutating request, never retried.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// get performs an idempotent read with bounded retries on transport
// errors and 5xx answers.
func (c *Client) get(ctx context.Context, path string, out any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			logctx.FromCtx(ctx, c.log).Infow("retrying gateway read", "path", path, "attempt", attempt, "err", lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryDelay * time.Duration(attempt)):
			}
		}

		resp, err := c.do(ctx, http.MethodGet, path, nil)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < 500 {
				return err
			}
			lastErr = err
			continue
		}
		return decodeResponse(resp, out)
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload failed: %w", err)
		}
		body = bytes.NewReader(payloadBytes)
	}

	endpoint := fmt.Sprintf("%s/merchants/%s%s", c.baseURL, url.PathEscape(c.merchantID), path)
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.publicKey, c.privateKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, parseAPIError(resp)
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response failed: %w", err)
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	respBody, _ := io.ReadAll(resp.Body)
	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &body); err == nil && body.Message != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	} else {
		apiErr.Message = string(respBody)
	}
	return apiErr
}

// Module exposes the gateway client as the Gateway interface via Fx.
var Module = fx.Options(
	fx.Provide(func(cfg *cfgpkg.Config, log *zap.SugaredLogger) (Gateway, error) {
		return NewClient(cfg, log)
	}),
)
