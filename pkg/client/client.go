// Package client submits orders to the Konduto API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
	"github.com/nimeshabuddhika/konduto-go/pkg/utils"
	"go.uber.org/zap"
)

const (
	opAnalyze      = "analyze"
	opGetOrder     = "get_order"
	opUpdateStatus = "update_status"

	maxResponseBytes = 1 << 20
)

// Cache stores orders fetched from Konduto. cache.OrderCache implements it.
type Cache interface {
	Get(ctx context.Context, orderID string) (*konduto.Order, bool, error)
	Set(ctx context.Context, order *konduto.Order) error
	Delete(ctx context.Context, orderID string) error
}

// Limiter is consulted before every request. pkg.DistributedLimiter implements it.
type Limiter interface {
	Allow(ctx context.Context) bool
}

// Client talks to the Konduto orders API. It is safe for concurrent use.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      Cache
	limiter    Limiter
	editors    []RequestEditorFn
	logger     *zap.Logger
}

var _ konduto.Submitter = (*Client)(nil)

// New returns a client for endpoint (DefaultKondutoEndpoint when empty).
func New(endpoint string, opts ...ClientOption) (*Client, error) {
	if utils.IsEmpty(endpoint) {
		endpoint = pkg.DefaultKondutoEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid konduto endpoint %q", endpoint)
	}

	c := &Client{endpoint: strings.TrimRight(endpoint, "/")}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = utils.NewHTTPClient()
	}
	c.logger = pkg.LoggerOrNop(c.logger)
	return c, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Order   json.RawMessage `json:"order"`
	Message json.RawMessage `json:"message,omitempty"`
}

type statusUpdate struct {
	Status   konduto.Status `json:"status"`
	Comments string         `json:"comments"`
}

// Analyze sends the order for analysis and returns it as scored by Konduto.
// An invalid order is rejected with an *konduto.InvalidEntityError before any request is made.
func (c *Client) Analyze(ctx context.Context, order *konduto.Order) (*konduto.Order, error) {
	body, err := konduto.ToJSON(order)
	if err != nil {
		requestsTotal.WithLabelValues(opAnalyze, outcomeInvalid).Inc()
		return nil, err
	}

	data, err := c.do(ctx, opAnalyze, http.MethodPost, "/orders", body)
	if err != nil {
		return nil, err
	}
	analyzed, err := decodeOrder(data)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("order_analyzed",
		zap.String(pkg.OrderId, analyzed.ID),
		zap.String("recommendation", string(analyzed.Recommendation)),
		zap.String(pkg.TraceId, pkg.TraceIDFromContext(ctx)),
	)
	return analyzed, nil
}

// GetOrder returns the order as currently stored by Konduto, from the cache when possible.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*konduto.Order, error) {
	if utils.IsEmpty(orderID) {
		return nil, &konduto.InvalidEntityError{Entity: "order", Field: "id", Message: "id is required"}
	}

	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, orderID)
		switch {
		case err != nil:
			c.logger.Warn("order_cache_get_failed", zap.String(pkg.OrderId, orderID), zap.Error(err))
		case ok:
			cacheHits.Inc()
			return cached, nil
		}
		cacheMisses.Inc()
	}

	data, err := c.do(ctx, opGetOrder, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}
	order, err := decodeOrder(data)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, order); err != nil {
			c.logger.Warn("order_cache_set_failed", zap.String(pkg.OrderId, orderID), zap.Error(err))
		}
	}
	return order, nil
}

// UpdateOrderStatus reports the merchant's final decision on an order. Only approved,
// declined and fraud are accepted by Konduto.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, status konduto.Status, comments string) error {
	if utils.IsEmpty(orderID) {
		return &konduto.InvalidEntityError{Entity: "order", Field: "id", Message: "id is required"}
	}
	switch status {
	case konduto.StatusApproved, konduto.StatusDeclined, konduto.StatusFraud:
	default:
		return &konduto.InvalidEntityError{
			Entity:  "order",
			Field:   "status",
			Message: fmt.Sprintf("status must be one of [approved declined fraud], got %q", status),
		}
	}

	body, err := json.Marshal(statusUpdate{Status: status, Comments: comments})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, opUpdateStatus, http.MethodPut, "/orders/"+url.PathEscape(orderID), body); err != nil {
		return err
	}

	if c.cache != nil {
		if err := c.cache.Delete(ctx, orderID); err != nil {
			c.logger.Warn("order_cache_delete_failed", zap.String(pkg.OrderId, orderID), zap.Error(err))
		}
	}
	return nil
}

// do sends one request and returns the response body of a 2xx answer. There are no retries.
func (c *Client) do(ctx context.Context, op, method, path string, body []byte) (data []byte, err error) {
	start := time.Now()
	defer func() {
		requestsTotal.WithLabelValues(op, outcomeOf(err)).Inc()
		requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	if c.limiter != nil && !c.limiter.Allow(ctx) {
		return nil, pkg.ErrRateLimitExceeded
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if traceID := pkg.TraceIDFromContext(ctx); !utils.IsEmpty(traceID) {
		req.Header.Set(pkg.HeaderTraceId, traceID)
	}
	for _, edit := range c.editors {
		if err := edit(ctx, req); err != nil {
			return nil, err
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("konduto_call_failed", zap.String("operation", op), zap.Error(err))
		return nil, fmt.Errorf("konduto %s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("konduto %s: read response: %w", op, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := newAPIError(resp.StatusCode, data)
		c.logger.Warn("konduto_call_rejected",
			zap.String("operation", op),
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("latency", time.Since(start)),
		)
		return nil, apiErr
	}
	return data, nil
}

func decodeOrder(data []byte) (*konduto.Order, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode konduto response: %w", err)
	}
	if len(env.Order) == 0 || bytes.Equal(env.Order, []byte("null")) {
		return nil, fmt.Errorf("decode konduto response: no order in %q envelope", env.Status)
	}
	return konduto.FromJSON[konduto.Order](env.Order)
}
