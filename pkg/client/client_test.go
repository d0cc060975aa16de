package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "T738D516F09CAB3A2C1EE"

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, orderID string) (*konduto.Order, bool, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*konduto.Order)
	return order, args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, order *konduto.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, orderID string) error {
	return m.Called(ctx, orderID).Error(0)
}

type stubLimiter struct {
	allow bool
}

func (s stubLimiter) Allow(context.Context) bool { return s.allow }

// fakeKonduto mimics the /orders resource of the Konduto API.
type fakeKonduto struct {
	calls       atomic.Int32
	lastAuth    atomic.Value
	lastTraceID atomic.Value
	lastBody    atomic.Value
}

func newFakeKonduto(t *testing.T) (*fakeKonduto, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fake := &fakeKonduto{}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		fake.calls.Add(1)
		user, pass, _ := c.Request.BasicAuth()
		fake.lastAuth.Store(user + ":" + pass)
		fake.lastTraceID.Store(c.GetHeader(pkg.HeaderTraceId))
		body, _ := io.ReadAll(c.Request.Body)
		fake.lastBody.Store(string(body))
		if user != testAPIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "invalid api key"})
			return
		}
		c.Set("body", body)
	})
	r.POST("/v1/orders", func(c *gin.Context) {
		var in map[string]any
		if err := json.Unmarshal(c.MustGet("body").([]byte), &in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "malformed json"})
			return
		}
		if in["id"] == "duplicated" {
			c.JSON(http.StatusConflict, gin.H{"status": "error", "message": gin.H{"where": "/id", "why": "already exists"}})
			return
		}
		in["score"] = 0.12
		in["recommendation"] = "approve"
		in["status"] = "pending"
		c.JSON(http.StatusOK, gin.H{"status": "ok", "order": in})
	})
	r.GET("/v1/orders/:id", func(c *gin.Context) {
		if c.Param("id") == "unknown" {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "order": gin.H{
			"id": c.Param("id"), "total_amount": 312.71, "score": 0.3, "recommendation": "review", "status": "pending",
		}})
	})
	r.PUT("/v1/orders/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"old_status": "review", "new_status": "approved"})
	})

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return fake, server
}

func newTestClient(t *testing.T, server *httptest.Server, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(server.Client()), WithBasicAuth(testAPIKey)}, opts...)
	c, err := New(server.URL+"/v1", opts...)
	require.NoError(t, err)
	return c
}

func validOrder() *konduto.Order {
	total := 312.71
	return &konduto.Order{
		ID:          "ORD1237163",
		TotalAmount: &total,
		Customer: &konduto.Customer{
			ID:    "28372",
			Name:  "Júlia da Silva",
			Email: "jsilva@exemplo.com.br",
		},
		Purchase: konduto.ShoppingCart{{SKU: "9919023", Name: "Green T-Shirt", Quantity: 1}},
	}
}

func TestNew(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, pkg.DefaultKondutoEndpoint, c.endpoint)
	assert.NotNil(t, c.httpClient)
	assert.NotNil(t, c.logger)

	c, err = New("https://api.konduto.com/v1/")
	require.NoError(t, err)
	assert.Equal(t, "https://api.konduto.com/v1", c.endpoint)

	_, err = New("api.konduto.com")
	assert.Error(t, err)
}

func TestClient_Analyze(t *testing.T) {
	fake, server := newFakeKonduto(t)
	c := newTestClient(t, server)

	ctx := pkg.ContextWithTraceID(context.Background(), "trace-123")
	analyzed, err := c.Analyze(ctx, validOrder())
	require.NoError(t, err)

	assert.Equal(t, "ORD1237163", analyzed.ID)
	require.NotNil(t, analyzed.Score)
	assert.Equal(t, 0.12, *analyzed.Score)
	assert.Equal(t, konduto.RecommendationApprove, analyzed.Recommendation)
	assert.Equal(t, konduto.StatusPending, analyzed.Status)
	assert.Len(t, analyzed.ShoppingCart(), 1)

	assert.Equal(t, testAPIKey+":", fake.lastAuth.Load())
	assert.Equal(t, "trace-123", fake.lastTraceID.Load())
	expected, err := validOrder().ToJSON()
	require.NoError(t, err)
	assert.Equal(t, string(expected), fake.lastBody.Load())
}

func TestClient_AnalyzeInvalidOrderNeverReachesServer(t *testing.T) {
	fake, server := newFakeKonduto(t)
	c := newTestClient(t, server)

	order := validOrder()
	order.Customer = nil
	analyzed, err := c.Analyze(context.Background(), order)

	assert.Nil(t, analyzed)
	assert.ErrorIs(t, err, konduto.ErrInvalidEntity)
	assert.EqualError(t, err, "invalid order: customer is required")
	assert.Zero(t, fake.calls.Load())
}

func TestClient_AnalyzeAPIErrors(t *testing.T) {
	cases := map[string]struct {
		order      func() *konduto.Order
		opts       []ClientOption
		statusCode int
		message    string
	}{
		"conflict with object message": {
			order: func() *konduto.Order {
				o := validOrder()
				o.ID = "duplicated"
				return o
			},
			statusCode: http.StatusConflict,
			message:    `{"where":"/id","why":"already exists"}`,
		},
		"wrong api key": {
			order:      validOrder,
			opts:       []ClientOption{WithBasicAuth("wrong")},
			statusCode: http.StatusUnauthorized,
			message:    "invalid api key",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, server := newFakeKonduto(t)
			c := newTestClient(t, server, tc.opts...)

			_, err := c.Analyze(context.Background(), tc.order())

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.statusCode, apiErr.StatusCode)
			assert.Equal(t, tc.message, apiErr.Message)
			assert.False(t, apiErr.Temporary())
		})
	}
}

func TestClient_RateLimited(t *testing.T) {
	fake, server := newFakeKonduto(t)
	c := newTestClient(t, server, WithLimiter(stubLimiter{allow: false}))

	_, err := c.Analyze(context.Background(), validOrder())
	assert.ErrorIs(t, err, pkg.ErrRateLimitExceeded)

	_, err = c.GetOrder(context.Background(), "ORD1")
	assert.ErrorIs(t, err, pkg.ErrRateLimitExceeded)
	assert.Zero(t, fake.calls.Load())
}

func TestClient_GetOrder(t *testing.T) {
	t.Run("cache miss fetches and stores", func(t *testing.T) {
		fake, server := newFakeKonduto(t)
		cache := &mockCache{}
		cache.On("Get", mock.Anything, "ORD1").Return(nil, false, nil).Once()
		cache.On("Set", mock.Anything, mock.MatchedBy(func(o *konduto.Order) bool { return o.ID == "ORD1" })).Return(nil).Once()
		c := newTestClient(t, server, WithCache(cache))

		order, err := c.GetOrder(context.Background(), "ORD1")
		require.NoError(t, err)
		assert.Equal(t, konduto.RecommendationReview, order.Recommendation)
		assert.EqualValues(t, 1, fake.calls.Load())
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips http", func(t *testing.T) {
		fake, server := newFakeKonduto(t)
		cached := validOrder()
		cache := &mockCache{}
		cache.On("Get", mock.Anything, "ORD1237163").Return(cached, true, nil).Once()
		c := newTestClient(t, server, WithCache(cache))

		order, err := c.GetOrder(context.Background(), "ORD1237163")
		require.NoError(t, err)
		assert.Same(t, cached, order)
		assert.Zero(t, fake.calls.Load())
		cache.AssertExpectations(t)
	})

	t.Run("cache failure falls back to api", func(t *testing.T) {
		fake, server := newFakeKonduto(t)
		cache := &mockCache{}
		cache.On("Get", mock.Anything, "ORD1").Return(nil, false, errors.New("redis down")).Once()
		cache.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()
		c := newTestClient(t, server, WithCache(cache))

		order, err := c.GetOrder(context.Background(), "ORD1")
		require.NoError(t, err)
		assert.Equal(t, "ORD1", order.ID)
		assert.EqualValues(t, 1, fake.calls.Load())
	})

	t.Run("not found", func(t *testing.T) {
		_, server := newFakeKonduto(t)
		c := newTestClient(t, server)

		_, err := c.GetOrder(context.Background(), "unknown")
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
		assert.Equal(t, "order not found", apiErr.Message)
	})

	t.Run("empty id", func(t *testing.T) {
		_, server := newFakeKonduto(t)
		c := newTestClient(t, server)

		_, err := c.GetOrder(context.Background(), "")
		assert.ErrorIs(t, err, konduto.ErrInvalidEntity)
	})
}

func TestClient_UpdateOrderStatus(t *testing.T) {
	t.Run("evicts cached order", func(t *testing.T) {
		fake, server := newFakeKonduto(t)
		cache := &mockCache{}
		cache.On("Delete", mock.Anything, "ORD1").Return(nil).Once()
		c := newTestClient(t, server, WithCache(cache))

		err := c.UpdateOrderStatus(context.Background(), "ORD1", konduto.StatusApproved, "manual review")
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"approved","comments":"manual review"}`, fake.lastBody.Load().(string))
		cache.AssertExpectations(t)
	})

	t.Run("rejects statuses konduto does not accept", func(t *testing.T) {
		fake, server := newFakeKonduto(t)
		c := newTestClient(t, server)

		for _, status := range []konduto.Status{konduto.StatusPending, konduto.StatusCanceled, ""} {
			err := c.UpdateOrderStatus(context.Background(), "ORD1", status, "")
			var invalid *konduto.InvalidEntityError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, "status", invalid.Field)
		}
		assert.Zero(t, fake.calls.Load())
	})
}

func TestDecodeOrder(t *testing.T) {
	_, err := decodeOrder([]byte(`not json`))
	assert.Error(t, err)

	_, err = decodeOrder([]byte(`{"status":"ok"}`))
	assert.ErrorContains(t, err, "no order")

	order, err := decodeOrder([]byte(`{"status":"ok","order":{"id":"ORD1","recommendation":"decline"}}`))
	require.NoError(t, err)
	assert.Equal(t, konduto.RecommendationDecline, order.Recommendation)
}

func TestNewAPIError(t *testing.T) {
	cases := map[string]struct {
		status    int
		body      string
		message   string
		temporary bool
	}{
		"string message":  {status: 400, body: `{"status":"error","message":"bad"}`, message: "bad"},
		"plain text body": {status: 502, body: "upstream down", message: "upstream down", temporary: true},
		"empty body":      {status: 503, body: "", message: "Service Unavailable", temporary: true},
		"too many":        {status: 429, body: `{"status":"error","message":"slow down"}`, message: "slow down", temporary: true},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := newAPIError(tc.status, []byte(tc.body))
			assert.Equal(t, tc.message, err.Message)
			assert.Equal(t, tc.temporary, err.Temporary())
		})
	}
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, outcomeSuccess, outcomeOf(nil))
	assert.Equal(t, outcomeRateLimited, outcomeOf(pkg.ErrRateLimitExceeded))
	assert.Equal(t, outcomeInvalid, outcomeOf(&konduto.InvalidEntityError{Entity: "order"}))
	assert.Equal(t, outcomeRejected, outcomeOf(&APIError{StatusCode: 400}))
	assert.Equal(t, outcomeTransport, outcomeOf(errors.New("dial tcp: refused")))
}
