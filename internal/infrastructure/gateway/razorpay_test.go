package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func order(amount int64) domain.OrderRequest {
	return domain.OrderRequest{Amount: amount, Currency: "INR"}
}

func TestCreateOrder_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_key", user)
		assert.Equal(t, "rzp_secret", pass)

		var req createOrderReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(50000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "rcpt_1", req.Receipt)
		assert.Equal(t, map[string]string{"course_id": "c1"}, req.Notes)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","entity":"order","amount":50000,"amount_paid":0,"amount_due":50000,"currency":"INR","receipt":"rcpt_1","status":"created","attempts":0,"created_at":1700000000}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL+"/", "rzp_key", "rzp_secret", DefaultBreakerSettings(), quietLogger())
	order, err := c.CreateOrder(context.Background(), domain.OrderRequest{
		Amount: 50000, Currency: "INR", Receipt: "rcpt_1", Notes: map[string]string{"course_id": "c1"},
	})
	require.NoError(t, err)

	assert.Equal(t, "order_abc", order.ID)
	assert.Equal(t, int64(50000), order.Amount)
	assert.Equal(t, "created", order.Status)
}

func TestCreateOrder_BadRequestIsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "k", "s", DefaultBreakerSettings(), quietLogger())
	_, err := c.CreateOrder(context.Background(), order(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.False(t, errors.Is(err, domain.ErrUpstream))
	assert.Contains(t, err.Error(), "amount too small")

	var rejected *OrderRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "BAD_REQUEST_ERROR", rejected.Code)
}

func TestCreateOrder_AuthFailureIsUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"Authentication failed"}}`))
	}))
	defer srv.Close()

	c := NewRazorpayClient(srv.URL, "k", "s", DefaultBreakerSettings(), quietLogger())
	_, err := c.CreateOrder(context.Background(), order(100))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

func TestCreateOrder_RejectionsDoNotOpenBreaker(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req createOrderReq
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Amount < 100 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"The amount must be atleast INR 1.00"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"order_ok","amount":50000,"currency":"INR","status":"created"}`))
	}))
	defer srv.Close()

	bs := BreakerSettings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 2}
	c := NewRazorpayClient(srv.URL, "k", "s", bs, quietLogger())

	for i := 0; i < 5; i++ {
		_, err := c.CreateOrder(context.Background(), order(0))
		require.True(t, errors.Is(err, domain.ErrValidation))
	}

	got, err := c.CreateOrder(context.Background(), order(50000))
	require.NoError(t, err)
	assert.Equal(t, "order_ok", got.ID)
	assert.Equal(t, int32(6), hits.Load())
}

func TestCreateOrder_BreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	bs := BreakerSettings{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 2}
	c := NewRazorpayClient(srv.URL, "k", "s", bs, quietLogger())

	for i := 0; i < 2; i++ {
		_, err := c.CreateOrder(context.Background(), order(100))
		require.Error(t, err)
	}

	_, err := c.CreateOrder(context.Background(), order(100))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
	assert.Equal(t, int32(2), hits.Load())
}

func TestCreateOrder_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewRazorpayClient(url, "k", "s", DefaultBreakerSettings(), quietLogger())
	_, err := c.CreateOrder(context.Background(), order(100))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}
