package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/waste3d/coursemarket-api/internal/domain"

	"github.com/sony/gobreaker/v2"
)

// RazorpayClient создает заказы в Razorpay. Собирается явно в main и отдается
// только в EnrollmentUseCase, глобального инстанса нет.
type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*domain.Order]
	logger     *slog.Logger
}

type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          20 * time.Second,
		FailureThreshold: 5,
	}
}

func NewRazorpayClient(baseURL, keyID, keySecret string, bs BreakerSettings, logger *slog.Logger) *RazorpayClient {
	c := &RazorpayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		keyID:      keyID,
		keySecret:  keySecret,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}

	c.breaker = gobreaker.NewCircuitBreaker[*domain.Order](gobreaker.Settings{
		Name:        "razorpay",
		MaxRequests: bs.MaxRequests,
		Interval:    bs.Interval,
		Timeout:     bs.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bs.FailureThreshold
		},
		// отказ по нашему запросу (4xx) - шлюз жив, брейкер не трогаем
		IsSuccessful: func(err error) bool {
			var rejected *OrderRejectedError
			return err == nil || errors.As(err, &rejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return c
}

type createOrderReq struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// OrderRejectedError - шлюз ответил 4xx на корректно доставленный запрос.
// 400 - проблема во входных данных заказа, остальное считаем ошибкой шлюза.
type OrderRejectedError struct {
	Status      int
	Code        string
	Description string
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("razorpay status %d: %s", e.Status, e.Description)
}

func (e *OrderRejectedError) Unwrap() error {
	if e.Status == http.StatusBadRequest {
		return domain.ErrValidation
	}
	return domain.ErrUpstream
}

// rejected - 4xx кроме 429. 429 и 5xx значат, что шлюзу плохо.
func rejected(status int) bool {
	return status >= 400 && status < 500 && status != http.StatusTooManyRequests
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder - POST /v1/orders. Ошибки не ретраим, клиент начнет checkout заново.
func (c *RazorpayClient) CreateOrder(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	order, err := c.breaker.Execute(func() (*domain.Order, error) {
		return c.createOrder(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("razorpay unavailable: %v: %w", err, domain.ErrUpstream)
		}
		return nil, err
	}
	return order, nil
}

func (c *RazorpayClient) createOrder(ctx context.Context, in domain.OrderRequest) (*domain.Order, error) {
	body, err := json.Marshal(createOrderReq{Amount: in.Amount, Currency: in.Currency, Receipt: in.Receipt, Notes: in.Notes})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %v: %w", err, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("razorpay read response: %v: %w", err, domain.ErrUpstream)
	}

	if resp.StatusCode >= 300 {
		var apiErr apiError
		_ = json.Unmarshal(raw, &apiErr)
		c.logger.Error("razorpay rejected order",
			"status", resp.StatusCode,
			"code", apiErr.Error.Code,
			"description", apiErr.Error.Description,
		)
		if rejected(resp.StatusCode) {
			return nil, &OrderRejectedError{Status: resp.StatusCode, Code: apiErr.Error.Code, Description: apiErr.Error.Description}
		}
		return nil, fmt.Errorf("razorpay status %d: %s: %w", resp.StatusCode, apiErr.Error.Description, domain.ErrUpstream)
	}

	var order domain.Order
	if err := json.Unmarshal(raw, &order); err != nil {
		return nil, fmt.Errorf("razorpay decode order: %v: %w", err, domain.ErrUpstream)
	}
	return &order, nil
}
