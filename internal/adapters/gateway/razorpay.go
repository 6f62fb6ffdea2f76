package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/manan0901/Vibecoder-sub002/internal/ports"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// RazorpayClient talks to the hosted checkout provider's REST API using
// key-id/key-secret basic auth. All calls carry the client timeout so a slow
// gateway cannot hold a request handler open indefinitely.
type RazorpayClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

type RazorpayConfig struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	Timeout   time.Duration
}

func NewRazorpayClient(cfg RazorpayConfig) *RazorpayClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RazorpayClient{
		baseURL:    baseURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *RazorpayClient) KeyID() string { return c.keyID }

type orderEntity struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type refundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]string) (ports.GatewayOrder, error) {
	body := map[string]any{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		body["notes"] = notes
	}
	var entity orderEntity
	if err := c.do(ctx, http.MethodPost, "/orders", body, &entity); err != nil {
		return ports.GatewayOrder{}, err
	}
	return ports.GatewayOrder{
		OrderID:  entity.ID,
		Amount:   entity.Amount,
		Currency: entity.Currency,
		Receipt:  entity.Receipt,
		Status:   entity.Status,
	}, nil
}

func (c *RazorpayClient) FetchOrder(ctx context.Context, orderID string) (ports.GatewayOrder, error) {
	var entity orderEntity
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &entity); err != nil {
		return ports.GatewayOrder{}, err
	}
	return ports.GatewayOrder{
		OrderID:  entity.ID,
		Amount:   entity.Amount,
		Currency: entity.Currency,
		Receipt:  entity.Receipt,
		Status:   entity.Status,
	}, nil
}

func (c *RazorpayClient) CreateRefund(ctx context.Context, paymentID string, amount int64, notes map[string]string) (ports.GatewayRefund, error) {
	body := map[string]any{"amount": amount}
	if len(notes) > 0 {
		body["notes"] = notes
	}
	var entity refundEntity
	if err := c.do(ctx, http.MethodPost, "/payments/"+paymentID+"/refund", body, &entity); err != nil {
		return ports.GatewayRefund{}, err
	}
	return ports.GatewayRefund{
		RefundID: entity.ID,
		OrderID:  entity.PaymentID,
		Amount:   entity.Amount,
		Status:   entity.Status,
	}, nil
}

func (c *RazorpayClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		blob, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(blob)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway %s %s: status %d: %s", method, path, resp.StatusCode, string(detail))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
