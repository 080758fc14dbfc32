package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"tienda-storefront/internal/auth"
	"tienda-storefront/internal/orders"
	"tienda-storefront/internal/product"
)

const (
	requestTimeout = 5 * time.Second

	// Client-side throttle matching the backend's frontend rate tier.
	limitFrontend = rate.Limit(20)
	burstFrontend = 40
)

// Client encapsulates HTTP interaction with the storefront backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     auth.TokenSource
	limiter    *rate.Limiter
}

// NewClient creates a client for the backend at baseURL. The token source may
// be nil for anonymous catalog browsing.
func NewClient(baseURL string, tokens auth.TokenSource) *Client {
	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	return &Client{
		baseURL:    base,
		httpClient: &http.Client{Timeout: requestTimeout},
		tokens:     tokens,
		limiter:    rate.NewLimiter(limitFrontend, burstFrontend),
	}
}

// CreateOrder submits a new order and returns the canonical record the
// backend assigned (id, status, timestamp).
func (c *Client) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.Order, error) {
	var order orders.Order
	if err := c.do(ctx, http.MethodPost, "/orders", input, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetMyOrders lists the authenticated shopper's orders.
func (c *Client) GetMyOrders(ctx context.Context) ([]orders.Order, error) {
	var list []orders.Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetOrderByID(ctx context.Context, id string) (*orders.Order, error) {
	var order orders.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder requests cancellation and returns the updated record. A
// non-cancellable order comes back as a RequestError from the backend.
func (c *Client) CancelOrder(ctx context.Context, id string) (*orders.Order, error) {
	var order orders.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+id+"/cancel", nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus drives the administrative status endpoint. It is part of
// the orders resource contract but not exposed through the shopper session.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status orders.Status) (*orders.Order, error) {
	body := map[string]orders.Status{"status": status}
	var order orders.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+id+"/status", body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetProducts(ctx context.Context) ([]product.Product, error) {
	var list []product.Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetProductByID(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+id, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token()
		switch {
		case err == nil:
			req.Header.Set("Authorization", "Bearer "+token)
		case errors.Is(err, auth.ErrNoToken):
			// Anonymous request; protected routes will answer 401.
		default:
			return fmt.Errorf("session token: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError normalizes a rejection body into a RequestError. The message
// field arrives either as one string or as a list.
func decodeError(resp *http.Response) error {
	reqErr := &orders.RequestError{StatusCode: resp.StatusCode}

	var body struct {
		Message orders.MessageList `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		reqErr.Messages = body.Message
	}
	return reqErr
}
