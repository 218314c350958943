package cartapi

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

	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

const (
	cartPath                   = "cart"
	defaultTimeout             = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errBaseURLRequired = errors.New("cart api base url is required")

// Client submits finalized combos to the storefront's cart backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTimeout overrides the request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the cart API client.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Receipt is what the cart backend reports after accepting an item.
type Receipt struct {
	StatusCode int    `json:"-"`
	CartItemID string `json:"cart_item_id,omitempty"`
}

// AddToCart posts payload as JSON to <base>/cart.
func (c *Client) AddToCart(ctx context.Context, payload any) (*Receipt, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart api client not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal cart payload")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(cartPath), bytes.NewReader(body))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build cart request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "cart request timed out")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute cart request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "cart request failed")
	}

	receipt := &Receipt{StatusCode: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	receipt.CartItemID = extractID(raw)
	return receipt, nil
}

// extractID picks the item id from either a bare object or a {"data": {...}}
// envelope. The cart backend's reply body is informational only.
func extractID(raw []byte) string {
	var body struct {
		ID   any `json:"id"`
		Data struct {
			ID any `json:"id"`
		} `json:"data"`
	}
	if len(bytes.TrimSpace(raw)) == 0 || json.Unmarshal(raw, &body) != nil {
		return ""
	}
	for _, candidate := range []any{body.Data.ID, body.ID} {
		switch v := candidate.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
