package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/catalog"
)

const (
	productPath     = "/product"
	orderPath       = "/order"
	contentTypeJSON = "application/json"
	healthTimeout   = 5 * time.Second
)

// Client talks to the shop backend: the product catalog and the order
// submission endpoint. Image paths in catalog responses are relative and
// get prefixed with the CDN base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cdnURL     string
}

func NewClient(baseURL, cdnURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		cdnURL:     cdnURL,
	}
}

type listResponse struct {
	Total int               `json:"total"`
	Items []catalog.Product `json:"items"`
}

// OrderPayload is the submission request body.
type OrderPayload struct {
	Payment string   `json:"payment"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Total   int      `json:"total"`
	Items   []string `json:"items"`
}

// OrderResult is the backend's confirmation, including the charged total.
type OrderResult struct {
	ID    string `json:"id"`
	Total int    `json:"total"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// FetchCatalog retrieves the full product list in server order.
func (c *Client) FetchCatalog(ctx context.Context) ([]catalog.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+productPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}

	products := make([]catalog.Product, 0, len(list.Items))
	for _, item := range list.Items {
		item.Image = c.cdnURL + item.Image
		products = append(products, item)
	}
	return products, nil
}

// SubmitOrder posts the completed order and returns the confirmation.
func (c *Client) SubmitOrder(ctx context.Context, payload OrderPayload) (OrderResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return OrderResult{}, fmt.Errorf("marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+orderPath, bytes.NewReader(body))
	if err != nil {
		return OrderResult{}, fmt.Errorf("build order request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return OrderResult{}, fmt.Errorf("submit order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var apiErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return OrderResult{}, fmt.Errorf("submit order: %s", apiErr.Error)
		}
		return OrderResult{}, fmt.Errorf("submit order: unexpected status %d", resp.StatusCode)
	}

	var result OrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return OrderResult{}, fmt.Errorf("decode order response: %w", err)
	}
	return result, nil
}

// Health reports whether the shop backend is reachable. Used by the
// /healthz endpoint.
func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+productPath, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("shop api unhealthy: status %d", resp.StatusCode)
	}
	return nil
}
