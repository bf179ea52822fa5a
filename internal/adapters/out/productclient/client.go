// Package productclient talks to the product service that owns stock levels.
// It implements the inventory coordinator port over the service's HTTP API.
package productclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// Client implements ports.InventoryCoordinator against the product service.
//
// Reserve and Release mirror the service's stock endpoints. The service keys
// releases by product and quantity and treats repeated releases of the same
// hold as no-ops, which keeps compensation retries safe.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an inventory client for the product service at baseURL.
// The passed http.Client controls timeouts and pooling; pass nil for defaults.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// stockItem is one product line in a reserve or release request.
type stockItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type stockRequest struct {
	Items []stockItem `json:"items"`
}

// Reserve places a stock hold for all items at once.
// Returns an error wrapping ports.ErrInsufficientStock when the service
// rejects the hold for lack of stock.
func (c *Client) Reserve(ctx context.Context, items []order.Item) error {
	status, err := c.post(ctx, "/api/v1/stock/reserve", items)
	if err != nil {
		return err
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusConflict:
		return fmt.Errorf("%w: product service rejected reservation", ports.ErrInsufficientStock)
	default:
		return fmt.Errorf("product service reserve returned status %d", status)
	}
}

// Release returns previously held stock.
// Returns an error wrapping ports.ErrNotReserved when no matching hold exists.
func (c *Client) Release(ctx context.Context, items []order.Item) error {
	status, err := c.post(ctx, "/api/v1/stock/release", items)
	if err != nil {
		return err
	}

	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: product service has no matching hold", ports.ErrNotReserved)
	default:
		return fmt.Errorf("product service release returned status %d", status)
	}
}

func (c *Client) post(ctx context.Context, path string, items []order.Item) (int, error) {
	payload := stockRequest{Items: make([]stockItem, 0, len(items))}
	for _, item := range items {
		payload.Items = append(payload.Items, stockItem{
			ProductID: item.ProductID().String(),
			Quantity:  item.Quantity(),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	// Drain so the connection goes back to the pool.
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}
