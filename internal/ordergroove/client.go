package ordergroove

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	opRetrieve = "retrieve"
	opCreate   = "create"
	opUpdate   = "update"

	maxBodyBytes = 1 << 20
	logBodyBytes = 512
)

// Observer receives one notification per finished API call.
type Observer interface {
	ObservePartnerCall(operation string, status int)
}

// ClientConfig configures the Ordergroove client.
type ClientConfig struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client wraps interactions with the Ordergroove product API.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	logger     *slog.Logger
	observer   Observer
}

// NewClient constructs a new client. The request headers are built once here.
func NewClient(cfg ClientConfig, logger *slog.Logger, observer Observer) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	headers := http.Header{}
	headers.Set("x-api-key", cfg.APIKey)
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		headers:    headers,
		httpClient: httpClient,
		logger:     logger,
		observer:   observer,
	}
}

// RetrieveProduct fetches a single product by its Ordergroove identifier.
func (c *Client) RetrieveProduct(ctx context.Context, productID, executionID string) Result {
	logger := c.logger.With(slog.String("execution_id", executionID), slog.String("product_id", productID))
	logger.Info("retrieving product from ordergroove")

	endpoint := fmt.Sprintf("%s/products/%s/", c.baseURL, url.PathEscape(productID))
	status, body, err := c.do(ctx, opRetrieve, http.MethodGet, endpoint, nil)
	result := Result{Status: status}
	if err != nil {
		result.Err = err
		logger.Error("retrieve product from ordergroove", slog.Int("status", status), slog.Any("error", err))
		return result
	}

	var remote remoteProduct
	if err := json.Unmarshal(body, &remote); err != nil {
		result.Err = fmt.Errorf("ordergroove: decode product: %w", err)
		logger.Error("retrieve product from ordergroove", slog.Int("status", status), slog.Any("error", result.Err))
		return result
	}
	product := remote.toProduct()
	result.Success = true
	result.Product = &product
	logger.Info("retrieved product from ordergroove", slog.Bool("live", product.Live))
	return result
}

// CreateProducts creates products in one batch call.
func (c *Client) CreateProducts(ctx context.Context, products []Product, executionID string) Result {
	return c.sendBatch(ctx, opCreate, http.MethodPost, "/products-batch/create/?force_all_fields=false", products, executionID)
}

// UpdateProducts updates products in one batch call.
func (c *Client) UpdateProducts(ctx context.Context, products []Product, executionID string) Result {
	return c.sendBatch(ctx, opUpdate, http.MethodPatch, "/products-batch/update/?force_all_fields=false", products, executionID)
}

func (c *Client) sendBatch(ctx context.Context, op, method, path string, products []Product, executionID string) Result {
	logger := c.logger.With(slog.String("execution_id", executionID), slog.String("operation", op))
	logger.Info("sending product batch to ordergroove", slog.Int("count", len(products)), slog.Any("skus", skus(products)))

	status, body, err := c.do(ctx, op, method, c.baseURL+path, products)
	result := Result{Status: status}
	if err != nil {
		result.Err = err
		logger.Error("product batch to ordergroove failed", slog.Int("status", status), slog.Any("error", err))
		return result
	}
	result.Success = true
	logger.Info("product batch accepted by ordergroove", slog.Int("status", status))
	logger.Debug("ordergroove batch response", slog.String("body", truncate(body)))
	return result
}

// do never panics and reports non-2xx responses as errors alongside their status.
func (c *Client) do(ctx context.Context, op, method, endpoint string, payload any) (int, []byte, error) {
	status, body, err := c.roundTrip(ctx, method, endpoint, payload)
	if c.observer != nil {
		c.observer.ObservePartnerCall(op, status)
	}
	return status, body, err
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, payload any) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("ordergroove: encode body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("ordergroove: build request: %w", err)
	}
	for key, values := range c.headers {
		req.Header[key] = append([]string(nil), values...)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("ordergroove: %s %s: %w", method, endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("ordergroove: read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, fmt.Errorf("ordergroove: status %d: %s", resp.StatusCode, truncate(body))
	}
	return resp.StatusCode, body, nil
}

func skus(products []Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.SKU)
	}
	return out
}

func truncate(body []byte) string {
	if len(body) > logBodyBytes {
		return string(body[:logBodyBytes]) + "..."
	}
	return string(body)
}
