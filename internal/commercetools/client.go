package commercetools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// Client reads product projections from the commercetools HTTP API.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a client authenticated with client credentials. When
// base is non-nil it is used for both token and API calls.
func NewClient(cfg Config, base *http.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	ctx := context.Background()
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	}
	return &Client{
		cfg:        cfg,
		baseURL:    fmt.Sprintf("%s/%s", cfg.apiHost(), url.PathEscape(cfg.ProjectKey)),
		httpClient: AuthConfig(cfg).Client(ctx),
		logger:     logger,
	}
}

type projectionPage struct {
	Count   int                 `json:"count"`
	Total   int                 `json:"total"`
	Results []ProductProjection `json:"results"`
}

// ProductVariantBySKU returns the published variant carrying sku. The error
// wraps ErrNotFound when no product matches.
func (c *Client) ProductVariantBySKU(ctx context.Context, sku string) (ProductVariant, error) {
	projection, err := c.ProductProjectionBySKU(ctx, sku)
	if err != nil {
		return ProductVariant{}, err
	}
	variant, ok := projection.VariantBySKU(sku)
	if !ok {
		return ProductVariant{}, fmt.Errorf("%w: sku %s", ErrNotFound, sku)
	}
	return variant, nil
}

// ProductProjectionBySKU searches the current projection containing sku.
func (c *Client) ProductProjectionBySKU(ctx context.Context, sku string) (ProductProjection, error) {
	query := url.Values{}
	query.Set("filter", fmt.Sprintf(`variants.sku:"%s"`, strings.ReplaceAll(sku, `"`, `\"`)))
	query.Set("staged", "false")
	query.Set("limit", "1")
	if c.cfg.CurrencyCode != "" {
		query.Set("priceCurrency", c.cfg.CurrencyCode)
		if c.cfg.CountryCode != "" {
			query.Set("priceCountry", c.cfg.CountryCode)
		}
		if c.cfg.DistributionChannelID != "" {
			query.Set("priceChannel", c.cfg.DistributionChannelID)
		}
	}
	endpoint := c.baseURL + "/product-projections/search?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ProductProjection{}, fmt.Errorf("commercetools: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ProductProjection{}, fmt.Errorf("commercetools: search sku %s: %w", sku, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ProductProjection{}, fmt.Errorf("%w: sku %s", ErrNotFound, sku)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return ProductProjection{}, fmt.Errorf("commercetools: search sku %s: status %d: %s", sku, resp.StatusCode, body)
	}

	var page projectionPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return ProductProjection{}, fmt.Errorf("commercetools: decode search response: %w", err)
	}
	if len(page.Results) == 0 {
		return ProductProjection{}, fmt.Errorf("%w: sku %s", ErrNotFound, sku)
	}
	c.logger.Debug("commercetools projection found", slog.String("sku", sku), slog.String("product_id", page.Results[0].ID))
	return page.Results[0], nil
}
