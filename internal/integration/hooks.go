// Package integration turns commercetools messages into Ordergroove product
// updates.
package integration

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/odyssey-erp/ordergroove-connector/internal/commercetools"
	"github.com/odyssey-erp/ordergroove-connector/internal/events"
	"github.com/odyssey-erp/ordergroove-connector/internal/ordergroove"
)

// PartnerCatalog exposes the Ordergroove product operations.
type PartnerCatalog interface {
	RetrieveProduct(ctx context.Context, productID, executionID string) ordergroove.Result
	CreateProducts(ctx context.Context, products []ordergroove.Product, executionID string) ordergroove.Result
	UpdateProducts(ctx context.Context, products []ordergroove.Product, executionID string) ordergroove.Result
}

// VariantLookup resolves a sku to its commercetools variant.
type VariantLookup interface {
	ProductVariantBySKU(ctx context.Context, sku string) (commercetools.ProductVariant, error)
}

// Settings carries the locale and channel values used when mapping products.
type Settings struct {
	LanguageCode             string
	CurrencyCode             string
	CountryCode              string
	DistributionChannelID    string
	InventorySupplyChannelID string
	ProductStoreURL          string
}

// Hooks holds the processors registered on the event dispatcher.
type Hooks struct {
	logger   *slog.Logger
	partner  PartnerCatalog
	variants VariantLookup
	settings Settings
	newID    func() string
}

// NewHooks constructs integration hooks.
func NewHooks(logger *slog.Logger, partner PartnerCatalog, variants VariantLookup, settings Settings) *Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hooks{
		logger:   logger,
		partner:  partner,
		variants: variants,
		settings: settings,
		newID:    uuid.NewString,
	}
}

// Register binds every processor on d.
func (h *Hooks) Register(d *events.Dispatcher) {
	d.Register(h.HandleProductPublished, events.TypeProductPublished)
	d.Register(h.HandleInventoryEntry, events.InventoryTypes...)
	d.Register(h.HandleOrderCreated, events.TypeOrderCreated)
}

func (h *Hooks) executionLogger(executionID string, payload events.Payload) *slog.Logger {
	return h.logger.With(
		slog.String("execution_id", executionID),
		slog.String("event_type", string(payload.Type)),
	)
}

// updateWithRetry pushes products and repeats the call once when Ordergroove
// answers 500. The second result is not inspected.
func (h *Hooks) updateWithRetry(ctx context.Context, logger *slog.Logger, products []ordergroove.Product, executionID string) ordergroove.Result {
	result := h.partner.UpdateProducts(ctx, products, executionID)
	if !result.Success && result.Status == http.StatusInternalServerError {
		logger.Warn("ordergroove update returned 500, retrying once")
		h.partner.UpdateProducts(ctx, products, executionID)
	}
	return result
}

func (h *Hooks) createWithRetry(ctx context.Context, logger *slog.Logger, products []ordergroove.Product, executionID string) ordergroove.Result {
	result := h.partner.CreateProducts(ctx, products, executionID)
	if !result.Success && result.Status == http.StatusInternalServerError {
		logger.Warn("ordergroove create returned 500, retrying once")
		h.partner.CreateProducts(ctx, products, executionID)
	}
	return result
}
