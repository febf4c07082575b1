package integration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/odyssey-erp/ordergroove-connector/internal/commercetools"
	"github.com/odyssey-erp/ordergroove-connector/internal/events"
	"github.com/odyssey-erp/ordergroove-connector/internal/ordergroove"
)

// HandleInventoryEntry keeps the Ordergroove live flag of the event's sku in
// line with commercetools stock. Failures are logged; the result is always true.
func (h *Hooks) HandleInventoryEntry(ctx context.Context, payload events.Payload) bool {
	executionID := h.newID()
	logger := h.executionLogger(executionID, payload)

	sku := payload.SKU()
	if sku == "" {
		logger.Error("inventory event has no sku", slog.Any("error", fmt.Errorf("integration: sku missing from %s event %s", payload.Type, payload.ID)))
		return true
	}
	h.reconcileSKU(ctx, logger.With(slog.String("sku", sku)), sku, executionID)
	return true
}

// reconcileSKU compares the Ordergroove live flag with commercetools stock and
// pushes an update on mismatch.
func (h *Hooks) reconcileSKU(ctx context.Context, logger *slog.Logger, sku, executionID string) {
	current := h.partner.RetrieveProduct(ctx, sku, executionID)
	if !current.Found() {
		logger.Info("product does not exist in ordergroove, nothing to reconcile", slog.Int("status", current.Status))
		return
	}

	variant, err := h.variants.ProductVariantBySKU(ctx, sku)
	if err != nil {
		logger.Error("lookup commercetools variant", slog.Any("error", err))
		return
	}
	onStock := commercetools.IsOnStock(variant.Availability.ForChannel(h.settings.InventorySupplyChannelID))

	product := *current.Product
	if product.Live == onStock {
		logger.Info("inventory does not need an update in ordergroove", slog.Bool("live", product.Live))
		return
	}

	product.Live = onStock
	result := h.updateWithRetry(ctx, logger, []ordergroove.Product{product}, executionID)
	if !result.Success {
		logger.Error("update ordergroove live flag", slog.Int("status", result.Status), slog.Any("error", result.Err))
		return
	}
	logger.Info("ordergroove live flag updated", slog.Bool("live", onStock))
}
