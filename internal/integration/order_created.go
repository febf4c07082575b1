package integration

import (
	"context"
	"errors"
	"log/slog"

	"github.com/odyssey-erp/ordergroove-connector/internal/events"
)

var errMissingOrder = errors.New("integration: OrderCreated event has no order")

// HandleOrderCreated reconciles every sku of an order whose inventory mode
// changes stock.
func (h *Hooks) HandleOrderCreated(ctx context.Context, payload events.Payload) bool {
	executionID := h.newID()
	logger := h.executionLogger(executionID, payload)

	order := payload.Order
	if order == nil {
		logger.Error("process order created", slog.Any("error", errMissingOrder))
		return true
	}
	logger = logger.With(slog.String("order_id", order.ID), slog.String("inventory_mode", string(order.InventoryMode)))
	if !order.AffectsStock() {
		logger.Info("order does not affect stock, skipping")
		return true
	}

	seen := make(map[string]struct{}, len(order.LineItems))
	for _, item := range order.LineItems {
		sku := item.Variant.SKU
		if sku == "" {
			continue
		}
		if _, dup := seen[sku]; dup {
			continue
		}
		seen[sku] = struct{}{}
		h.reconcileSKU(ctx, logger.With(slog.String("sku", sku)), sku, executionID)
	}
	return true
}
