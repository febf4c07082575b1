package integration

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/ordergroove-connector/internal/events"
	"github.com/odyssey-erp/ordergroove-connector/internal/ordergroove"
)

var errMissingProjection = errors.New("integration: ProductPublished event has no product projection")

// HandleProductPublished creates or updates one Ordergroove product per
// variant sku of the published product.
func (h *Hooks) HandleProductPublished(ctx context.Context, payload events.Payload) bool {
	executionID := h.newID()
	logger := h.executionLogger(executionID, payload)

	projection := payload.ProductProjection
	if projection == nil {
		logger.Error("process product published", slog.Any("error", errMissingProjection))
		return true
	}
	logger = logger.With(slog.String("product_id", projection.ID))

	var creates, updates []ordergroove.Product
	for _, variant := range projection.AllVariants() {
		if variant.SKU == "" {
			continue
		}
		product := h.toPartnerProduct(*projection, variant)
		existing := h.partner.RetrieveProduct(ctx, variant.SKU, executionID)
		switch {
		case existing.Found():
			if existing.Product.ProductID != "" {
				product.ProductID = existing.Product.ProductID
			}
			updates = append(updates, product)
		case existing.Status == http.StatusNotFound:
			creates = append(creates, product)
		default:
			logger.Error("skipping variant, ordergroove lookup failed",
				slog.String("sku", variant.SKU),
				slog.Int("status", existing.Status),
				slog.Any("error", existing.Err),
			)
		}
	}

	if len(creates) == 0 && len(updates) == 0 {
		logger.Info("published product has nothing to send to ordergroove")
		return true
	}
	if len(creates) > 0 {
		if result := h.createWithRetry(ctx, logger, creates, executionID); !result.Success {
			logger.Error("create products in ordergroove", slog.Int("status", result.Status), slog.Any("error", result.Err))
		}
	}
	if len(updates) > 0 {
		if result := h.updateWithRetry(ctx, logger, updates, executionID); !result.Success {
			logger.Error("update products in ordergroove", slog.Int("status", result.Status), slog.Any("error", result.Err))
		}
	}
	logger.Info("published product synced", slog.Int("created", len(creates)), slog.Int("updated", len(updates)))
	return true
}
