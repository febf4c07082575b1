package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/ordergroove-connector/internal/commercetools"
	"github.com/odyssey-erp/ordergroove-connector/internal/events"
	"github.com/odyssey-erp/ordergroove-connector/internal/ordergroove"
)

type fakePartner struct {
	products       map[string]ordergroove.Product
	retrieveStatus int
	updateStatuses []int
	createStatuses []int

	retrieved []string
	updates   [][]ordergroove.Product
	creates   [][]ordergroove.Product
}

func newFakePartner() *fakePartner {
	return &fakePartner{products: make(map[string]ordergroove.Product)}
}

func (f *fakePartner) RetrieveProduct(ctx context.Context, productID, executionID string) ordergroove.Result {
	f.retrieved = append(f.retrieved, productID)
	if f.retrieveStatus != 0 {
		return ordergroove.Result{Status: f.retrieveStatus}
	}
	product, ok := f.products[productID]
	if !ok {
		return ordergroove.Result{Status: http.StatusNotFound}
	}
	return ordergroove.Result{Success: true, Status: http.StatusOK, Product: &product}
}

func (f *fakePartner) CreateProducts(ctx context.Context, products []ordergroove.Product, executionID string) ordergroove.Result {
	f.creates = append(f.creates, products)
	return nextResult(&f.createStatuses)
}

func (f *fakePartner) UpdateProducts(ctx context.Context, products []ordergroove.Product, executionID string) ordergroove.Result {
	f.updates = append(f.updates, products)
	return nextResult(&f.updateStatuses)
}

func nextResult(statuses *[]int) ordergroove.Result {
	status := http.StatusOK
	if len(*statuses) > 0 {
		status = (*statuses)[0]
		*statuses = (*statuses)[1:]
	}
	return ordergroove.Result{Success: status >= 200 && status < 300, Status: status}
}

type fakeLookup struct {
	variants map[string]commercetools.ProductVariant
	calls    []string
}

func (f *fakeLookup) ProductVariantBySKU(ctx context.Context, sku string) (commercetools.ProductVariant, error) {
	f.calls = append(f.calls, sku)
	variant, ok := f.variants[sku]
	if !ok {
		return commercetools.ProductVariant{}, commercetools.ErrNotFound
	}
	return variant, nil
}

func stockVariant(sku string, onStock bool) commercetools.ProductVariant {
	return commercetools.ProductVariant{
		SKU:          sku,
		Availability: &commercetools.Availability{ChannelAvailability: commercetools.ChannelAvailability{IsOnStock: onStock}},
	}
}

func newTestHooks(partner PartnerCatalog, lookup VariantLookup, settings Settings) (*Hooks, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := NewHooks(logger, partner, lookup, settings)
	h.newID = func() string { return "exec-test" }
	return h, &logs
}

func countLevel(t *testing.T, logs *bytes.Buffer, level string) int {
	t.Helper()
	count := 0
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["level"] == level {
			count++
			assert.Equal(t, "exec-test", entry["execution_id"])
		}
	}
	return count
}

func inventoryPayload(sku string) events.Payload {
	return events.Payload{
		Type:                            events.TypeInventoryEntryQuantitySet,
		ResourceUserProvidedIdentifiers: &events.UserProvidedIdentifiers{SKU: sku},
	}
}

func TestInventoryMismatchPushesSingleUpdate(t *testing.T) {
	partner := newFakePartner()
	partner.products["ABC"] = ordergroove.Product{ProductID: "ABC", SKU: "ABC", Live: false, Price: decimal.NewFromInt(5)}
	lookup := &fakeLookup{variants: map[string]commercetools.ProductVariant{"ABC": stockVariant("ABC", true)}}
	h, _ := newTestHooks(partner, lookup, Settings{})

	ok := h.HandleInventoryEntry(context.Background(), inventoryPayload("ABC"))

	assert.True(t, ok)
	require.Len(t, partner.updates, 1)
	require.Len(t, partner.updates[0], 1)
	assert.True(t, partner.updates[0][0].Live)
	assert.Equal(t, "ABC", partner.updates[0][0].SKU)
	assert.True(t, decimal.NewFromInt(5).Equal(partner.updates[0][0].Price))
}

func TestInventoryMatchingFlagsSkipUpdate(t *testing.T) {
	partner := newFakePartner()
	partner.products["ABC"] = ordergroove.Product{ProductID: "ABC", SKU: "ABC", Live: true}
	lookup := &fakeLookup{variants: map[string]commercetools.ProductVariant{"ABC": stockVariant("ABC", true)}}
	h, _ := newTestHooks(partner, lookup, Settings{})

	ok := h.HandleInventoryEntry(context.Background(), inventoryPayload("ABC"))

	assert.True(t, ok)
	assert.Empty(t, partner.updates)
	assert.Equal(t, []string{"ABC"}, lookup.calls)
}

func TestInventoryRetriesOnceOnServerError(t *testing.T) {
	partner := newFakePartner()
	partner.products["ABC"] = ordergroove.Product{ProductID: "ABC", SKU: "ABC", Live: true}
	partner.updateStatuses = []int{http.StatusInternalServerError, http.StatusInternalServerError, http.StatusInternalServerError}
	lookup := &fakeLookup{variants: map[string]commercetools.ProductVariant{"ABC": stockVariant("ABC", false)}}
	h, _ := newTestHooks(partner, lookup, Settings{})

	ok := h.HandleInventoryEntry(context.Background(), inventoryPayload("ABC"))

	assert.True(t, ok)
	require.Len(t, partner.updates, 2)
	assert.False(t, partner.updates[1][0].Live)
}

func TestInventoryDoesNotRetryOtherFailures(t *testing.T) {
	for _, status := range []int{0, http.StatusBadRequest, http.StatusBadGateway, http.StatusServiceUnavailable} {
		partner := newFakePartner()
		partner.products["ABC"] = ordergroove.Product{ProductID: "ABC", SKU: "ABC", Live: true}
		partner.updateStatuses = []int{status}
		lookup := &fakeLookup{variants: map[string]commercetools.ProductVariant{"ABC": stockVariant("ABC", false)}}
		h, _ := newTestHooks(partner, lookup, Settings{})

		h.HandleInventoryEntry(context.Background(), inventoryPayload("ABC"))

		assert.Len(t, partner.updates, 1, "status %d", status)
	}
}

func TestInventoryPartnerMissSkipsLookup(t *testing.T) {
	partner := newFakePartner()
	lookup := &fakeLookup{variants: map[string]commercetools.ProductVariant{"ABC": stockVariant("ABC", true)}}
	h, _ := newTestHooks(partner, lookup, Settings{})

	ok := h.HandleInventoryEntry(context.Background(), inventoryPayload("ABC"))

	assert.True(t, ok)
	assert.Equal(t, []string{"ABC"}, partner.retrieved)
	assert.Empty(t, lookup.calls)
	assert.Empty(t, partner.updates)
}

func TestInventoryEmptySKUMakesNoCalls(t *testing.T) {
	partner := newFakePartner()
	lookup := &fakeLookup{}
	h, logs := newTestHooks(partner, lookup, Settings{})

	ok := h.HandleInventoryEntry(context.Background(), inventoryPayload(""))

	assert.True(t, ok)
	assert.Empty(t, partner.retrieved)
	assert.Empty(t, partner.updates)
	assert.Empty(t, lookup.calls)
	assert.Equal(t, 1, countLevel(t, logs, "ERROR"))
}

func TestInventorySourceLookupFailureAborts(t *testing.T) {
	partner := newFakePartner()
	partner.products["ABC"] = ordergroove.Product{ProductID: "ABC", SKU: "ABC", Live: true}
	lookup := &fakeLookup{variants: map[string]commercetools.ProductVariant{}}
	h, logs := newTestHooks(partner, lookup, Settings{})

	ok := h.HandleInventoryEntry(context.Background(), inventoryPayload("ABC"))

	assert.True(t, ok)
	assert.Empty(t, partner.updates)
	assert.Equal(t, 1, countLevel(t, logs, "ERROR"))
}

func TestInventoryUsesSupplyChannel(t *testing.T) {
	partner := newFakePartner()
	partner.products["ABC"] = ordergroove.Product{ProductID: "ABC", SKU: "ABC", Live: false}
	variant := commercetools.ProductVariant{
		SKU: "ABC",
		Availability: &commercetools.Availability{
			Channels: map[string]commercetools.ChannelAvailability{"supply-1": {IsOnStock: true}},
		},
	}
	lookup := &fakeLookup{variants: map[string]commercetools.ProductVariant{"ABC": variant}}
	h, _ := newTestHooks(partner, lookup, Settings{InventorySupplyChannelID: "supply-1"})

	h.HandleInventoryEntry(context.Background(), inventoryPayload("ABC"))

	require.Len(t, partner.updates, 1)
	assert.True(t, partner.updates[0][0].Live)
}

func TestOrderCreatedReconcilesDistinctSKUs(t *testing.T) {
	partner := newFakePartner()
	partner.products["A"] = ordergroove.Product{ProductID: "A", SKU: "A", Live: true}
	partner.products["B"] = ordergroove.Product{ProductID: "B", SKU: "B", Live: true}
	lookup := &fakeLookup{variants: map[string]commercetools.ProductVariant{
		"A": stockVariant("A", false),
		"B": stockVariant("B", true),
	}}
	h, _ := newTestHooks(partner, lookup, Settings{})
	payload := events.Payload{
		Type: events.TypeOrderCreated,
		Order: &commercetools.Order{
			ID:            "order-1",
			InventoryMode: commercetools.InventoryModeReserveOnOrder,
			LineItems: []commercetools.LineItem{
				{Variant: commercetools.ProductVariant{SKU: "A"}},
				{Variant: commercetools.ProductVariant{SKU: "B"}},
				{Variant: commercetools.ProductVariant{SKU: "A"}},
				{Variant: commercetools.ProductVariant{}},
			},
		},
	}

	ok := h.HandleOrderCreated(context.Background(), payload)

	assert.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, partner.retrieved)
	require.Len(t, partner.updates, 1)
	assert.Equal(t, "A", partner.updates[0][0].SKU)
	assert.False(t, partner.updates[0][0].Live)
}

func TestOrderCreatedWithoutStockEffectIsSkipped(t *testing.T) {
	partner := newFakePartner()
	h, _ := newTestHooks(partner, &fakeLookup{}, Settings{})
	payload := events.Payload{
		Type: events.TypeOrderCreated,
		Order: &commercetools.Order{
			InventoryMode: commercetools.InventoryModeNone,
			LineItems:     []commercetools.LineItem{{Variant: commercetools.ProductVariant{SKU: "A"}}},
		},
	}

	assert.True(t, h.HandleOrderCreated(context.Background(), payload))
	assert.Empty(t, partner.retrieved)
}

func TestOrderCreatedWithoutOrderLogsError(t *testing.T) {
	partner := newFakePartner()
	h, logs := newTestHooks(partner, &fakeLookup{}, Settings{})

	assert.True(t, h.HandleOrderCreated(context.Background(), events.Payload{Type: events.TypeOrderCreated}))
	assert.Empty(t, partner.retrieved)
	assert.Equal(t, 1, countLevel(t, logs, "ERROR"))
}

func TestRegisterBindsAllTypes(t *testing.T) {
	d := events.NewDispatcher(nil, nil)
	h, _ := newTestHooks(newFakePartner(), &fakeLookup{}, Settings{})

	h.Register(d)

	for _, eventType := range append([]events.Type{events.TypeProductPublished, events.TypeOrderCreated}, events.InventoryTypes...) {
		assert.True(t, d.Handles(eventType), string(eventType))
	}
}
