// Package commercetools reads product and stock state from the commercetools
// HTTP API and models the message payloads it pushes.
package commercetools

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no variant carries the requested sku.
var ErrNotFound = errors.New("commercetools: product variant not found")

// LocalizedString maps locale tags to text.
type LocalizedString map[string]string

// Reference points at another resource.
type Reference struct {
	TypeID string `json:"typeId"`
	ID     string `json:"id"`
}

// Money is a cent-precision amount.
type Money struct {
	Type           string `json:"type,omitempty"`
	CurrencyCode   string `json:"currencyCode"`
	CentAmount     int64  `json:"centAmount"`
	FractionDigits int32  `json:"fractionDigits"`
}

// Decimal converts the cent amount into a decimal value.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.CentAmount, -m.FractionDigits)
}

// Price is a variant price, optionally scoped by country and channel.
type Price struct {
	ID      string     `json:"id,omitempty"`
	Value   Money      `json:"value"`
	Country string     `json:"country,omitempty"`
	Channel *Reference `json:"channel,omitempty"`
}

// Image is a variant image.
type Image struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// ChannelAvailability is the stock state for one supply channel.
type ChannelAvailability struct {
	IsOnStock         bool   `json:"isOnStock"`
	RestockableInDays *int   `json:"restockableInDays,omitempty"`
	AvailableQuantity *int64 `json:"availableQuantity,omitempty"`
	ID                string `json:"id,omitempty"`
	Version           int64  `json:"version,omitempty"`
}

// Availability is the aggregated stock state of a variant.
type Availability struct {
	ChannelAvailability
	Channels map[string]ChannelAvailability `json:"channels,omitempty"`
}

// ForChannel narrows the availability to one supply channel. An empty id or
// an unknown channel returns the receiver.
func (a *Availability) ForChannel(channelID string) *Availability {
	if a == nil || channelID == "" {
		return a
	}
	ch, ok := a.Channels[channelID]
	if !ok {
		return a
	}
	return &Availability{ChannelAvailability: ch}
}

// ProductVariant is one sellable variant of a product.
type ProductVariant struct {
	ID           int64         `json:"id"`
	SKU          string        `json:"sku,omitempty"`
	Key          string        `json:"key,omitempty"`
	Prices       []Price       `json:"prices,omitempty"`
	Price        *Price        `json:"price,omitempty"`
	Images       []Image       `json:"images,omitempty"`
	Availability *Availability `json:"availability,omitempty"`
}

// ProductProjection is the current or staged view of a product.
type ProductProjection struct {
	ID            string           `json:"id"`
	Key           string           `json:"key,omitempty"`
	Version       int64            `json:"version,omitempty"`
	Name          LocalizedString  `json:"name"`
	Slug          LocalizedString  `json:"slug"`
	Description   LocalizedString  `json:"description,omitempty"`
	MasterVariant ProductVariant   `json:"masterVariant"`
	Variants      []ProductVariant `json:"variants"`
	Published     bool             `json:"published,omitempty"`
}

// AllVariants returns the master variant followed by the other variants.
func (p ProductProjection) AllVariants() []ProductVariant {
	out := make([]ProductVariant, 0, len(p.Variants)+1)
	out = append(out, p.MasterVariant)
	return append(out, p.Variants...)
}

// VariantBySKU finds the variant carrying sku.
func (p ProductProjection) VariantBySKU(sku string) (ProductVariant, bool) {
	for _, v := range p.AllVariants() {
		if v.SKU == sku {
			return v, true
		}
	}
	return ProductVariant{}, false
}

// InventoryMode controls how an order affects stock.
type InventoryMode string

const (
	InventoryModeNone           InventoryMode = "None"
	InventoryModeTrackOnly      InventoryMode = "TrackOnly"
	InventoryModeReserveOnOrder InventoryMode = "ReserveOnOrder"
)

// LineItem is one product line of an order.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      LocalizedString `json:"name,omitempty"`
	Variant   ProductVariant  `json:"variant"`
	Quantity  int64           `json:"quantity"`
}

// Order is the subset of an order used by the connector.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber,omitempty"`
	InventoryMode InventoryMode `json:"inventoryMode,omitempty"`
	LineItems     []LineItem    `json:"lineItems"`
}

// AffectsStock reports whether the order changed inventory quantities.
func (o Order) AffectsStock() bool {
	return o.InventoryMode == InventoryModeTrackOnly || o.InventoryMode == InventoryModeReserveOnOrder
}
