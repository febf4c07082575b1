// Package events decodes commercetools push deliveries and routes them to
// the processor registered for their message type.
package events

import (
	"github.com/odyssey-erp/ordergroove-connector/internal/commercetools"
)

// Type is the message type discriminant.
type Type string

const (
	TypeProductPublished          Type = "ProductPublished"
	TypeInventoryEntryQuantitySet Type = "InventoryEntryQuantitySet"
	TypeInventoryEntryCreated     Type = "InventoryEntryCreated"
	TypeInventoryEntryDeleted     Type = "InventoryEntryDeleted"
	TypeOrderCreated              Type = "OrderCreated"
)

// InventoryTypes lists the messages that change stock of a single sku.
var InventoryTypes = []Type{
	TypeInventoryEntryQuantitySet,
	TypeInventoryEntryCreated,
	TypeInventoryEntryDeleted,
}

// UserProvidedIdentifiers are the human-facing identifiers of the resource.
type UserProvidedIdentifiers struct {
	SKU         string `json:"sku,omitempty"`
	Key         string `json:"key,omitempty"`
	OrderNumber string `json:"orderNumber,omitempty"`
}

// Payload is a decoded message. Only the fields matching Type are populated.
type Payload struct {
	Type                            Type                     `json:"type" validate:"required"`
	ID                              string                   `json:"id,omitempty"`
	Resource                        *commercetools.Reference `json:"resource,omitempty"`
	SequenceNumber                  int64                    `json:"sequenceNumber,omitempty"`
	ResourceVersion                 int64                    `json:"resourceVersion,omitempty"`
	ResourceUserProvidedIdentifiers *UserProvidedIdentifiers `json:"resourceUserProvidedIdentifiers,omitempty"`

	ProductProjection *commercetools.ProductProjection `json:"productProjection,omitempty"`
	Order             *commercetools.Order             `json:"order,omitempty"`
}

// SKU returns the user provided sku, or "" when absent.
func (p Payload) SKU() string {
	if p.ResourceUserProvidedIdentifiers == nil {
		return ""
	}
	return p.ResourceUserProvidedIdentifiers.SKU
}
