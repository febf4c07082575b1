// Package ordergroove talks to the Ordergroove product API.
package ordergroove

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is the Ordergroove view of a sellable variant.
type Product struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Live      bool            `json:"live"`
	ImageURL  string          `json:"image_url"`
	DetailURL string          `json:"detail_url"`
}

// MarshalJSON sends the price as a JSON number, which is what the batch
// endpoints accept.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain: plain(p), Price: json.Number(p.Price.String())})
}

// remoteProduct mirrors the body of GET /products/{id}/.
type remoteProduct struct {
	ExternalProductID string          `json:"external_product_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	Live              bool            `json:"live"`
	ImageURL          string          `json:"image_url"`
	DetailURL         string          `json:"detail_url"`
}

func (r remoteProduct) toProduct() Product {
	return Product{
		ProductID: r.ExternalProductID,
		SKU:       r.SKU,
		Name:      r.Name,
		Price:     r.Price,
		Live:      r.Live,
		ImageURL:  r.ImageURL,
		DetailURL: r.DetailURL,
	}
}

// Result is the outcome of every Ordergroove call. Transport failures carry
// Status 0.
type Result struct {
	Success bool
	Status  int
	Product *Product
	Err     error
}

// Found reports whether the call succeeded and returned a product.
func (r Result) Found() bool {
	return r.Success && r.Product != nil
}
