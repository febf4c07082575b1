package integration

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/odyssey-erp/ordergroove-connector/internal/commercetools"
	"github.com/odyssey-erp/ordergroove-connector/internal/ordergroove"
)

const slugPlaceholder = "[SLUG]"

// toPartnerProduct maps one commercetools variant onto an Ordergroove product.
func (h *Hooks) toPartnerProduct(projection commercetools.ProductProjection, variant commercetools.ProductVariant) ordergroove.Product {
	product := ordergroove.Product{
		ProductID: variant.SKU,
		SKU:       variant.SKU,
		Name:      localized(projection.Name, h.settings.LanguageCode),
		Live:      commercetools.IsOnStock(variant.Availability.ForChannel(h.settings.InventorySupplyChannelID)),
		DetailURL: detailURL(h.settings.ProductStoreURL, localized(projection.Slug, h.settings.LanguageCode)),
	}
	if price, ok := selectPrice(variant, h.settings); ok {
		product.Price = price.Value.Decimal()
	} else {
		product.Price = decimal.Zero
	}
	if len(variant.Images) > 0 {
		product.ImageURL = variant.Images[0].URL
	}
	return product
}

// localized returns the text for the preferred locale, falling back to the
// closest matching locale and then to the first locale in sorted order.
func localized(values commercetools.LocalizedString, preferred string) string {
	if len(values) == 0 {
		return ""
	}
	if text, ok := values[preferred]; ok {
		return text
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tags := make([]language.Tag, 0, len(keys))
	tagKeys := make([]string, 0, len(keys))
	for _, key := range keys {
		tag, err := language.Parse(key)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		tagKeys = append(tagKeys, key)
	}
	if len(tags) == 0 {
		return values[keys[0]]
	}
	_, index, _ := language.NewMatcher(tags).Match(language.Make(preferred))
	return values[tagKeys[index]]
}

// selectPrice picks the price for the configured currency, preferring an
// exact country and channel match over generic prices.
func selectPrice(variant commercetools.ProductVariant, settings Settings) (commercetools.Price, bool) {
	if variant.Price != nil {
		return *variant.Price, true
	}
	best, bestScore := -1, -1
	fallback := -1
	for i, price := range variant.Prices {
		if !strings.EqualFold(price.Value.CurrencyCode, settings.CurrencyCode) {
			continue
		}
		if fallback < 0 {
			fallback = i
		}
		score := 0
		switch {
		case price.Country == "":
		case strings.EqualFold(price.Country, settings.CountryCode):
			score += 2
		default:
			continue
		}
		switch {
		case price.Channel == nil:
		case price.Channel.ID == settings.DistributionChannelID:
			score++
		default:
			continue
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	switch {
	case best >= 0:
		return variant.Prices[best], true
	case fallback >= 0:
		return variant.Prices[fallback], true
	default:
		return commercetools.Price{}, false
	}
}

func detailURL(storeURL, slug string) string {
	if storeURL == "" {
		return ""
	}
	return strings.ReplaceAll(storeURL, slugPlaceholder, slug)
}
