package commercetools

// IsOnStock reports whether the availability indicates sellable stock.
func IsOnStock(availability *Availability) bool {
	if availability == nil {
		return false
	}
	if availability.IsOnStock {
		return true
	}
	return availability.AvailableQuantity != nil && *availability.AvailableQuantity > 0
}
