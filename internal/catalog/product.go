package catalog

import "strconv"

const (
	// PriceUnit is the currency suffix shown next to every price.
	PriceUnit = "synapses"
	// PricelessLabel replaces the amount for products without a price.
	PricelessLabel = "priceless"
)

// Product is an immutable catalog record. A nil Price marks the product as
// priceless: it can be inspected but never added to an order.
type Product struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Price       *int   `json:"price"`
}

// Priceless reports whether the product has no price.
func (p Product) Priceless() bool {
	return p.Price == nil
}

// FormatPrice renders a price for display, e.g. "750 synapses".
func FormatPrice(price *int) string {
	if price == nil {
		return PricelessLabel
	}
	return strconv.Itoa(*price) + " " + PriceUnit
}
