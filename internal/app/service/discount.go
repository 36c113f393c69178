package service

import (
	"github.com/evermart/catalog-backend/internal/app/model"
)

// DiscountSnapshot is the discount configuration loaded once per request and
// applied to every row of that request, so a settings change mid-request can
// never mix precedence sources within one page.
type DiscountSnapshot struct {
	Global   float64
	Category map[uint]float64
	Brand    map[uint]float64
}

// ClampPercent clamps a discount percentage to [0, 100].
func ClampPercent(percent float64) float64 {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// ResolveDiscount picks exactly one discount source by precedence: product
// override, then primary category, then brand, then global. The first
// positive match wins; sources never stack.
func ResolveDiscount(product *model.Product, snapshot DiscountSnapshot) float64 {
	if product.DiscountPercent > 0 {
		return ClampPercent(product.DiscountPercent)
	}
	if percent, ok := snapshot.Category[product.CategoryID]; ok && percent > 0 {
		return ClampPercent(percent)
	}
	if product.BrandID != nil {
		if percent, ok := snapshot.Brand[*product.BrandID]; ok && percent > 0 {
			return ClampPercent(percent)
		}
	}
	if snapshot.Global > 0 {
		return ClampPercent(snapshot.Global)
	}
	return 0
}

// EffectivePrice applies a resolved discount to a list price. A zero discount
// leaves the price untouched.
func EffectivePrice(listPrice, discountPercent float64) float64 {
	if discountPercent <= 0 {
		return listPrice
	}
	return listPrice * (1 - discountPercent/100)
}
