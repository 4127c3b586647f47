package checkout

import (
	"storefront/domain"
	"storefront/pkg/money"
)

// CalculateTotals sums price x quantity over items and applies pct percent
// off, rounded half up to the cent. pct of zero means no coupon.
func CalculateTotals(items []domain.OrderItem, pct int) domain.Totals {
	var subtotal money.Money
	for _, it := range items {
		subtotal += it.Price.Mul(it.Quantity)
	}

	var discount money.Money
	if pct > 0 {
		discount = subtotal.Percent(pct)
	}

	return domain.Totals{
		Subtotal:        subtotal,
		DiscountPercent: pct,
		Discount:        discount,
		Total:           subtotal - discount,
	}
}
