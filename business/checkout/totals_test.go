package checkout

import (
	"testing"

	"storefront/domain"
	"storefront/pkg/money"

	"github.com/stretchr/testify/assert"
)

func item(price string, qty int) domain.OrderItem {
	m, err := money.Parse(price)
	if err != nil {
		panic(err)
	}
	return domain.OrderItem{Price: m, Quantity: qty}
}

func TestCalculateTotalsExample(t *testing.T) {
	totals := CalculateTotals([]domain.OrderItem{item("100.00", 1)}, 20)

	assert.Equal(t, "100.00", totals.Subtotal.String())
	assert.Equal(t, "20.00", totals.Discount.String())
	assert.Equal(t, "80.00", totals.Total.String())
	assert.Equal(t, 20, totals.DiscountPercent)
}

func TestCalculateTotalsNoCoupon(t *testing.T) {
	totals := CalculateTotals([]domain.OrderItem{item("19.99", 3), item("0.01", 1)}, 0)

	assert.Equal(t, money.Money(5998), totals.Subtotal)
	assert.Equal(t, money.Money(0), totals.Discount)
	assert.Equal(t, totals.Subtotal, totals.Total)
}

func TestCalculateTotalsEmpty(t *testing.T) {
	totals := CalculateTotals(nil, 50)
	assert.Equal(t, domain.Totals{DiscountPercent: 50}, totals)
}

func TestCalculateTotalsFloatTraps(t *testing.T) {
	// 0.1 + 0.2 style sums must come out exact.
	totals := CalculateTotals([]domain.OrderItem{item("0.10", 1), item("0.20", 1)}, 0)
	assert.Equal(t, "0.30", totals.Total.String())

	totals = CalculateTotals([]domain.OrderItem{item("9.99", 1)}, 15)
	assert.Equal(t, "1.50", totals.Discount.String()) // 1.4985
	assert.Equal(t, "8.49", totals.Total.String())
}

func TestCalculateTotalsInvariant(t *testing.T) {
	prices := []string{"0.01", "0.99", "1.05", "12.34", "99.99", "250.00"}
	for _, pct := range []int{0, 1, 5, 15, 33, 50, 99, 100} {
		var items []domain.OrderItem
		for i, p := range prices {
			items = append(items, item(p, i+1))
		}

		totals := CalculateTotals(items, pct)

		var want money.Money
		for _, it := range items {
			want += it.Price * money.Money(it.Quantity)
		}
		assert.Equal(t, want, totals.Subtotal)
		assert.Equal(t, totals.Subtotal-totals.Discount, totals.Total)
		assert.Equal(t, want.Percent(pct), totals.Discount)
		assert.False(t, totals.Total.IsNegative())
	}
}
