package checkout

import (
	"fmt"
	"strings"

	"storefront/domain"
)

const SubjectOrderConfirmed = "Your order is confirmed"

func orderConfirmationBody(order domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you for your order #%d.</br></br>", order.ID)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "%d x %s", it.Quantity, it.ProductName)
		if it.Size != "" || it.Color != "" {
			fmt.Fprintf(&b, " (%s %s)", it.Size, it.Color)
		}
		fmt.Fprintf(&b, " - %s</br>", it.Price.Mul(it.Quantity))
	}
	fmt.Fprintf(&b, "</br>Subtotal: %s</br>", order.Subtotal)
	if order.Discount > 0 {
		fmt.Fprintf(&b, "Discount: -%s</br>", order.Discount)
	}
	fmt.Fprintf(&b, "Total: %s</br>", order.Total)
	return b.String()
}
