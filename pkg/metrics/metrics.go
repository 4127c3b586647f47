package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of every HTTP request, labelled by route pattern
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "Latency of HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// Checkout attempts by step and outcome
	CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_checkout_total",
		Help: "Checkout steps by outcome",
	}, []string{"step", "outcome"})

	// Coupon evaluations rejected, by reason
	CouponRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_coupon_rejections_total",
		Help: "Coupon evaluations rejected by reason",
	}, []string{"reason"})

	// Requests denied by the abuse guard
	GuardDenials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_guard_denials_total",
		Help: "Requests denied by the abuse guard",
	}, []string{"rule", "reason"})

	// Access tokens refreshed by the auth gate
	TokenRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_token_refresh_total",
		Help: "Refresh token exchanges by outcome",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		CheckoutTotal,
		CouponRejections,
		GuardDenials,
		TokenRefreshes,
	)
}
