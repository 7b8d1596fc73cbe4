package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type StoreMetrics struct {
	OrdersPlaced     prometheus.Counter
	CheckoutFailures *prometheus.CounterVec
}

func NewStoreMetrics() *StoreMetrics {
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "umishop",
		Name:      "orders_placed_total",
		Help:      "Total number of successfully placed orders.",
	})
	checkoutFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "umishop",
		Name:      "checkout_failures_total",
		Help:      "Total number of failed checkout attempts by reason.",
	}, []string{"reason"})

	prometheus.MustRegister(ordersPlaced, checkoutFailures)
	return &StoreMetrics{OrdersPlaced: ordersPlaced, CheckoutFailures: checkoutFailures}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
