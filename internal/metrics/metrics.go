package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	CartItemsAdded      prometheus.Counter
	OrdersPlaced        prometheus.Counter
	OrderSubmitFailures prometheus.Counter
	SignIns             prometheus.Counter
	SignInFailures      prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	cartItemsAdded := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_cart_items_added_total"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_orders_placed_total"})
	orderSubmitFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_order_submit_failures_total"})
	signIns := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_sign_ins_total"})
	signInFailures := prometheus.NewCounter(prometheus.CounterOpts{Name: "storefront_sign_in_failures_total"})

	r.MustRegister(cartItemsAdded, ordersPlaced, orderSubmitFailures, signIns, signInFailures)
	return &Registry{
		reg:                 r,
		CartItemsAdded:      cartItemsAdded,
		OrdersPlaced:        ordersPlaced,
		OrderSubmitFailures: orderSubmitFailures,
		SignIns:             signIns,
		SignInFailures:      signInFailures,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
