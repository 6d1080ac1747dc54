package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "car_rent_orders_created_total",
		Help: "Total number of rental orders successfully created.",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "car_rent_order_transitions_total",
		Help: "Total number of order lifecycle events applied, by event.",
	},
		[]string{"event"},
	)

	OrderRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "car_rent_order_rejections_total",
		Help: "Total number of order operations refused, by event and error kind.",
	},
		[]string{"event", "kind"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "car_rent_http_request_duration_seconds",
		Help:    "Latency of HTTP requests by route, method and status.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"route", "method", "status"},
	)
)
