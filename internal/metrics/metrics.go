package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeFilled    = "filled"
	OutcomeRelayed   = "relayed"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
	EndpointOrders   = "orders"
	EndpointAuthStat = "auth_status"
)

var (
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ibkr_relay_orders_total",
			Help: "Orders handled, by relay mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	GatewayRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ibkr_relay_gateway_request_duration_seconds",
			Help:    "Latency of outbound calls to the IBKR gateway.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)

func init() {
	prometheus.MustRegister(OrdersTotal, GatewayRequestDuration)
}
