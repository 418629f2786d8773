// Package metrics defines the Prometheus collectors for the split checkout.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitorder"

// Failure stages reported through SplitFailures.
const (
	StageLoad     = "load"
	StagePrepare  = "prepare"
	StageOrder    = "order"
	StageSession  = "session"
	StagePublish  = "publish"
	StageValidate = "validate"
)

// Metrics holds the collectors used by the service layer.
type Metrics struct {
	SplitsPrepared  *prometheus.CounterVec
	OrdersPlaced    prometheus.Counter
	SplitFailures   *prometheus.CounterVec
	SplitGrandTotal prometheus.Histogram
	ShippingDrift   prometheus.Counter
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		SplitsPrepared: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "carts_split_total",
			Help:      "Carts split into two payable carts, by checkout method.",
		}, []string{"checkout_method"}),
		OrdersPlaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed from split carts.",
		}),
		SplitFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "split_failures_total",
			Help:      "Failed split checkouts, by stage.",
		}, []string{"stage"}),
		SplitGrandTotal: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "split_grand_total",
			Help:      "Grand total of each split cart.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		}),
		ShippingDrift: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipping_drift_total",
			Help:      "Splits whose shipping shares do not add up to the original shipping amount.",
		}),
	}
}

// NewNop returns collectors registered on a private registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
