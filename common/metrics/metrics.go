package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the service collectors served on /metrics.
	Registry = prometheus.NewRegistry()

	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	checkouts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "attempts_total",
			Help:      "Checkout attempts by outcome.",
		},
		[]string{"outcome"},
	)

	orderValue = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "checkout",
			Name:      "order_total_amount",
			Help:      "Total amount of orders placed through checkout.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		},
	)

	subscriptionActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "subscriptions",
			Name:      "actions_total",
			Help:      "Subscription lifecycle actions by action and outcome.",
		},
		[]string{"action", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		InFlight, httpRequests, httpDuration, checkouts, orderValue, subscriptionActions,
	)
}

// ObserveHTTP records one finished request.
func ObserveHTTP(method, path string, status int, d time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// ObserveCheckout counts a checkout outcome: "created", "replayed", "empty_cart" or "failed".
func ObserveCheckout(outcome string, total float64) {
	checkouts.WithLabelValues(outcome).Inc()
	if outcome == "created" {
		orderValue.Observe(total)
	}
}

// ObserveSubscriptionAction counts a lifecycle action and whether it was applied.
func ObserveSubscriptionAction(action string, ok bool) {
	outcome := "applied"
	if !ok {
		outcome = "rejected"
	}
	subscriptionActions.WithLabelValues(action, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}
