package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutations and checkout outcomes.
type CartMetrics struct {
	operations       *prometheus.CounterVec
	checkoutDuration prometheus.Histogram
	checkoutFailures *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart state transitions by operation.",
	}, []string{"operation"})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	checkoutFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failures_total",
		Help: "Checkout submissions rejected, by reason.",
	}, []string{"reason"})
	reg.MustRegister(operations, checkoutDuration, checkoutFailures)
	return &CartMetrics{
		operations:       operations,
		checkoutDuration: checkoutDuration,
		checkoutFailures: checkoutFailures,
	}
}

// IncOperation counts a cart mutation by operation name.
func (c *CartMetrics) IncOperation(operation string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(operation)).Inc()
}

// ObserveCheckout records the duration of a checkout submission.
func (c *CartMetrics) ObserveCheckout(duration time.Duration) {
	if c == nil || c.checkoutDuration == nil {
		return
	}
	c.checkoutDuration.Observe(duration.Seconds())
}

// IncCheckoutFailure counts a rejected checkout by reason.
func (c *CartMetrics) IncCheckoutFailure(reason string) {
	if c == nil || c.checkoutFailures == nil {
		return
	}
	c.checkoutFailures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
