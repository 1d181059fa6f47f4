package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsRegisterAndCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)

	m.IncOperation("add_item")
	m.IncOperation("add_item")
	m.IncOperation("")
	m.IncCheckoutFailure("missing_address")
	m.ObserveCheckout(250 * time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	ops, ok := byName["cart_operations_total"]
	if !ok {
		t.Fatal("cart_operations_total not registered")
	}
	total := 0.0
	for _, metric := range ops.GetMetric() {
		total += metric.GetCounter().GetValue()
		for _, label := range metric.GetLabel() {
			if label.GetValue() == "" {
				t.Fatal("empty operation label should be normalized")
			}
		}
	}
	if total != 3 {
		t.Fatalf("expected 3 operations recorded, got %v", total)
	}

	if _, ok := byName["checkout_duration_seconds"]; !ok {
		t.Fatal("checkout_duration_seconds not registered")
	}
	if _, ok := byName["checkout_failures_total"]; !ok {
		t.Fatal("checkout_failures_total not registered")
	}
}

func TestCartMetricsNilSafe(t *testing.T) {
	var m *CartMetrics
	m.IncOperation("add_item")
	m.ObserveCheckout(time.Second)
	m.IncCheckoutFailure("empty")

	empty := NewCartMetrics(nil)
	empty.IncOperation("add_item")
}
