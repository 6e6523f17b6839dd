// Package metrics counts operations and driver calls. Because the tool is
// a one-shot CLI rather than a daemon, metrics are exported through the
// Prometheus textfile-collector convention: when the config sets
// metrics_textfile, the registry is written there at the end of each run
// for node_exporter to pick up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the Prometheus registry and counters.
type Collector struct {
	registry *prometheus.Registry

	// Operations counts lifecycle operations by name and outcome.
	Operations *prometheus.CounterVec
	// DriverCalls counts resource-driver calls by method and outcome.
	DriverCalls *prometheus.CounterVec
}

// New creates a collector with a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vpcctl",
			Name:      "operations_total",
			Help:      "Lifecycle operations by name and outcome.",
		}, []string{"op", "outcome"}),
		DriverCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vpcctl",
			Name:      "driver_calls_total",
			Help:      "Resource driver calls by method and outcome.",
		}, []string{"call", "outcome"}),
	}
	c.registry.MustRegister(c.Operations, c.DriverCalls)
	return c
}

// ObserveOperation records the outcome of one lifecycle operation.
func (c *Collector) ObserveOperation(op string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.Operations.WithLabelValues(op, outcome).Inc()
}

// ObserveDriverCall records the outcome of one driver call.
func (c *Collector) ObserveDriverCall(call string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.DriverCalls.WithLabelValues(call, outcome).Inc()
}

// WriteTextfile writes the registry to path in the textfile-collector
// format. The write is atomic (WriteToTextfile renames into place).
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
