// Package metrics exposes the Prometheus collectors shared by the pollers,
// the order controller and the print reconciler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Options holds configuration for collector construction.
type Options struct {
	// Namespace is the prefix for all metrics (default: "vendorboard")
	Namespace string
}

// Collectors bundles every counter the application records.
type Collectors struct {
	pollsTotal       *prometheus.CounterVec
	pollErrorsTotal  *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	transitionErrors *prometheus.CounterVec
	printsTotal      prometheus.Counter
	printedOrders    prometheus.Counter
	completionErrors prometheus.Counter
	alertsTotal      prometheus.Counter
}

// New creates the collectors and registers them with the default registry.
func New(opts Options) *Collectors {
	ns := opts.Namespace
	if ns == "" {
		ns = "vendorboard"
	}

	return &Collectors{
		pollsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "poll",
				Name:      "fetches_total",
				Help:      "Completed poll fetches per resource.",
			},
			[]string{"resource"},
		),
		pollErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "poll",
				Name:      "fetch_errors_total",
				Help:      "Failed poll fetches per resource.",
			},
			[]string{"resource"},
		),
		transitionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "orders",
				Name:      "transitions_total",
				Help:      "Order lifecycle transitions applied, by action.",
			},
			[]string{"action"},
		),
		transitionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "orders",
				Name:      "transition_errors_total",
				Help:      "Order lifecycle transitions that failed, by action.",
			},
			[]string{"action"},
		),
		printsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "print",
				Name:      "batches_total",
				Help:      "Receipt batches sent to the printer.",
			},
		),
		printedOrders: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "print",
				Name:      "orders_completed_total",
				Help:      "Orders confirmed printed against the backend.",
			},
		),
		completionErrors: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "print",
				Name:      "completion_errors_total",
				Help:      "Print completion batches that failed.",
			},
		),
		alertsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: ns,
				Subsystem: "alert",
				Name:      "fired_total",
				Help:      "Audible order alerts fired.",
			},
		),
	}
}

// FetchSucceeded 实现 poll.Observer。
func (c *Collectors) FetchSucceeded(name string) {
	c.pollsTotal.WithLabelValues(name).Inc()
}

// FetchFailed 实现 poll.Observer。
func (c *Collectors) FetchFailed(name string) {
	c.pollErrorsTotal.WithLabelValues(name).Inc()
}

// TransitionApplied 实现 order.Stats。
func (c *Collectors) TransitionApplied(action string) {
	c.transitionsTotal.WithLabelValues(action).Inc()
}

// TransitionFailed 实现 order.Stats。
func (c *Collectors) TransitionFailed(action string) {
	c.transitionErrors.WithLabelValues(action).Inc()
}

// PrintStarted 实现 printer.Stats。
func (c *Collectors) PrintStarted() {
	c.printsTotal.Inc()
}

// PrintCompleted 实现 printer.Stats。
func (c *Collectors) PrintCompleted(count int) {
	c.printedOrders.Add(float64(count))
}

// CompletionFailed 实现 printer.Stats。
func (c *Collectors) CompletionFailed() {
	c.completionErrors.Inc()
}

// AlertFired 记录一次提醒。
func (c *Collectors) AlertFired() {
	c.alertsTotal.Inc()
}
