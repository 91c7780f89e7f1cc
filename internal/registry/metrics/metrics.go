package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registry module. Tracks record
// creation counts, rejected conflicts, and list query durations.
type Metrics struct {
	ExamplesCreated   prometheus.Counter
	ProductsCreated   prometheus.Counter
	ReferencesCreated prometheus.Counter
	ConflictsRejected prometheus.Counter
	ListDuration      prometheus.Histogram
}

// New creates a new Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		ExamplesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudlandia_examples_created_total",
			Help: "Total number of examples created",
		}),
		ProductsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudlandia_products_created_total",
			Help: "Total number of products created",
		}),
		ReferencesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudlandia_references_created_total",
			Help: "Total number of references created",
		}),
		ConflictsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "crudlandia_conflicts_rejected_total",
			Help: "Total number of writes rejected by uniqueness or version conflicts",
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "crudlandia_list_duration_seconds",
			Help:    "Duration of filtered list queries",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementExamplesCreated records a successful example creation.
func (m *Metrics) IncrementExamplesCreated() {
	m.ExamplesCreated.Inc()
}

// IncrementProductsCreated records a successful product creation.
func (m *Metrics) IncrementProductsCreated() {
	m.ProductsCreated.Inc()
}

// IncrementReferencesCreated records a successful reference creation.
func (m *Metrics) IncrementReferencesCreated() {
	m.ReferencesCreated.Inc()
}

// IncrementConflictsRejected records a write rejected by a uniqueness or
// version conflict.
func (m *Metrics) IncrementConflictsRejected() {
	m.ConflictsRejected.Inc()
}

// ObserveList records the duration of a list operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveList(start time.Time) {
	m.ListDuration.Observe(time.Since(start).Seconds())
}
