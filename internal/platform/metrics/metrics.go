package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the prometheus collectors of the ledger. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	entriesPosted   *prometheus.CounterVec
	postingRejected *prometheus.CounterVec
	numbersIssued   *prometheus.CounterVec
	postedAmount    prometheus.Counter
	cacheLookups    *prometheus.CounterVec
}

// New creates a registry with the ledger collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	posted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_posted_total",
		Help: "Journal entries committed, by source document kind.",
	}, []string{"source"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_posting_rejections_total",
		Help: "Posting attempts rejected before any write, by reason.",
	}, []string{"reason"})
	issued := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_document_numbers_issued_total",
		Help: "Document numbers handed out, by scope.",
	}, []string{"scope"})
	amount := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledger_posted_debit_amount_total",
		Help: "Sum of debit amounts of committed entries.",
	})
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tax_rate_cache_lookups_total",
		Help: "Product default lookups through the cache, by result (hit, miss, error).",
	}, []string{"result"})
	registry.MustRegister(posted, rejected, issued, amount, lookups,
		collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		entriesPosted:   posted,
		postingRejected: rejected,
		numbersIssued:   issued,
		postedAmount:    amount,
		cacheLookups:    lookups,
	}
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// EntryPosted records a committed entry.
func (m *Metrics) EntryPosted(source string, debitTotal float64) {
	if m == nil {
		return
	}
	if source == "" {
		source = "manual"
	}
	m.entriesPosted.WithLabelValues(source).Inc()
	m.postedAmount.Add(debitTotal)
}

// PostingRejected records a rejected posting attempt.
func (m *Metrics) PostingRejected(reason string) {
	if m == nil {
		return
	}
	m.postingRejected.WithLabelValues(reason).Inc()
}

// NumberIssued records a document number handed out.
func (m *Metrics) NumberIssued(scope string) {
	if m == nil {
		return
	}
	m.numbersIssued.WithLabelValues(scope).Inc()
}

// CacheLookup records the outcome of a tax-rate cache read.
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
