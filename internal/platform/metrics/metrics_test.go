package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/invoicing_app/internal/platform/metrics"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.EntryPosted("vendor_bill", 10)
		m.PostingRejected("unbalanced")
		m.NumberIssued("PO")
		m.CacheLookup("hit")
	})
	assert.Nil(t, m.Registry())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCountersAreExported(t *testing.T) {
	m := metrics.New()

	m.EntryPosted("", 120.5)
	m.EntryPosted("vendor_bill", 79.5)
	m.NumberIssued("INV")
	m.CacheLookup("miss")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `ledger_entries_posted_total{source="manual"} 1`)
	assert.Contains(t, body, `ledger_entries_posted_total{source="vendor_bill"} 1`)
	assert.Contains(t, body, `ledger_document_numbers_issued_total{scope="INV"} 1`)
	assert.Contains(t, body, `tax_rate_cache_lookups_total{result="miss"} 1`)
	assert.Contains(t, body, "ledger_posted_debit_amount_total 200")
}

func TestPostingRejectedByReason(t *testing.T) {
	m := metrics.New()
	m.PostingRejected("unbalanced")
	m.PostingRejected("unbalanced")
	m.PostingRejected("invalid_line")

	expected := `
# HELP ledger_posting_rejections_total Posting attempts rejected before any write, by reason.
# TYPE ledger_posting_rejections_total counter
ledger_posting_rejections_total{reason="invalid_line"} 1
ledger_posting_rejections_total{reason="unbalanced"} 2
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "ledger_posting_rejections_total"))
}
