package services

import (
	"time"

	"github.com/SscSPs/invoicing_app/internal/platform/metrics"
)

// ServiceOption is a functional option shared by the services in this package.
type ServiceOption func(*BaseService)

// WithMetrics records ledger counters on m.
func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *BaseService) {
		s.Metrics = m
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *BaseService) {
		s.Now = now
	}
}

func newBaseService(opts []ServiceOption) BaseService {
	var b BaseService
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
