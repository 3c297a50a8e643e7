package payroll

import (
	"wfm/internal/platform/metrics"
)

type Service struct {
	store        StoreAPI
	metrics      *metrics.Collector
	statementDir string
}

// NewService wires the payroll domain. collector may be nil when metrics are
// disabled; statementDir is where statement PDFs are written.
func NewService(store StoreAPI, collector *metrics.Collector, statementDir string) *Service {
	return &Service{store: store, metrics: collector, statementDir: statementDir}
}
